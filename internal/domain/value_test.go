package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, raw string) Value {
	t.Helper()
	v, err := ParseJSON([]byte(raw))
	if err != nil {
		t.Fatalf("ParseJSON(%s) error = %v", raw, err)
	}
	return v
}

func TestParseJSONKeepsKeyOrder(t *testing.T) {
	v := mustParse(t, `{"z":1,"a":{"y":true,"b":null},"m":[3,"x"],"z":2}`)

	if diff := cmp.Diff([]string{"z", "a", "m"}, v.Keys()); diff != "" {
		t.Fatalf("keys mismatch:\n%s", diff)
	}
	if z, _ := v.Get("z"); z.text != "2" {
		t.Fatalf("repeated key should keep its last value, got %s", z.text)
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"z":2,"a":{"y":true,"b":null},"m":[3,"x"]}`; string(data) != want {
		t.Fatalf("Marshal() = %s, want %s", data, want)
	}
}

func TestParseJSONRejects(t *testing.T) {
	for _, raw := range []string{"", "   ", `{"a":`, `{not json}`} {
		if _, err := ParseJSON([]byte(raw)); err == nil {
			t.Errorf("ParseJSON(%q) should fail", raw)
		}
	}
}

func TestPathAndIndex(t *testing.T) {
	v := mustParse(t, `{"a":{"list":[{"id":"x"},{"id":"y"}]},"s":"text"}`)

	tests := []struct {
		name     string
		segments []string
		want     string
		ok       bool
	}{
		{"nested list item", []string{"a", "list", "1", "id"}, "y", true},
		{"first item", []string{"a", "list", "0", "id"}, "x", true},
		{"index out of range", []string{"a", "list", "2", "id"}, "", false},
		{"negative index", []string{"a", "list", "-1"}, "", false},
		{"non-numeric index", []string{"a", "list", "first"}, "", false},
		{"missing key", []string{"a", "nope"}, "", false},
		{"through a scalar", []string{"s", "x"}, "", false},
		{"no segments", nil, "", true},
	}
	for _, tt := range tests {
		got, ok := v.Path(tt.segments...)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if s, _ := got.Str(); tt.want != "" && s != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, s, tt.want)
		}
	}

	if _, ok := v.Index(0); ok {
		t.Fatal("Index on a map should fail")
	}
	if got, ok := Null().Get("a"); ok || !got.IsNull() {
		t.Fatal("Get on null should return null, false")
	}
}

func TestScalarAccessors(t *testing.T) {
	v := mustParse(t, `{"n":12.9,"big":9007199254740993,"s":"42","neg":"-3","word":"many","t":"true","one":1}`)

	ints := map[string]int64{"n": 12, "big": 9007199254740993, "s": 42, "neg": -3}
	for key, want := range ints {
		item, _ := v.Get(key)
		if got, ok := item.Int(); !ok || got != want {
			t.Errorf("Int(%s) = %d, %v; want %d", key, got, ok, want)
		}
	}
	word, _ := v.Get("word")
	if _, ok := word.Int(); ok {
		t.Error("Int() should reject a non-numeric string")
	}
	for _, key := range []string{"t", "one"} {
		item, _ := v.Get(key)
		if b, ok := item.Bool(); !ok || !b {
			t.Errorf("Bool(%s) = %v, %v; want true", key, b, ok)
		}
	}
}

func TestFromAnyStructKeepsFieldOrder(t *testing.T) {
	type item struct {
		ID    string `json:"id"`
		Likes int    `json:"likes"`
	}
	v := FromAny(item{ID: "1", Likes: 3})
	if diff := cmp.Diff([]string{"id", "likes"}, v.Keys()); diff != "" {
		t.Fatalf("keys mismatch:\n%s", diff)
	}
}
