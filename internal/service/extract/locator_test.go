package extract

import (
	"strings"
	"testing"

	"github.com/kapu/osint-footprint-go/internal/domain"
)

const profilePage = `<!DOCTYPE html>
<html><head>
<meta property="og:title" content="Jane Doe (@jane.doe) • Instagram photos and videos">
<meta property="og:description" content="1,234 Followers, 56 Following, 78 Posts - See Instagram photos and videos from Jane Doe (@jane.doe)">
<meta name="viewport" content="width=device-width">
<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">{"__DEFAULT_SCOPE__":{"webapp.user-detail":{"userInfo":{"user":{"id":"7","uniqueId":"jane"},"stats":{"followerCount":10,"diggCount":3}},"itemList":[{"id":"100","desc":"hi #travel","createTime":1700000000,"stats":{"diggCount":5}}]}}}</script>
<script id="SIGI_STATE">{ broken json</script>
<script>var x = 1; window._sharedData = {"entry_data":{"ProfilePage":[{"graphql":{"user":{"username":"jane","edge_followed_by":{"count":7},"note":"a } in a string"}}}]}};</script>
</head><body></body></html>`

func mustTable(t *testing.T) *MarkerTable {
	t.Helper()
	table, err := DefaultMarkerTable()
	if err != nil {
		t.Fatalf("DefaultMarkerTable() error = %v", err)
	}
	return table
}

func TestLocateFindsMarkersInTableOrder(t *testing.T) {
	locator := NewLocator(mustTable(t), nil)

	result := locator.Locate(profilePage)

	got := strings.Join(result.Names(), ",")
	want := "UNIVERSAL_DATA,SHARED_DATA,OPEN_GRAPH"
	if got != want {
		t.Fatalf("payload markers = %q, want %q", got, want)
	}
	if len(result.Failures) != 1 || result.Failures[0].Marker != "SIGI_STATE" {
		t.Fatalf("failures = %+v, want one SIGI_STATE failure", result.Failures)
	}
	if result.Failures[0].Kind != domain.ErrorMarkerDecodeFailure {
		t.Fatalf("failure kind = %s", result.Failures[0].Kind)
	}

	shared, ok := result.Get("SHARED_DATA")
	if !ok {
		t.Fatalf("SHARED_DATA payload missing")
	}
	note, ok := shared.Root.Path("entry_data", "ProfilePage", "0", "graphql", "user", "note")
	if !ok {
		t.Fatalf("assignment literal was truncated: %s", shared.Raw)
	}
	if s, _ := note.Str(); s != "a } in a string" {
		t.Fatalf("note = %q", s)
	}

	og, ok := result.Get("OPEN_GRAPH")
	if !ok {
		t.Fatalf("OPEN_GRAPH payload missing")
	}
	if og.Root.Len() != 2 {
		t.Fatalf("OPEN_GRAPH keys = %v, want only og: properties", og.Root.Keys())
	}
}

func TestLocateEmptyAndPlainText(t *testing.T) {
	locator := NewLocator(mustTable(t), nil)

	for _, text := range []string{"", "   ", "no structured data here", "<html><body>hello</body></html>"} {
		result := locator.Locate(text)
		if len(result.Payloads) != 0 || len(result.Failures) != 0 {
			t.Errorf("Locate(%q) = %s, want empty", text, result)
		}
	}
}

func TestLocateRawJSONCapture(t *testing.T) {
	locator := NewLocator(mustTable(t), nil)

	result := locator.Locate(`  {"itemList":[{"id":"1","desc":"x","stats":{"playCount":3}}]}  `)
	if got := strings.Join(result.Names(), ","); got != "RAW_JSON" {
		t.Fatalf("payload markers = %q, want RAW_JSON", got)
	}

	result = locator.Locate(`{"itemList": [`)
	if len(result.Payloads) != 0 || len(result.Failures) != 1 {
		t.Fatalf("truncated JSON: %s", result)
	}
}

func TestLocateJSONLDBlocksBecomeList(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@type":"VideoObject","name":"one"}</script>
<script type="application/ld+json">not json</script>
<script type="application/ld+json">{"@type":"Person","name":"two"}</script>
</head></html>`
	locator := NewLocator(mustTable(t), nil)

	result := locator.Locate(page)
	payload, ok := result.Get("JSON_LD")
	if !ok {
		t.Fatalf("JSON_LD payload missing: %s", result)
	}
	if !payload.Root.IsList() || payload.Root.Len() != 2 {
		t.Fatalf("JSON_LD root = %s, want list of 2", payload.Raw)
	}
}

func TestBalancedLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1};rest`, `{"a":1}`, true},
		{`[1,[2,3]] trailing`, `[1,[2,3]]`, true},
		{`{"s":"quote \" and } brace"}x`, `{"s":"quote \" and } brace"}`, true},
		{`{"a":[1}`, "", false},
		{`{"a":1`, "", false},
		{`x{}`, "", false},
	}
	for _, tt := range tests {
		got, ok := balancedLiteral(tt.in)
		if ok != tt.ok || string(got) != tt.want {
			t.Errorf("balancedLiteral(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
