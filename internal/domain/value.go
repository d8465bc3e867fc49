package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindMap
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// Value is one node of a decoded payload tree. Map keys keep document order so
// every traversal over the same capture visits nodes in the same sequence.
// The zero Value is null.
type Value struct {
	kind  ValueKind
	b     bool
	text  string // string contents, or the literal text of a number
	keys  []string
	index map[string]int
	items []Value // map values parallel to keys, or list items
}

// Pair is a single key/value entry used to build map values.
type Pair struct {
	Key   string
	Value Value
}

func Null() Value { return Value{} }

func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

func NewString(s string) Value { return Value{kind: KindString, text: s} }

func NewInt(n int64) Value { return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)} }

func NewFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

func NewList(items ...Value) Value {
	return Value{kind: KindList, items: append([]Value{}, items...)}
}

// NewMap builds a map value. A repeated key keeps its first position and its last value.
func NewMap(pairs ...Pair) Value {
	v := Value{kind: KindMap, index: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		v.set(p.Key, p.Value)
	}
	return v
}

func (v *Value) set(key string, val Value) {
	if i, ok := v.index[key]; ok {
		v.items[i] = val
		return
	}
	v.index[key] = len(v.keys)
	v.keys = append(v.keys, key)
	v.items = append(v.items, val)
}

// ParseJSON decodes a JSON document into a Value, keeping object key order.
func ParseJSON(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Null(), fmt.Errorf("empty document")
	}
	if !gjson.ValidBytes(trimmed) {
		return Null(), fmt.Errorf("invalid JSON document (%d bytes)", len(trimmed))
	}
	return FromResult(gjson.ParseBytes(trimmed)), nil
}

// FromResult converts a gjson result into a Value.
func FromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return NewBool(false)
	case gjson.True:
		return NewBool(true)
	case gjson.Number:
		return Value{kind: KindNumber, text: r.Raw}
	case gjson.String:
		return NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			list := Value{kind: KindList}
			r.ForEach(func(_, item gjson.Result) bool {
				list.items = append(list.items, FromResult(item))
				return true
			})
			return list
		}
		m := Value{kind: KindMap, index: make(map[string]int)}
		r.ForEach(func(key, item gjson.Result) bool {
			m.set(key.String(), FromResult(item))
			return true
		})
		return m
	}
	return Null()
}

// FromAny converts an already decoded Go value (as produced by encoding/json) into a
// Value. Keys of Go maps have no order, so they are sorted.
func FromAny(in any) Value {
	switch t := in.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return NewBool(t)
	case string:
		return NewString(t)
	case json.Number:
		return Value{kind: KindNumber, text: t.String()}
	case float64:
		return NewFloat(t)
	case float32:
		return NewFloat(float64(t))
	case int:
		return NewInt(int64(t))
	case int32:
		return NewInt(int64(t))
	case int64:
		return NewInt(t)
	case uint64:
		return Value{kind: KindNumber, text: strconv.FormatUint(t, 10)}
	case json.RawMessage:
		v, err := ParseJSON(t)
		if err != nil {
			return Null()
		}
		return v
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, FromAny(item))
		}
		return NewList(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, Pair{Key: k, Value: FromAny(t[k])})
		}
		return NewMap(pairs...)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return Null()
		}
		v, err := ParseJSON(data)
		if err != nil {
			return Null()
		}
		return v
	}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) IsMap() bool     { return v.kind == KindMap }
func (v Value) IsList() bool    { return v.kind == KindList }

// Len is the number of entries of a map or list, 0 otherwise.
func (v Value) Len() int {
	if v.kind == KindMap || v.kind == KindList {
		return len(v.items)
	}
	return 0
}

// Get looks up a key of a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Null(), false
	}
	i, ok := v.index[key]
	if !ok {
		return Null(), false
	}
	return v.items[i], true
}

// Keys returns map keys in document order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Items returns list items, or map values in key order.
func (v Value) Items() []Value {
	if v.kind != KindMap && v.kind != KindList {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Index returns the i-th list item.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.items) {
		return Null(), false
	}
	return v.items[i], true
}

// Path walks map keys and list indexes ("0", "1", ...) in order.
func (v Value) Path(segments ...string) (Value, bool) {
	cur := v
	for _, seg := range segments {
		switch cur.kind {
		case KindMap:
			next, ok := cur.Get(seg)
			if !ok {
				return Null(), false
			}
			cur = next
		case KindList:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return Null(), false
			}
			next, ok := cur.Index(i)
			if !ok {
				return Null(), false
			}
			cur = next
		default:
			return Null(), false
		}
	}
	return cur, true
}

// Str returns string contents; numbers yield their literal text.
func (v Value) Str() (string, bool) {
	switch v.kind {
	case KindString, KindNumber:
		return v.text, true
	}
	return "", false
}

// Int returns the integer value of a number or a plain numeric string.
// Fractions are floored.
func (v Value) Int() (int64, bool) {
	if v.kind != KindNumber && v.kind != KindString {
		return 0, false
	}
	if n, err := strconv.ParseInt(v.text, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Floor(f)
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Bool accepts JSON booleans, "true"/"false" strings and 0/1 numbers.
func (v Value) Bool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindString:
		b, err := strconv.ParseBool(v.text)
		return b, err == nil
	case KindNumber:
		switch v.text {
		case "0":
			return false, true
		case "1":
			return true, true
		}
	}
	return false, false
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.text)
	case KindString:
		s, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(s)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := v.items[i].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
