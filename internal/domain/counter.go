package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Counter is a multiset of strings that remembers first-seen order.
type Counter struct {
	order  []string
	counts map[string]int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

func (c *Counter) Add(key string) {
	c.AddN(key, 1)
}

func (c *Counter) AddN(key string, n int) {
	if n <= 0 {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *Counter) Count(key string) int { return c.counts[key] }

// Len is the number of distinct keys.
func (c *Counter) Len() int { return len(c.order) }

func (c *Counter) Clone() *Counter {
	clone := &Counter{
		order:  append([]string(nil), c.order...),
		counts: make(map[string]int, len(c.counts)),
	}
	for k, v := range c.counts {
		clone.counts[k] = v
	}
	return clone
}

// All returns every key with its count, in first-seen order.
func (c *Counter) All() RankedCounts {
	out := make(RankedCounts, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, TagCount{Tag: k, Count: c.counts[k]})
	}
	return out
}

// Top returns the n most frequent keys, count descending, ties by first-seen order.
func (c *Counter) Top(n int) RankedCounts {
	all := c.All()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

type TagCount struct {
	Tag   string
	Count int
}

// RankedCounts encodes as a JSON object whose key order is the slice order.
type RankedCounts []TagCount

func (r RankedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tc := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tc.Tag)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", tc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *RankedCounts) UnmarshalJSON(data []byte) error {
	v, err := ParseJSON(data)
	if err != nil {
		return err
	}
	if v.IsNull() {
		*r = nil
		return nil
	}
	if !v.IsMap() {
		return fmt.Errorf("ranked counts: expected object, got %s", v.Kind())
	}
	out := make(RankedCounts, 0, v.Len())
	for _, key := range v.Keys() {
		item, _ := v.Get(key)
		n, ok := item.Int()
		if !ok {
			return fmt.Errorf("ranked counts: %q is not a number", key)
		}
		out = append(out, TagCount{Tag: key, Count: int(n)})
	}
	*r = out
	return nil
}
