package dedup

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/kapu/osint-footprint-go/internal/domain"
)

func post(id string, likes int64) domain.CanonicalPost {
	return domain.CanonicalPost{
		Platform: "tiktok",
		ID:       id,
		Stats:    domain.PostStats{Likes: likes},
		Hashtags: []string{},
	}
}

func TestDetailViewOverwritesListView(t *testing.T) {
	d := New[domain.CanonicalPost]()
	d.Push(post("123", 0))
	d.Push(post("123", 120))

	items := d.Items()
	if len(items) != 1 {
		t.Fatalf("got %d posts, want 1", len(items))
	}
	if items[0].Stats.Likes != 120 {
		t.Fatalf("likes = %d, want 120", items[0].Stats.Likes)
	}
}

func TestFirstSeenOrderSurvivesOverwrites(t *testing.T) {
	got := Collapse([]domain.CanonicalPost{
		post("a", 1), post("b", 1), post("a", 2), post("c", 1), post("b", 2), post("a", 3),
	})

	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("order = %v, want [a b c]", ids)
	}
	if got[0].Stats.Likes != 3 || got[1].Stats.Likes != 2 {
		t.Fatalf("last-wins violated: %+v", got)
	}
}

func TestOutOfOrderArrivalKeepsLatestCapture(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		seqs := rng.Perm(6)
		d := New[domain.CanonicalPost]()
		for _, seq := range seqs {
			// likes mirrors capture order, so the highest seq carries the richest record
			d.Add(int64(seq), post("x", int64(seq*10)))
		}
		items := d.Items()
		if len(items) != 1 || items[0].Stats.Likes != 50 {
			t.Fatalf("arrival %v: got %+v, want likes=50", seqs, items)
		}
	}
}

func TestAddReportsWhetherRecordWasStored(t *testing.T) {
	d := New[domain.CanonicalPost]()

	if !d.Add(5, post("x", 1)) {
		t.Fatalf("first add rejected")
	}
	if d.Add(3, post("x", 2)) {
		t.Fatalf("older capture replaced a newer one")
	}
	if !d.Add(5, post("x", 3)) {
		t.Fatalf("equal sequence should replace")
	}
	d.Push(post("y", 1))
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if got := d.Items()[0].Stats.Likes; got != 3 {
		t.Fatalf("likes = %d, want 3", got)
	}
}

func TestProfilesCollapseCaseInsensitively(t *testing.T) {
	got := Collapse([]domain.CanonicalProfile{
		{Platform: "twitter", Handle: "Jane", FollowerCount: 1},
		{Platform: "twitter", Handle: "jane", FollowerCount: 2},
		{Platform: "tiktok", Handle: "jane", FollowerCount: 3},
	})
	if len(got) != 2 {
		t.Fatalf("got %d profiles, want 2", len(got))
	}
	if got[0].FollowerCount != 2 || got[0].Handle != "jane" {
		t.Fatalf("first profile = %+v", got[0])
	}
}

func TestConcurrentPushesGetDistinctSequences(t *testing.T) {
	d := New[domain.CanonicalPost]()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.Push(post(fmt.Sprint(i), 1))
		}(i)
	}
	wg.Wait()

	if d.nextSeq != n {
		t.Fatalf("nextSeq = %d, want %d", d.nextSeq, n)
	}
	seen := make(map[int64]bool, n)
	for _, e := range d.entries {
		if seen[e.seq] {
			t.Fatalf("sequence %d assigned twice", e.seq)
		}
		seen[e.seq] = true
	}
}
