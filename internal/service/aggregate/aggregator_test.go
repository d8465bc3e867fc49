package aggregate

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/service/scoring"
)

func strPtr(s string) *string { return &s }

func withBio(platform, bio string) domain.PlatformResult {
	return domain.PlatformResult{
		Platform: platform,
		Found:    true,
		Query:    domain.QueryHandle,
		Profile:  &domain.CanonicalProfile{Platform: platform, Handle: "jane", Bio: strPtr(bio)},
	}
}

func TestScenarioThreePlatformsOneBio(t *testing.T) {
	inv := domain.NewInvestigation(domain.Subject{Handle: "jane"})
	agg := New(5, nil)
	results := []domain.PlatformResult{
		withBio("tiktok", "travel addict @alice #travel"),
		{Platform: "instagram", Found: true, Query: domain.QueryHandle},
		{Platform: "twitter", Found: true, Query: domain.QueryHandle},
	}
	agg.ApplyAll(inv, results)

	snap := inv.Snapshot()
	xref := agg.CrossReference(snap)
	scores := scoring.Compute(snap, results)

	if scores.Confidence.UsernameMatch != 90 {
		t.Fatalf("usernameMatch = %d, want 90", scores.Confidence.UsernameMatch)
	}
	mentions, _ := json.Marshal(xref.TopMentions)
	hashtags, _ := json.Marshal(xref.TopHashtags)
	if string(mentions) != `{"alice":1}` {
		t.Fatalf("topMentions = %s", mentions)
	}
	if string(hashtags) != `{"travel":1}` {
		t.Fatalf("topHashtags = %s", hashtags)
	}
	if xref.PlatformCount != 3 || !xref.SameUsernameAcrossPlatforms || xref.ConfidenceLevel != LevelHigh {
		t.Fatalf("cross reference = %+v", xref)
	}
}

func TestFoundPlatformsAppendOnceInCheckOrder(t *testing.T) {
	inv := domain.NewInvestigation(domain.Subject{Handle: "jane"})
	agg := New(5, nil)

	agg.ApplyAll(inv, []domain.PlatformResult{
		{Platform: "github", Found: true},
		{Platform: "reddit", Found: false, Error: domain.ErrorTimedOut},
		{Platform: "tiktok", Found: true},
		{Platform: "github", Found: true},
	})

	snap := inv.Snapshot()
	if got := snap.PlatformsFound; len(got) != 2 || got[0] != "github" || got[1] != "tiktok" {
		t.Fatalf("platformsFound = %v", got)
	}
	if got := snap.PlatformsChecked; len(got) != 3 {
		t.Fatalf("platformsChecked = %v", got)
	}
}

func TestTopNTiesKeepFirstSeenOrder(t *testing.T) {
	inv := domain.NewInvestigation(domain.Subject{Handle: "jane"})
	agg := New(3, nil)
	post := func(desc string) domain.CanonicalPost {
		return domain.CanonicalPost{Platform: "x", ID: desc, Description: strPtr(desc)}
	}

	agg.Apply(inv, domain.PlatformResult{
		Platform: "x",
		Found:    true,
		Posts: []domain.CanonicalPost{
			post("@zed @amy #b"),
			post("@amy @Bob #a #b"),
			post("@bob @cat #C #c"),
		},
	})

	xref := agg.CrossReference(inv.Snapshot())
	got, _ := json.Marshal(xref.TopMentions)
	// amy=2 first; zed, Bob, bob, cat tie at 1 and keep first-seen order
	if string(got) != `{"amy":2,"zed":1,"Bob":1}` {
		t.Fatalf("topMentions = %s", got)
	}
	tags, _ := json.Marshal(xref.TopHashtags)
	if string(tags) != `{"b":2,"a":1,"C":1}` {
		t.Fatalf("topHashtags = %s", tags)
	}
	if xref.MentionsFound != 5 {
		t.Fatalf("mentionsFound = %d, want 5", xref.MentionsFound)
	}
}

func TestConnectionsExcludeSubject(t *testing.T) {
	inv := domain.NewInvestigation(domain.Subject{Handle: "@Jane"})
	agg := New(5, nil)
	authored := func(handle string) domain.CanonicalPost {
		return domain.CanonicalPost{Platform: "x", ID: handle, Author: &domain.Author{Handle: strPtr(handle)}}
	}

	agg.Apply(inv, domain.PlatformResult{
		Platform: "x",
		Found:    true,
		Profile:  &domain.CanonicalProfile{Handle: "jane", Bio: strPtr("collab with @jane and @ben")},
		Posts:    []domain.CanonicalPost{authored("jane"), authored("kim"), authored("ben")},
	})

	got := inv.Snapshot().Connections
	if len(got) != 2 || got[0] != "ben" || got[1] != "kim" {
		t.Fatalf("connections = %v, want [ben kim]", got)
	}
}

func TestConcurrentApplyIsSerialized(t *testing.T) {
	inv := domain.NewInvestigation(domain.Subject{Handle: "jane"})
	agg := New(5, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Apply(inv, withBio("tiktok", "@alice #travel"))
		}()
	}
	wg.Wait()

	snap := inv.Snapshot()
	if snap.Mentions.Count("alice") != 50 || snap.Hashtags.Count("travel") != 50 {
		t.Fatalf("counts = %d/%d, want 50/50", snap.Mentions.Count("alice"), snap.Hashtags.Count("travel"))
	}
	if snap.PlatformCount() != 1 {
		t.Fatalf("platformCount = %d, want 1", snap.PlatformCount())
	}
}

func TestConfidenceLevel(t *testing.T) {
	for count, want := range map[int]string{0: LevelUnknown, 1: LevelLow, 2: LevelMedium, 3: LevelHigh, 9: LevelHigh} {
		if got := ConfidenceLevel(count); got != want {
			t.Errorf("ConfidenceLevel(%d) = %s, want %s", count, got, want)
		}
	}
}
