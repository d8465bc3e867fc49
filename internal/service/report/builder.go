package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/service/aggregate"
	"github.com/kapu/osint-footprint-go/internal/service/scoring"
)

// Fixed recommendation texts.
const (
	RecommendReviewPrivacy = "Consider reviewing privacy settings across all platforms"
	RecommendNotFound      = "Username not found on common platforms"
	RecommendVerify        = "Verify all findings manually"
	RecommendRespectLaw    = "Respect privacy laws and platform ToS"
)

// Builder assembles the final report. Scores and the cross-reference are recomputed
// on every Build, so a report always matches its inputs.
type Builder struct {
	aggregator *aggregate.Aggregator
	newID      func() string
}

func NewBuilder(aggregator *aggregate.Aggregator) *Builder {
	return &Builder{
		aggregator: aggregator,
		newID:      func() string { return uuid.NewString() },
	}
}

// Build reads the accumulator; every writer for inv must have finished.
func (b *Builder) Build(inv *domain.Investigation, results []domain.PlatformResult, now time.Time) domain.Report {
	snap := inv.Snapshot()
	xref := b.aggregator.CrossReference(snap)
	scores := scoring.Compute(snap, results)

	findings := make(map[string]domain.PlatformResult, len(results))
	for _, r := range results {
		findings[r.Platform] = r
	}

	return domain.Report{
		InvestigationID:       b.newID(),
		Subject:               snap.Subject,
		InvestigationTime:     now.UTC(),
		PlatformsChecked:      nonNil(snap.PlatformsChecked),
		Findings:              findings,
		CrossPlatformAnalysis: xref,
		Scores:                scores,
		Summary:               summarize(snap, results, scores),
		Recommendations:       Recommendations(xref.PlatformCount),
	}
}

// Recommendations applies the fixed rules; the last two entries are always present.
func Recommendations(platformCount int) []string {
	var out []string
	if platformCount > 3 {
		out = append(out, RecommendReviewPrivacy)
	}
	if platformCount == 0 {
		out = append(out, RecommendNotFound)
	}
	return append(out, RecommendVerify, RecommendRespectLaw)
}

func summarize(snap domain.Snapshot, results []domain.PlatformResult, scores domain.ScoreSet) domain.Summary {
	summary := domain.Summary{
		TotalPlatformsChecked: len(snap.PlatformsChecked),
		ProfilesFound:         snap.PlatformCount(),
		ConfidenceScore:       scores.Confidence.Overall,
	}
	for _, r := range results {
		summary.PostsCollected += len(r.Posts)
	}
	if summary.TotalPlatformsChecked > 0 {
		summary.InvestigationCompleteness = summary.ProfilesFound * 100 / summary.TotalPlatformsChecked
	}
	return summary
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
