package aggregate

import (
	"github.com/kapu/osint-footprint-go/internal/constants"
	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/util"
	"go.uber.org/zap"
)

// Confidence levels of the cross-reference, by number of platforms found.
const (
	LevelHigh    = "HIGH"
	LevelMedium  = "MEDIUM"
	LevelLow     = "LOW"
	LevelUnknown = "UNKNOWN"
)

// Aggregator folds platform results into an Investigation and derives the
// cross-platform view from it.
type Aggregator struct {
	topN   int
	logger *zap.Logger
}

// New creates an Aggregator. topN <= 0 uses the default of 5.
func New(topN int, logger *zap.Logger) *Aggregator {
	if topN <= 0 {
		topN = constants.AnalysisConfig.TopN
	}
	return &Aggregator{topN: topN, logger: util.OrNop(logger)}
}

// Apply records one platform result. Call it once per result, from one goroutine at a
// time per Investigation or under the Investigation's own serialization.
func (a *Aggregator) Apply(inv *domain.Investigation, result domain.PlatformResult) {
	inv.MarkChecked(result.Platform)
	if result.Found {
		if !inv.MarkFound(result.Platform) {
			a.logger.Debug("Platform already marked found", zap.String("platform", result.Platform))
		}
	}

	subject := inv.Subject().Handle
	for _, text := range freeText(result) {
		for _, mention := range util.Mentions(text) {
			inv.AddMention(mention)
			if !util.SameHandle(mention, subject) {
				inv.AddConnection(mention)
			}
		}
		for _, tag := range util.Hashtags(text) {
			inv.AddHashtag(tag)
		}
	}

	for _, post := range result.Posts {
		handle := post.AuthorHandle()
		if handle != "" && !util.SameHandle(handle, subject) {
			inv.AddConnection(handle)
		}
	}
}

// ApplyAll applies results in order.
func (a *Aggregator) ApplyAll(inv *domain.Investigation, results []domain.PlatformResult) {
	for _, r := range results {
		a.Apply(inv, r)
	}
}

// CrossReference summarises the accumulator. It must only be called after every Apply
// for the investigation has returned.
func (a *Aggregator) CrossReference(snap domain.Snapshot) domain.CrossReference {
	count := snap.PlatformCount()
	return domain.CrossReference{
		PlatformCount:               count,
		SameUsernameAcrossPlatforms: count > 1,
		TopMentions:                 snap.Mentions.Top(a.topN),
		TopHashtags:                 snap.Hashtags.Top(a.topN),
		MentionsFound:               snap.Mentions.Len(),
		Connections:                 len(snap.Connections),
		ConfidenceLevel:             ConfidenceLevel(count),
	}
}

func ConfidenceLevel(platformCount int) string {
	switch {
	case platformCount >= 3:
		return LevelHigh
	case platformCount >= 2:
		return LevelMedium
	case platformCount >= 1:
		return LevelLow
	default:
		return LevelUnknown
	}
}

// freeText returns the bio and every post description of a result.
func freeText(result domain.PlatformResult) []string {
	var texts []string
	if result.Profile != nil && result.Profile.Bio != nil {
		texts = append(texts, *result.Profile.Bio)
	}
	for _, post := range result.Posts {
		if post.Description != nil {
			texts = append(texts, *post.Description)
		}
	}
	return texts
}
