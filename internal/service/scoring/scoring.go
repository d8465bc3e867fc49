package scoring

import (
	"github.com/kapu/osint-footprint-go/internal/constants"
	"github.com/kapu/osint-footprint-go/internal/domain"
)

// Compute derives the score set from the accumulator snapshot and the platform results.
// It has no side effects; integer arithmetic only.
func Compute(snap domain.Snapshot, results []domain.PlatformResult) domain.ScoreSet {
	platformCount := snap.PlatformCount()
	username := UsernameConfidence(MatchedPlatforms(results))
	// Name and location matching have no signal source yet and stay 0.
	name, location := 0, 0

	return domain.ScoreSet{
		FootprintScore: Footprint(platformCount, snap.Mentions.Len() > 0),
		PrivacyRisk:    PrivacyRisk(platformCount),
		Confidence: domain.Confidence{
			UsernameMatch: username,
			NameMatch:     name,
			LocationMatch: location,
			Overall:       Overall(username, name, location),
		},
	}
}

func Footprint(platformCount int, hasMentions bool) int {
	score := constants.ScoreConfig.PerPlatform * platformCount
	if hasMentions {
		score += constants.ScoreConfig.MentionBonus
	}
	if score > constants.ScoreConfig.MaxFootprint {
		return constants.ScoreConfig.MaxFootprint
	}
	return score
}

func PrivacyRisk(platformCount int) domain.PrivacyRisk {
	switch {
	case platformCount >= constants.ScoreConfig.HighRiskPlatforms:
		return domain.PrivacyRiskHigh
	case platformCount >= constants.ScoreConfig.MediumRiskPlatforms:
		return domain.PrivacyRiskMedium
	default:
		return domain.PrivacyRiskLow
	}
}

// MatchedPlatforms counts distinct platforms found by a handle query.
func MatchedPlatforms(results []domain.PlatformResult) int {
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Found && r.ByHandle() {
			seen[r.Platform] = struct{}{}
		}
	}
	return len(seen)
}

func UsernameConfidence(matched int) int {
	switch {
	case matched >= 3:
		return constants.UsernameConfidence.Three
	case matched == 2:
		return constants.UsernameConfidence.Two
	case matched == 1:
		return constants.UsernameConfidence.One
	default:
		return 0
	}
}

// Overall is the floored mean of the three sub-scores.
func Overall(username, name, location int) int {
	sum := username + name + location
	if sum < 0 {
		return 0
	}
	return sum / 3
}
