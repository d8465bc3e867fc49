package domain

import "time"

type PrivacyRisk string

const (
	PrivacyRiskLow    PrivacyRisk = "LOW"
	PrivacyRiskMedium PrivacyRisk = "MEDIUM"
	PrivacyRiskHigh   PrivacyRisk = "HIGH"
)

type Confidence struct {
	UsernameMatch int `json:"usernameMatch"`
	NameMatch     int `json:"nameMatch"`
	LocationMatch int `json:"locationMatch"`
	Overall       int `json:"overall"`
}

// ScoreSet is derived from an investigation each time a report is built and is never
// stored on its own.
type ScoreSet struct {
	FootprintScore int         `json:"footprintScore"`
	PrivacyRisk    PrivacyRisk `json:"privacyRisk"`
	Confidence     Confidence  `json:"confidence"`
}

type CrossReference struct {
	PlatformCount               int          `json:"platformCount"`
	SameUsernameAcrossPlatforms bool         `json:"sameUsernameAcrossPlatforms"`
	TopMentions                 RankedCounts `json:"topMentions"`
	TopHashtags                 RankedCounts `json:"topHashtags"`
	MentionsFound               int          `json:"mentionsFound"`
	Connections                 int          `json:"connections"`
	ConfidenceLevel             string       `json:"confidenceLevel"`
}

type Summary struct {
	TotalPlatformsChecked     int `json:"totalPlatformsChecked"`
	ProfilesFound             int `json:"profilesFound"`
	PostsCollected            int `json:"postsCollected"`
	ConfidenceScore           int `json:"confidenceScore"`
	InvestigationCompleteness int `json:"investigationCompleteness"`
}

// Report is the JSON-serializable output of one investigation.
type Report struct {
	InvestigationID       string                    `json:"investigationId"`
	Subject               Subject                   `json:"subject"`
	InvestigationTime     time.Time                 `json:"investigationTime"`
	PlatformsChecked      []string                  `json:"platformsChecked"`
	Findings              map[string]PlatformResult `json:"findings"`
	CrossPlatformAnalysis CrossReference            `json:"crossPlatformAnalysis"`
	Scores                ScoreSet                  `json:"scores"`
	Summary               Summary                   `json:"summary"`
	Recommendations       []string                  `json:"recommendations"`
}
