package models

// ScoreWeight is one scoring rule and the points it awards.
type ScoreWeight struct {
	Rule   string `json:"rule"`
	Points int    `json:"points"`
}

// DigestRules tells the digest collaborator what the listings were selected
// against and how many of them to present.
type DigestRules struct {
	Criteria    FilterCriteria `json:"criteria"`
	Weights     []ScoreWeight  `json:"weights"`
	MinListings int            `json:"min_listings"`
	MaxListings int            `json:"max_listings"`
	// Screened and Passed are the run's totals before the listings were capped.
	Screened int `json:"screened"`
	Passed   int `json:"passed"`
}
