package analysis

import (
	"time"

	"arrscore/internal/media"
)

// Candidate priority classes, 1 is most urgent.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// ImpactRating classifies how a custom format correlates with overall
// file quality.
type ImpactRating string

const (
	ImpactHigh     ImpactRating = "high"
	ImpactMedium   ImpactRating = "medium"
	ImpactLow      ImpactRating = "low"
	ImpactNegative ImpactRating = "negative"
)

// EffectivenessRating classifies a quality profile's average score
// against the partition average.
type EffectivenessRating string

const (
	RatingExcellent EffectivenessRating = "excellent"
	RatingGood      EffectivenessRating = "good"
	RatingFair      EffectivenessRating = "fair"
	RatingPoor      EffectivenessRating = "poor"
)

// HealthGrade is the letter summary of a partition's health score.
type HealthGrade string

const (
	GradeA HealthGrade = "A"
	GradeB HealthGrade = "B"
	GradeC HealthGrade = "C"
	GradeD HealthGrade = "D"
	GradeF HealthGrade = "F"

	// GradeNoData marks a partition with no files on record. An empty
	// library is ungraded, not failing.
	GradeNoData HealthGrade = "no data"
)

// UpgradeCandidate flags a file worth replacing with a higher-scoring
// release.
type UpgradeCandidate struct {
	File          *media.MediaFile `json:"file"`
	Priority      int              `json:"priority"`
	Reason        string           `json:"reason"`
	PotentialGain int              `json:"potentialScoreGain"`
}

// CustomFormatEffectiveness measures whether a format's presence
// correlates with better-scoring files.
type CustomFormatEffectiveness struct {
	FormatName           string       `json:"formatName"`
	UsageCount           int          `json:"usageCount"`
	AvgScoreContribution float64      `json:"avgScoreContribution"`
	Impact               ImpactRating `json:"impactRating"`
}

// QualityProfileAnalysis aggregates score statistics for one quality
// profile within a partition.
type QualityProfileAnalysis struct {
	ProfileName string              `json:"profileName"`
	FileCount   int                 `json:"fileCount"`
	AvgScore    float64             `json:"avgScore"`
	Rating      EffectivenessRating `json:"effectivenessRating"`
}

// TrendBucket is one UTC day of score-change activity.
type TrendBucket struct {
	Date     time.Time `json:"date"`
	Changes  int       `json:"changeCount"`
	AvgScore float64   `json:"avgScore"`
}

// TrendSummary condenses a trend window into net movement.
type TrendSummary struct {
	WindowDays int `json:"windowDays"`
	Upgrades   int `json:"upgrades"`
	Downgrades int `json:"downgrades"`
	Net        int `json:"net"`
}

// LibraryHealthReport is the composite picture of one partition,
// produced by running the other analyzers as subroutines.
type LibraryHealthReport struct {
	Service     media.ServiceType `json:"service"`
	GeneratedAt time.Time         `json:"generatedAt"`
	TotalFiles  int               `json:"totalFiles"`

	HealthScore float64     `json:"healthScore"`
	Grade       HealthGrade `json:"healthGrade"`

	Candidates []UpgradeCandidate          `json:"upgradeCandidates"`
	Formats    []CustomFormatEffectiveness `json:"formatEffectiveness"`
	Profiles   []QualityProfileAnalysis    `json:"qualityProfiles"`
	Trends     TrendSummary                `json:"trends"`

	Recommendations []string `json:"recommendations"`
	Achievements    []string `json:"achievements"`
	Warnings        []string `json:"warnings"`
}

// NoData reports whether the partition had no files to grade.
func (r LibraryHealthReport) NoData() bool {
	return r.Grade == GradeNoData
}
