package analysis

import (
	"context"
	"fmt"
	"time"

	"arrscore/internal/media"
)

// Weights of the health composite.
const (
	healthWeightAvg      = 0.4
	healthWeightPositive = 0.3
	healthWeightCritical = 0.3
)

const (
	maxReportCandidates = 20
	maxReportFormats    = 15
)

// HealthReport runs the other analyzers over one partition and folds
// their results into a single 0-100 score with a letter grade. An empty
// partition returns the "no data" sentinel rather than a false F.
func (a *Analyzer) HealthReport(ctx context.Context, service media.ServiceType) (LibraryHealthReport, error) {
	report := LibraryHealthReport{
		Service:     service,
		GeneratedAt: time.Now().UTC(),
	}

	files, err := a.store.FilesByService(ctx, service)
	if err != nil {
		return report, fmt.Errorf("load %s files: %w", service, err)
	}
	report.TotalFiles = len(files)
	if len(files) == 0 {
		report.Grade = GradeNoData
		report.Recommendations = []string{"No files recorded for this service; run an export first"}
		return report, nil
	}

	report.Candidates, err = a.UpgradeCandidates(ctx, service)
	if err != nil {
		return report, err
	}
	report.Formats, err = a.FormatEffectiveness(ctx, service)
	if err != nil {
		return report, err
	}
	report.Profiles, err = a.QualityProfiles(ctx, service)
	if err != nil {
		return report, err
	}
	report.Trends, err = a.trendSummary(ctx, service)
	if err != nil {
		return report, err
	}

	avg := meanScore(files)
	nonNegative := 0
	for _, f := range files {
		if f.TotalScore >= 0 {
			nonNegative++
		}
	}
	critical := 0
	for _, c := range report.Candidates {
		if c.Priority == PriorityCritical {
			critical++
		}
	}

	total := float64(len(files))
	avgFactor := clamp(50+avg/10, 0, 100)
	positiveFactor := 100 * float64(nonNegative) / total
	criticalFactor := 100 * (1 - float64(critical)/total)

	report.HealthScore = healthWeightAvg*avgFactor +
		healthWeightPositive*positiveFactor +
		healthWeightCritical*criticalFactor
	report.Grade = gradeFor(report.HealthScore)

	a.narrate(&report, avg, avgFactor, positiveFactor, criticalFactor, nonNegative, critical)
	if len(report.Candidates) > maxReportCandidates {
		report.Candidates = report.Candidates[:maxReportCandidates]
	}
	if len(report.Formats) > maxReportFormats {
		report.Formats = report.Formats[:maxReportFormats]
	}
	return report, nil
}

// narrate fills the free-form sections; recommendations always name the
// weakest contributing factor.
func (a *Analyzer) narrate(report *LibraryHealthReport, avg, avgFactor, positiveFactor, criticalFactor float64, nonNegative, critical int) {
	total := report.TotalFiles

	worst := avgFactor
	recommendation := "Review and optimize quality profile scoring to raise the average score"
	if positiveFactor < worst {
		worst = positiveFactor
		recommendation = "Focus on upgrading files with negative scores first"
	}
	if criticalFactor < worst {
		recommendation = "Prioritize upgrading critical files carrying harmful formats"
	}
	report.Recommendations = append(report.Recommendations, recommendation)

	if critical > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d files need immediate attention", critical))
	}
	if report.Trends.Net < -5 {
		report.Warnings = append(report.Warnings, "Library quality is declining; investigate recent downgrades")
	}

	if avg > 50 {
		report.Achievements = append(report.Achievements, "Excellent average library score")
	}
	if float64(nonNegative) >= 0.8*float64(total) {
		report.Achievements = append(report.Achievements, "Most files have non-negative quality scores")
	}
	if report.Trends.Net > 0 {
		report.Achievements = append(report.Achievements, fmt.Sprintf("Library quality improving: %d net upgrades", report.Trends.Net))
	}
}

func gradeFor(score float64) HealthGrade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
