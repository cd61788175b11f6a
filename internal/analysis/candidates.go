package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"arrscore/internal/media"
)

// UpgradeCandidates scans one partition and returns files worth
// replacing, most urgent first. Ties within a priority class are broken
// by ascending total score, then title, so repeated calls over the same
// rows produce identical output.
func (a *Analyzer) UpgradeCandidates(ctx context.Context, service media.ServiceType) ([]UpgradeCandidate, error) {
	files, err := a.store.FilesByService(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("load %s files: %w", service, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	avg := meanScore(files)
	candidates := make([]UpgradeCandidate, 0, len(files))
	for _, file := range files {
		if candidate, ok := a.evaluateCandidate(file, avg); ok {
			candidates = append(candidates, candidate)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.Priority != cj.Priority {
			return ci.Priority < cj.Priority
		}
		if ci.File.TotalScore != cj.File.TotalScore {
			return ci.File.TotalScore < cj.File.TotalScore
		}
		return ci.File.Title < cj.File.Title
	})
	return candidates, nil
}

// evaluateCandidate applies the trigger rules to a single file. The
// resulting priority is the most urgent class triggered, never a sum.
func (a *Analyzer) evaluateCandidate(file *media.MediaFile, avg float64) (UpgradeCandidate, bool) {
	var reasons []string
	priority := 0

	if harmful, ok := worstHarmfulFormat(file, a.opts.HarmfulFormatScore); ok {
		reasons = append(reasons, fmt.Sprintf("Contains harmful format %q (score %d)", harmful.Name, harmful.Score))
		priority = PriorityCritical
	}

	score := float64(file.TotalScore)
	gap := avg - score
	switch {
	case score <= avg-a.opts.CriticalGap:
		reasons = append(reasons, fmt.Sprintf("Score %.0f points below library average", gap))
		priority = minPriority(priority, PriorityHigh)
	case score <= avg-a.opts.ModerateGap:
		reasons = append(reasons, fmt.Sprintf("Score %.0f points below library average", gap))
		priority = minPriority(priority, PriorityMedium)
	case score < avg:
		reasons = append(reasons, "Score below library average")
		priority = minPriority(priority, PriorityLow)
	}

	if file.TotalScore < a.opts.MinScoreThreshold {
		reasons = append(reasons, fmt.Sprintf("Score below minimum threshold (%d)", a.opts.MinScoreThreshold))
		priority = minPriority(priority, PriorityLow)
	}

	if priority == 0 {
		return UpgradeCandidate{}, false
	}

	if n := countNegativeFormats(file); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Has %d negative-scoring format(s)", n))
	}

	return UpgradeCandidate{
		File:          file,
		Priority:      priority,
		Reason:        strings.Join(reasons, "; "),
		PotentialGain: potentialGain(avg, file.TotalScore),
	}, true
}

func worstHarmfulFormat(file *media.MediaFile, threshold int) (media.CustomFormat, bool) {
	worst := media.CustomFormat{}
	found := false
	for _, cf := range file.CustomFormats {
		if cf.Score > threshold {
			continue
		}
		if !found || cf.Score < worst.Score {
			worst = cf
			found = true
		}
	}
	return worst, found
}

func countNegativeFormats(file *media.MediaFile) int {
	n := 0
	for _, cf := range file.CustomFormats {
		if cf.Score < 0 {
			n++
		}
	}
	return n
}

func potentialGain(avg float64, score int) int {
	gain := int(math.Round(avg - float64(score)))
	if gain < 0 {
		return 0
	}
	return gain
}

func minPriority(current, proposed int) int {
	if current == 0 || proposed < current {
		return proposed
	}
	return current
}
