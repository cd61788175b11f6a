package analysis

import (
	"context"
	"fmt"
	"sort"

	"arrscore/internal/media"
)

// QualityProfiles aggregates score statistics per quality-profile tag.
// Ratings come from the same tier cutoffs as format impact, applied to
// the profile's delta against the partition average.
func (a *Analyzer) QualityProfiles(ctx context.Context, service media.ServiceType) ([]QualityProfileAnalysis, error) {
	files, err := a.store.FilesByService(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("load %s files: %w", service, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	avg := meanScore(files)
	type group struct {
		count    int
		scoreSum int
	}
	groups := make(map[string]*group)
	for _, file := range files {
		name := file.QualityProfileName
		if name == "" {
			name = "unknown"
		}
		g := groups[name]
		if g == nil {
			g = &group{}
			groups[name] = g
		}
		g.count++
		g.scoreSum += file.TotalScore
	}

	results := make([]QualityProfileAnalysis, 0, len(groups))
	for name, g := range groups {
		profileAvg := float64(g.scoreSum) / float64(g.count)
		results = append(results, QualityProfileAnalysis{
			ProfileName: name,
			FileCount:   g.count,
			AvgScore:    profileAvg,
			Rating:      effectivenessFromImpact(a.impactTier(profileAvg - avg)),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].AvgScore != results[j].AvgScore {
			return results[i].AvgScore > results[j].AvgScore
		}
		return results[i].ProfileName < results[j].ProfileName
	})
	return results, nil
}
