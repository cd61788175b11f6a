package analysis

import (
	"context"
	"fmt"
	"sort"

	"arrscore/internal/media"
)

// FormatEffectiveness rates every custom format observed in the
// partition by how the files carrying it score against the partition
// average. A file with several formats attributes its full delta to
// each of them; this is a correlation measure, not causal attribution.
func (a *Analyzer) FormatEffectiveness(ctx context.Context, service media.ServiceType) ([]CustomFormatEffectiveness, error) {
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
		seen := make(map[string]bool, len(file.CustomFormats))
		for _, cf := range file.CustomFormats {
			if seen[cf.Name] {
				continue
			}
			seen[cf.Name] = true
			g := groups[cf.Name]
			if g == nil {
				g = &group{}
				groups[cf.Name] = g
			}
			g.count++
			g.scoreSum += file.TotalScore
		}
	}

	results := make([]CustomFormatEffectiveness, 0, len(groups))
	for name, g := range groups {
		contribution := float64(g.scoreSum)/float64(g.count) - avg
		results = append(results, CustomFormatEffectiveness{
			FormatName:           name,
			UsageCount:           g.count,
			AvgScoreContribution: contribution,
			Impact:               a.impactTier(contribution),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].AvgScoreContribution != results[j].AvgScoreContribution {
			return results[i].AvgScoreContribution > results[j].AvgScoreContribution
		}
		return results[i].FormatName < results[j].FormatName
	})
	return results, nil
}
