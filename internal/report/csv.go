package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"arrscore/internal/analysis"
	"arrscore/internal/media"
)

const timestampLayout = "20060102_150405"

// Writer renders reports into a single output directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory %s: %w", dir, err)
	}
	return &Writer{dir: dir, now: time.Now}, nil
}

// WriteScoresCSV writes one row per file and returns the file path.
// Radarr and Sonarr partitions use different identity columns.
func (w *Writer) WriteScoresCSV(service media.ServiceType, files []*media.MediaFile) (string, error) {
	name := fmt.Sprintf("%s_scores_%s.csv", service, w.now().UTC().Format(timestampLayout))
	path := filepath.Join(w.dir, name)

	rows := make([][]string, 0, len(files)+1)
	rows = append(rows, scoreHeader(service))
	for _, f := range files {
		rows = append(rows, scoreRow(service, f))
	}
	if err := writeCSV(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCandidatesCSV writes the prioritized upgrade list and returns the
// file path.
func (w *Writer) WriteCandidatesCSV(service media.ServiceType, candidates []analysis.UpgradeCandidate) (string, error) {
	name := fmt.Sprintf("%s_upgrade_candidates_%s.csv", service, w.now().UTC().Format(timestampLayout))
	path := filepath.Join(w.dir, name)

	rows := make([][]string, 0, len(candidates)+1)
	rows = append(rows, []string{"Priority", "Title", "File", "Total_Score", "Potential_Gain", "Reason"})
	for _, c := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(int(c.Priority)),
			c.File.DisplayName(),
			c.File.RelativePath,
			strconv.Itoa(c.File.TotalScore),
			strconv.Itoa(c.PotentialGain),
			c.Reason,
		})
	}
	if err := writeCSV(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

func scoreHeader(service media.ServiceType) []string {
	if service == media.ServiceSonarr {
		return []string{
			"Series_Title", "Episode", "Episode_Title", "File", "Total_Score",
			"Quality_Profile", "Quality", "Resolution", "Codec", "Size_GB",
			"TVDB_ID", "Custom_Formats", "Recorded_At",
		}
	}
	return []string{
		"Title", "File", "Total_Score",
		"Quality_Profile", "Quality", "Resolution", "Codec", "Size_GB",
		"IMDB_ID", "TMDB_ID", "Custom_Formats", "Recorded_At",
	}
}

func scoreRow(service media.ServiceType, f *media.MediaFile) []string {
	shared := []string{
		f.RelativePath,
		strconv.Itoa(f.TotalScore),
		f.QualityProfileName,
		f.Quality,
		f.Resolution,
		f.Codec,
		sizeGB(f.SizeBytes),
	}
	recorded := f.RecordedAt.UTC().Format("2006-01-02 15:04:05")

	if service == media.ServiceSonarr {
		row := []string{
			f.Title,
			fmt.Sprintf("S%02dE%02d", f.SeasonNumber, f.EpisodeNumber),
			f.EpisodeTitle,
		}
		row = append(row, shared...)
		return append(row, formatID(f.TVDBID), formatList(f.CustomFormats), recorded)
	}

	row := []string{f.Title}
	row = append(row, shared...)
	return append(row, f.IMDBID, formatID(f.TMDBID), formatList(f.CustomFormats), recorded)
}

// formatList renders the breakdown as "Name (+score); Name (-score)".
func formatList(formats []media.CustomFormat) string {
	if len(formats) == 0 {
		return ""
	}
	parts := make([]string, 0, len(formats))
	for _, cf := range formats {
		parts = append(parts, fmt.Sprintf("%s (%+d)", cf.Name, cf.Score))
	}
	return strings.Join(parts, "; ")
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func sizeGB(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	return strconv.FormatFloat(float64(bytes)/(1<<30), 'f', 2, 64)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close report %s: %w", path, err)
	}
	return nil
}
