package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"arrscore/internal/analysis"
	"arrscore/internal/library"
)

//go:embed health_report.html.tmpl
var healthTemplateText string

var healthTemplate = template.Must(template.New("health").Funcs(template.FuncMap{
	"title":    titleCase,
	"cssGrade": cssGrade,
	"signed":   signedFloat,
}).Parse(healthTemplateText))

type healthPage struct {
	Report *analysis.LibraryHealthReport
	Stats  *library.LibraryStats
}

// WriteHealthHTML renders the health report as a standalone page and
// returns the file path.
func (w *Writer) WriteHealthHTML(rep *analysis.LibraryHealthReport, stats *library.LibraryStats) (string, error) {
	name := fmt.Sprintf("%s_health_report_%s.html", rep.Service, w.now().UTC().Format(timestampLayout))
	path := filepath.Join(w.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report %s: %w", path, err)
	}
	if err := healthTemplate.Execute(file, healthPage{Report: rep, Stats: stats}); err != nil {
		file.Close()
		return "", fmt.Errorf("render health report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close report %s: %w", path, err)
	}
	return path, nil
}

func titleCase(v any) string {
	s := fmt.Sprint(v)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// cssGrade turns a grade into a class-safe token, e.g. "no data" into
// "no-data".
func cssGrade(grade analysis.HealthGrade) string {
	return strings.ReplaceAll(strings.ToLower(string(grade)), " ", "-")
}

func signedFloat(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}
