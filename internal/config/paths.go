package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved output locations of one pipeline run.
// Relative configured directories are resolved against BaseDir.
type Paths struct {
	BaseDir    string
	ReportsDir string
	LogsDir    string

	DailyReportCSV  string
	TopCustomersCSV string
	ReportWorkbook  string
}

// NewPaths resolves report and log locations for cfg. An empty baseDir means
// the current working directory.
func NewPaths(baseDir string, cfg *Config) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	if cfg == nil {
		cfg = Default()
	}

	reportsDir := resolve(baseDir, cfg.Reports.Dir)
	logsDir := filepath.Dir(resolve(baseDir, cfg.Logging.FilePath))

	return &Paths{
		BaseDir:         baseDir,
		ReportsDir:      reportsDir,
		LogsDir:         logsDir,
		DailyReportCSV:  filepath.Join(reportsDir, DailyReportCSVName),
		TopCustomersCSV: filepath.Join(reportsDir, TopCustomersCSVName),
		ReportWorkbook:  filepath.Join(reportsDir, ReportWorkbookName),
	}, nil
}

// EnsureDirectories creates the report directory if it doesn't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetReportPath returns the full path of a file in the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path of a file in the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// Resolve makes path absolute relative to the base directory
func (p *Paths) Resolve(path string) string {
	return resolve(p.BaseDir, path)
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
