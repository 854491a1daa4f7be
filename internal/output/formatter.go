package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cryptofire/fire-calculator/internal/domain"
)

// ErrUnsupportedFormat is returned when no formatter matches a format name.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(report *domain.ProjectionReport) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*domain.ProjectionReport) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.ProjectionReport) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                                      { return ff.ID }

// WriteFormatted runs a formatter and writes output to a timestamped file
// with extension in dir. The timestamp is the report's generation time.
func WriteFormatted(f Formatter, report *domain.ProjectionReport, dir, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("fire_report_%s_%s.%s", report.GeneratedAt.Format("20060102_150405"), f.Name(), ext))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	CSVRowsFormatter{},
	CSVCrossingsFormatter{},
	HTMLFormatter{},
	JSONFormatter{},
}

// extensions maps canonical formatter names to file extensions.
var extensions = map[string]string{
	"console":       "txt",
	"csv":           "csv",
	"crossings-csv": "csv",
	"html":          "html",
	"json":          "json",
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// ExtensionFor returns the file extension used for a formatter name.
func ExtensionFor(name string) string {
	if ext, ok := extensions[NormalizeFormatName(name)]; ok {
		return ext
	}
	return "txt"
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":          "console",
	"table":         "console",
	"csv-rows":      "csv",
	"csv-crossings": "crossings-csv",
	"crossings":     "crossings-csv",
	"html-report":   "html",
	"json-pretty":   "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
