package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the report in format to a timestamped file in dir
// and returns the written paths. The format "all" writes every registered
// formatter.
func GenerateReport(report *domain.ProjectionReport, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, name := range AvailableFormatterNames() {
			path, err := WriteFormatted(GetFormatterByName(name), report, dir, ExtensionFor(name))
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	path, err := WriteFormatted(f, report, dir, ExtensionFor(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// SaveConfiguration writes config as TOML when filename ends in .toml and as
// YAML otherwise.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	var (
		b   []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		b, err = toml.Marshal(config)
	} else {
		b, err = yaml.Marshal(config)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}
