package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Format names the Homepage file being imported
type Format string

const (
	FormatServices  Format = "services"
	FormatBookmarks Format = "bookmarks"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatServices, FormatBookmarks:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown homepage format %q (want %q or %q)", s, FormatServices, FormatBookmarks)
	}
}

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a Homepage services.yaml or bookmarks.yaml file
type Loader struct {
	filePath string
}

// NewLoader creates a new Homepage loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string { return l.filePath }

// LoadServices reads and parses a services.yaml file
func (l *Loader) LoadServices() (ServicesConfig, error) {
	var config ServicesConfig
	if err := l.decode(&config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadBookmarks reads and parses a bookmarks.yaml file
func (l *Loader) LoadBookmarks() (BookmarksConfig, error) {
	var config BookmarksConfig
	if err := l.decode(&config); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) decode(out any) error {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return fmt.Errorf("failed to read homepage file: %w", err)
	}

	// Strip Homepage template variables ({{HOMEPAGE_VAR_...}})
	data = stripTemplateVariables(data)

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse homepage yaml: %w", err)
	}
	return nil
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
