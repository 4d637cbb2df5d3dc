package categorize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTermTable reads an ordered term table from a YAML file:
//
//	- category: programming
//	  terms: [code, python, golang]
//	- category: design
//	  terms: [figma, ux]
func LoadTermTable(path string) (*TermTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read terms file: %w", err)
	}

	var groups []CategoryTerms
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse terms yaml: %w", err)
	}

	table, err := NewTermTable(groups)
	if err != nil {
		return nil, fmt.Errorf("failed to build term table from %s: %w", path, err)
	}
	return table, nil
}
