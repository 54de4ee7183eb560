// Package catalog holds the legal section catalog shipped with the service.
package catalog

import (
	_ "embed"
	"log/slog"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed sections.yaml
var sectionsYAML []byte

var ErrInvalidCatalog = errors.NewSentinel("invalid catalog")

// Load parses the embedded catalog.
func Load() ([]models.LegalSection, error) {
	return Parse(sectionsYAML)
}

// Parse decodes a YAML list of legal sections and checks that every entry has a unique section number and a title.
func Parse(data []byte) ([]models.LegalSection, error) {
	var sections []models.LegalSection
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, errors.Wrap(err, "unmarshal catalog")
	}
	seen := make(map[string]bool, len(sections))
	for i, section := range sections {
		number := strings.TrimSpace(section.SectionNumber)
		if number == "" || strings.TrimSpace(section.Title) == "" {
			return nil, errors.Wrap(ErrInvalidCatalog, "section number and title are required", slog.Int("index", i))
		}
		if seen[number] {
			return nil, errors.Wrap(ErrInvalidCatalog, "duplicate section", slog.String("section_number", number))
		}
		seen[number] = true
		sections[i].SectionNumber = number
	}
	return sections, nil
}
