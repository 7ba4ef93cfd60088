package station

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/tidalpow/backend-go/internal/models"
)

// Region groups upstream station keys under a display region.
type Region struct {
	Name     string   `yaml:"name"`
	Stations []string `yaml:"stations"`
}

type catalogFile struct {
	Regions []Region `yaml:"regions"`
}

// Catalog is the ordered list of stations a report is built over.
type Catalog struct {
	regions  []Region
	stations []models.Station
}

// Default returns the built-in catalogue.
func Default() *Catalog {
	return NewCatalog(defaultRegions)
}

func NewCatalog(regions []Region) *Catalog {
	c := &Catalog{regions: regions}
	for _, r := range regions {
		for _, key := range r.Stations {
			c.stations = append(c.stations, models.Station{
				ID:     key,
				Name:   DisplayName(key),
				Region: r.Name,
			})
		}
	}
	return c
}

// LoadCatalog reads a YAML catalogue of the form
//
//	regions:
//	  - name: Goa
//	    stations: [Marmagao, Betul]
//
// An empty path returns the built-in catalogue.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading station catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing station catalog %s: %w", path, err)
	}

	for i, r := range file.Regions {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("station catalog %s: region %d has no name", path, i)
		}
		for _, s := range r.Stations {
			if strings.TrimSpace(s) == "" {
				return nil, fmt.Errorf("station catalog %s: empty station key in region %s", path, r.Name)
			}
		}
	}

	catalog := NewCatalog(file.Regions)
	if len(catalog.stations) == 0 {
		return nil, fmt.Errorf("station catalog %s lists no stations", path)
	}

	log.Info().Str("path", path).Int("stations", len(catalog.stations)).Msg("Loaded station catalog")
	return catalog, nil
}

// Stations returns the stations in catalogue order. A key listed under two
// regions appears twice.
func (c *Catalog) Stations() []models.Station {
	out := make([]models.Station, len(c.stations))
	copy(out, c.stations)
	return out
}

func (c *Catalog) Regions() []Region {
	return c.regions
}

// FindStation looks a station up by upstream key or display name.
func (c *Catalog) FindStation(name string) (*models.Station, error) {
	for _, s := range c.stations {
		if s.ID == name || strings.EqualFold(s.Name, name) {
			st := s
			return &st, nil
		}
	}
	return nil, fmt.Errorf("station not found: %s", name)
}

// DisplayName turns an upstream key such as "Kandla-Harbour" into
// "Kandla Harbour".
func DisplayName(key string) string {
	return strings.ReplaceAll(key, "-", " ")
}
