package catalog

import (
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Version string      `yaml:"version"`
	Venues  []seedVenue `yaml:"venues"`
}

type seedVenue struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Neighborhood   string   `yaml:"neighborhood"`
	Description    string   `yaml:"description"`
	Lat            float64  `yaml:"lat"`
	Lng            float64  `yaml:"lng"`
	Category       string   `yaml:"category"`
	Tags           []string `yaml:"tags"`
	TotalSeats     int      `yaml:"total_seats"`
	SeatsAvailable int      `yaml:"seats_available"`
	Price          string   `yaml:"price"`
	SessionMinutes int      `yaml:"session_minutes"`
	Participating  bool     `yaml:"participating"`
	OwnerID        string   `yaml:"owner_id"`
}

// ParseSeed decodes a YAML venue catalog and normalizes every venue so
// it satisfies the catalog invariants.
func ParseSeed(data []byte) (version string, venues []model.Venue, err error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", nil, fmt.Errorf("parse seed: %w", err)
	}
	venues = make([]model.Venue, 0, len(f.Venues))
	for i, sv := range f.Venues {
		id, err := uuid.Parse(sv.ID)
		if err != nil {
			return "", nil, fmt.Errorf("seed venue %d: id: %w", i, err)
		}
		price, err := decimal.NewFromString(sv.Price)
		if err != nil {
			return "", nil, fmt.Errorf("seed venue %d: price: %w", i, err)
		}
		v := model.Venue{
			ID:              id,
			Name:            sv.Name,
			Neighborhood:    sv.Neighborhood,
			Description:     sv.Description,
			Coordinate:      model.Coordinate{Lat: sv.Lat, Lng: sv.Lng},
			Category:        sv.Category,
			Tags:            sv.Tags,
			TotalSeats:      sv.TotalSeats,
			SeatsAvailable:  sv.SeatsAvailable,
			PricePerSession: price,
			SessionMinutes:  sv.SessionMinutes,
			IsParticipating: sv.Participating,
			OwnerID:         sv.OwnerID,
		}
		normalize(&v)
		venues = append(venues, v)
	}
	return f.Version, venues, nil
}

// Seed returns the embedded canonical catalog.
func Seed() []model.Venue {
	_, venues, err := ParseSeed(seedYAML)
	if err != nil {
		panic("catalog: embedded seed is invalid: " + err.Error())
	}
	return venues
}

// SeedVersion is the data version the embedded catalog was written for.
func SeedVersion() string {
	version, _, err := ParseSeed(seedYAML)
	if err != nil {
		panic("catalog: embedded seed is invalid: " + err.Error())
	}
	return version
}
