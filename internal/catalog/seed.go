package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// seedListing is the YAML shape of a listing; posted_at is a plain date
type seedListing struct {
	models.Listing `yaml:",inline"`
	PostedAt       string `yaml:"posted_at"`
}

// DefaultSeed returns the bundled sample listings
func DefaultSeed() ([]models.Listing, error) {
	return parseSeed(defaultSeed)
}

// LoadSeed reads listings from a YAML document
func LoadSeed(r io.Reader) ([]models.Listing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return parseSeed(data)
}

// LoadSeedFile reads listings from the YAML file at path
func LoadSeedFile(path string) ([]models.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

func parseSeed(data []byte) ([]models.Listing, error) {
	var raw []seedListing
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	seen := make(map[int64]bool, len(raw))
	listings := make([]models.Listing, 0, len(raw))
	for i, r := range raw {
		l := r.Listing
		if l.ID <= 0 {
			return nil, fmt.Errorf("seed entry %d: id must be positive", i)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("seed entry %d: duplicate id %d", i, l.ID)
		}
		seen[l.ID] = true

		postedAt, err := parsePostedAt(r.PostedAt)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
		l.PostedAt = postedAt
		listings = append(listings, l)
	}
	return listings, nil
}

func parsePostedAt(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid posted_at %q", s)
}
