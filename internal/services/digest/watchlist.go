package digest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// watchlist is the YAML file listing the companies the digest covers.
type watchlist struct {
	Companies []string `yaml:"companies"`
}

// LoadWatchlist reads the company list, dropping blank entries.
func LoadWatchlist(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}

	var list watchlist
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist: %w", err)
	}

	companies := make([]string, 0, len(list.Companies))
	for _, name := range list.Companies {
		name = strings.TrimSpace(name)
		if name != "" {
			companies = append(companies, name)
		}
	}
	return companies, nil
}
