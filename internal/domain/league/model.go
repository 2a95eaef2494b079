package league

import (
	"fmt"
	"strings"
)

// League is a competition the predictor can scan.
type League struct {
	Key     string `yaml:"key" json:"key"`
	ID      int64  `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Country string `yaml:"country" json:"country,omitempty"`
	Type    string `yaml:"type" json:"type"`
}

// Label is the display name, prefixed with the country when there is one.
func (l League) Label() string {
	if strings.TrimSpace(l.Country) == "" {
		return l.Name
	}
	return l.Country + " - " + l.Name
}

func (l League) Validate() error {
	if strings.TrimSpace(l.Key) == "" {
		return fmt.Errorf("league key is required")
	}
	if l.ID <= 0 {
		return fmt.Errorf("league %s: provider id must be > 0", l.Key)
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league %s: name is required", l.Key)
	}
	return nil
}
