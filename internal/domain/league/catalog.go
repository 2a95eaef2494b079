package league

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed leagues.yaml
var builtinCatalog []byte

type catalogFile struct {
	Leagues []League `yaml:"leagues"`
}

// Catalog is the static, read-only league list.
type Catalog struct {
	ordered []League
	byKey   map[string]League
}

// DefaultCatalog parses the embedded league list.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(builtinCatalog)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode league catalog: %w", err)
	}

	c := &Catalog{
		ordered: make([]League, 0, len(file.Leagues)),
		byKey:   make(map[string]League, len(file.Leagues)),
	}
	for _, item := range file.Leagues {
		item.Key = normalizeKey(item.Key)
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byKey[item.Key]; exists {
			return nil, fmt.Errorf("duplicate league key %q", item.Key)
		}
		c.byKey[item.Key] = item
		c.ordered = append(c.ordered, item)
	}
	return c, nil
}

func (c *Catalog) List(_ context.Context) ([]League, error) {
	out := make([]League, len(c.ordered))
	copy(out, c.ordered)
	return out, nil
}

func (c *Catalog) GetByKey(_ context.Context, key string) (League, bool, error) {
	item, ok := c.byKey[normalizeKey(key)]
	return item, ok, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
