package pricing

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"campuseats/models"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var defaultOptionsYAML []byte

// catalogFile is the on-disk shape of an option catalog.
type catalogFile struct {
	Sizes    []models.SizeOption    `yaml:"sizes"`
	Addons   []models.AddonOption   `yaml:"addons"`
	Removals []models.RemovalOption `yaml:"removals"`
}

// Catalog holds the customization options keyed by id. The ordered slices keep
// the declaration order for listing.
type Catalog struct {
	sizes    map[string]models.SizeOption
	addons   map[string]models.AddonOption
	removals map[string]models.RemovalOption

	sizeList    []models.SizeOption
	addonList   []models.AddonOption
	removalList []models.RemovalOption
}

// NewCatalog indexes the given options. Later duplicates of an id replace earlier ones
// in lookups but the listing keeps the first position.
func NewCatalog(sizes []models.SizeOption, addons []models.AddonOption, removals []models.RemovalOption) *Catalog {
	c := &Catalog{
		sizes:    make(map[string]models.SizeOption, len(sizes)),
		addons:   make(map[string]models.AddonOption, len(addons)),
		removals: make(map[string]models.RemovalOption, len(removals)),
	}
	for _, s := range sizes {
		if _, dup := c.sizes[s.ID]; !dup {
			c.sizeList = append(c.sizeList, s)
		}
		c.sizes[s.ID] = s
	}
	for _, a := range addons {
		if _, dup := c.addons[a.ID]; !dup {
			c.addonList = append(c.addonList, a)
		}
		c.addons[a.ID] = a
	}
	for _, r := range removals {
		if _, dup := c.removals[r.ID]; !dup {
			c.removalList = append(c.removalList, r)
		}
		c.removals[r.ID] = r
	}
	return c
}

// ParseCatalog decodes a YAML option catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse option catalog: %w", err)
	}
	for _, a := range f.Addons {
		if a.Price < 0 {
			return nil, fmt.Errorf("add-on %q has negative price %.2f", a.ID, a.Price)
		}
	}
	return NewCatalog(f.Sizes, f.Addons, f.Removals), nil
}

// LoadCatalog reads a YAML option catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read option catalog: %w", err)
	}
	return ParseCatalog(data)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in option catalog.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultOptionsYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LookupSize finds a size by id.
func (c *Catalog) LookupSize(id string) (models.SizeOption, bool) {
	s, ok := c.sizes[id]
	return s, ok
}

// LookupAddon finds an add-on by id.
func (c *Catalog) LookupAddon(id string) (models.AddonOption, bool) {
	a, ok := c.addons[id]
	return a, ok
}

// LookupRemoval finds a removal by id.
func (c *Catalog) LookupRemoval(id string) (models.RemovalOption, bool) {
	r, ok := c.removals[id]
	return r, ok
}

// Options is the listing shape of a catalog.
type Options struct {
	Sizes    []models.SizeOption    `json:"sizes"`
	Addons   []models.AddonOption   `json:"addons"`
	Removals []models.RemovalOption `json:"removals"`
}

// Options lists every option in declaration order.
func (c *Catalog) Options() Options {
	return Options{
		Sizes:    append([]models.SizeOption{}, c.sizeList...),
		Addons:   append([]models.AddonOption{}, c.addonList...),
		Removals: append([]models.RemovalOption{}, c.removalList...),
	}
}
