package termsource

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// SourceType identifies how a vocabulary's terms are obtained.
type SourceType string

// Supported vocabulary source types.
const (
	SourceURL SourceType = "url" // flat term list fetched from a URL
	SourceOBO SourceType = "obo" // OBO-format ontology file
	SourceDB  SourceType = "db"  // live database lookup
)

// Source declares one named vocabulary and where its terms live.
type Source struct {
	Name     string
	Type     SourceType `toml:"type"`
	Location string     `toml:"location"`
}

// Catalog holds the vocabulary sources declared for a parse run. Lookups are
// case-sensitive on the declared name, matching how SDRF documents reference
// their term sources.
type Catalog struct {
	sources map[string]Source
}

type catalogFile struct {
	Sources map[string]Source `toml:"sources"`
}

// LoadCatalog reads a TOML catalog file of the form:
//
//	[sources.MO]
//	type = "obo"
//	location = "https://example.org/mged-ontology.obo"
func LoadCatalog(path string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("load term-source catalog: %w", err)
	}
	c := &Catalog{sources: make(map[string]Source, len(file.Sources))}
	for name, src := range file.Sources {
		src.Name = name
		if err := validateSource(src); err != nil {
			return nil, err
		}
		c.sources[name] = src
	}
	return c, nil
}

// NewCatalog builds a catalog from already-validated sources; used by tests
// and embedders that do not read a file.
func NewCatalog(sources ...Source) (*Catalog, error) {
	c := &Catalog{sources: make(map[string]Source, len(sources))}
	for _, src := range sources {
		if err := validateSource(src); err != nil {
			return nil, err
		}
		c.sources[src.Name] = src
	}
	return c, nil
}

func validateSource(src Source) error {
	if strings.TrimSpace(src.Name) == "" {
		return fmt.Errorf("term source with empty name")
	}
	switch src.Type {
	case SourceURL, SourceOBO, SourceDB:
	default:
		return fmt.Errorf("term source %s: unknown type %q", src.Name, src.Type)
	}
	if strings.TrimSpace(src.Location) == "" {
		return fmt.Errorf("term source %s: location required", src.Name)
	}
	return nil
}

// Lookup returns the declared source for a vocabulary name.
func (c *Catalog) Lookup(name string) (Source, bool) {
	src, ok := c.sources[name]
	return src, ok
}

// Names lists the declared vocabulary names.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.sources))
	for name := range c.sources {
		out = append(out, name)
	}
	return out
}
