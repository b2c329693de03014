package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Catalog holds the ordered list of apps shown in the portal.
type Catalog struct {
	Title      string      `yaml:"title"`
	HostSuffix string      `yaml:"host_suffix,omitempty"`
	DeriveURLs bool        `yaml:"derive_urls,omitempty"`
	Apps       []AppRecord `yaml:"apps"`
}

// CatalogIndex provides O(1) lookups into the catalog.
// Built during LoadFromBytes after validation passes.
type CatalogIndex struct {
	// AppByKey maps AppRecord.Key() -> *AppRecord.
	AppByKey map[string]*AppRecord
}

// DefaultTitle is used when a catalog does not name itself.
const DefaultTitle = "App Portal"

// applyDefaults fills optional catalog fields and prepares app URLs.
// Blank app URLs are guessed when DeriveURLs is set; every URL is normalized.
func (c *Catalog) applyDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.HostSuffix == "" {
		c.HostSuffix = DefaultHostSuffix
	}
	for i := range c.Apps {
		app := &c.Apps[i]
		if c.DeriveURLs && app.AppURL == "" {
			app.AppURL = GuessRecordURL(*app, c.HostSuffix)
		}
		app.AppURL = NormalizeURLFor(app.AppURL, c.HostSuffix)
	}
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error

	if len(c.Apps) == 0 {
		errs = append(errs, fmt.Errorf("catalog must list at least one app"))
	}

	keys := make(map[string]bool, len(c.Apps))
	for i, app := range c.Apps {
		if app.Name == "" {
			errs = append(errs, fmt.Errorf("apps[%d]: name is required", i))
			continue
		}
		if app.GithubURL == "" {
			errs = append(errs, fmt.Errorf("app %q: github_url is required", app.Name))
		}
		key := app.Key()
		if keys[key] {
			errs = append(errs, fmt.Errorf("app %q: duplicate key %q", app.Name, key))
			continue
		}
		keys[key] = true
	}

	return errs
}

// BuildIndex creates lookup maps for fast access.
// Should be called after Validate() passes.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		AppByKey: make(map[string]*AppRecord, len(c.Apps)),
	}
	for i := range c.Apps {
		idx.AppByKey[c.Apps[i].Key()] = &c.Apps[i]
	}
	return idx
}

// LoadFromFile loads a catalog from a YAML file, validates it, and builds the index.
func LoadFromFile(path string) (*Catalog, *CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a catalog from raw YAML bytes, validates it, and builds the index.
func LoadFromBytes(data []byte) (*Catalog, *CatalogIndex, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return finish(&catalog)
}

// LoadFromGlob loads every YAML file matching pattern (doublestar syntax) in
// sorted path order and concatenates their apps. Title, host suffix and
// derive_urls come from the first file.
func LoadFromGlob(pattern string) (*Catalog, *CatalogIndex, error) {
	paths, err := ResolveGlob(pattern)
	if err != nil {
		return nil, nil, err
	}

	var merged Catalog
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		var part Catalog
		if err := yaml.Unmarshal(data, &part); err != nil {
			return nil, nil, fmt.Errorf("failed to parse catalog YAML %s: %w", path, err)
		}
		if i == 0 {
			merged.Title = part.Title
			merged.HostSuffix = part.HostSuffix
			merged.DeriveURLs = part.DeriveURLs
		}
		merged.Apps = append(merged.Apps, part.Apps...)
	}
	return finish(&merged)
}

// ResolveGlob returns the sorted list of files matching pattern.
func ResolveGlob(pattern string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid catalog pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCatalogFiles, pattern)
	}
	sort.Strings(paths)
	return paths, nil
}

func finish(catalog *Catalog) (*Catalog, *CatalogIndex, error) {
	catalog.applyDefaults()

	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	index := catalog.BuildIndex()
	return catalog, index, nil
}
