package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Match reports whether query occurs, case-insensitively, in the record's
// name and description. A blank query matches every record.
func Match(r AppRecord, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	target := strings.ToLower(r.Name + " " + r.Description)
	return strings.Contains(target, q)
}

// Filter returns the records matching query, in catalog order.
func Filter(apps []AppRecord, query string) []AppRecord {
	result := make([]AppRecord, 0, len(apps))
	for _, app := range apps {
		if Match(app, query) {
			result = append(result, app)
		}
	}
	return result
}

// QueryService provides read-only query methods over a loaded catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a validated catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// LoadAndQuery loads a catalog from a path or glob and returns a ready-to-use QueryService.
func LoadAndQuery(pattern string) (*QueryService, error) {
	cat, idx, err := LoadFromGlob(pattern)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// LoadAndQueryBytes loads a catalog from raw YAML bytes and returns a ready-to-use QueryService.
func LoadAndQueryBytes(data []byte) (*QueryService, error) {
	cat, idx, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// Title returns the portal heading.
func (q *QueryService) Title() string {
	return q.Catalog.Title
}

// HostSuffix returns the hosting domain used for URL checks and guesses.
func (q *QueryService) HostSuffix() string {
	return q.Catalog.HostSuffix
}

// Apps returns a copy of every record in catalog order.
func (q *QueryService) Apps() []AppRecord {
	return slices.Clone(q.Catalog.Apps)
}

// ListApps returns the records matching query in catalog order.
// Pass "" to list everything.
func (q *QueryService) ListApps(query string) []AppRecord {
	return Filter(q.Catalog.Apps, query)
}

// GetApp looks up a record by its key. The returned record is a copy.
func (q *QueryService) GetApp(key string) (AppRecord, error) {
	if app, ok := q.Index.AppByKey[key]; ok {
		return *app, nil
	}
	return AppRecord{}, fmt.Errorf("%w: %s", ErrAppNotFound, key)
}
