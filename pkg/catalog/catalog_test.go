package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// --- Helpers ---

func minimalValidCatalog() *Catalog {
	return &Catalog{
		Title: "test",
		Apps: []AppRecord{
			{
				Name:      "Day Trade Analytics",
				Owner:     "acme",
				Repo:      "day-trade",
				Branch:    "main",
				EntryPath: "app.py",
				GithubURL: "https://github.com/acme/day-trade",
			},
		},
	}
}

func writeTempCatalog(t *testing.T, dir, name string, catalog *Catalog) string {
	t.Helper()
	data, err := yaml.Marshal(catalog)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// --- Validate ---

func TestValidate_ValidCatalog(t *testing.T) {
	errs := minimalValidCatalog().Validate()
	assert.Empty(t, errs)
}

func TestValidate_EmptyCatalog(t *testing.T) {
	c := &Catalog{Title: "empty"}
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one app")
}

func TestValidate_MissingName(t *testing.T) {
	c := minimalValidCatalog()
	c.Apps[0].Name = ""
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "apps[0]: name is required")
}

func TestValidate_MissingGithubURL(t *testing.T) {
	c := minimalValidCatalog()
	c.Apps[0].GithubURL = ""
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "github_url is required")
}

func TestValidate_DuplicateKey(t *testing.T) {
	c := minimalValidCatalog()
	dup := c.Apps[0]
	dup.Name = "Copy"
	c.Apps = append(c.Apps, dup)
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `duplicate key "acme/day-trade"`)
}

func TestValidate_AppURLOptional(t *testing.T) {
	c := minimalValidCatalog()
	c.Apps[0].AppURL = ""
	assert.Empty(t, c.Validate())
}

// --- Key ---

func TestAppRecordKey(t *testing.T) {
	assert.Equal(t, "acme/day-trade", AppRecord{Name: "x", Owner: "acme", Repo: "day-trade"}.Key())
	assert.Equal(t, "Lonely", AppRecord{Name: "Lonely", Owner: "acme"}.Key())
}

// --- BuildIndex ---

func TestBuildIndex(t *testing.T) {
	c := minimalValidCatalog()
	idx := c.BuildIndex()
	require.Contains(t, idx.AppByKey, "acme/day-trade")
	assert.Same(t, &c.Apps[0], idx.AppByKey["acme/day-trade"])
}

// --- LoadFromBytes ---

func TestLoadFromBytes_Defaults(t *testing.T) {
	data := []byte(`
apps:
  - name: Marketing LLM
    owner: acme
    repo: marketing
    branch: main
    entry_path: app.py
    app_url: "  marketing.streamlit.app "
    github_url: https://github.com/acme/marketing
`)
	cat, idx, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, cat.Title)
	assert.Equal(t, DefaultHostSuffix, cat.HostSuffix)
	assert.Equal(t, "https://marketing.streamlit.app", cat.Apps[0].AppURL)
	assert.Len(t, idx.AppByKey, 1)
}

func TestLoadFromBytes_DeriveURLs(t *testing.T) {
	data := []byte(`
title: Portal
host_suffix: example-host
derive_urls: true
apps:
  - name: Evento
    owner: Acme
    repo: evento
    branch: main
    entry_path: aplicativo.py
    github_url: https://github.com/acme/evento
  - name: Pinned
    owner: acme
    repo: pinned
    branch: main
    entry_path: app.py
    app_url: https://pinned-abc.example-host
    github_url: https://github.com/acme/pinned
`)
	cat, _, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "https://acme-evento-main-aplicativo-py.example-host", cat.Apps[0].AppURL)
	assert.Equal(t, "https://pinned-abc.example-host", cat.Apps[1].AppURL)
}

func TestLoadFromBytes_InvalidYAML(t *testing.T) {
	_, _, err := LoadFromBytes([]byte("apps: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse catalog YAML")
}

func TestLoadFromBytes_ValidationFailure(t *testing.T) {
	_, _, err := LoadFromBytes([]byte("apps:\n  - owner: acme\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog validation failed")
	assert.Contains(t, err.Error(), "name is required")
}

// --- LoadFromFile / LoadFromGlob ---

func TestLoadFromFile(t *testing.T) {
	path := writeTempCatalog(t, t.TempDir(), "apps.yaml", minimalValidCatalog())
	cat, _, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cat.Title)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog file")
}

func TestLoadFromGlob_MergesInPathOrder(t *testing.T) {
	dir := t.TempDir()

	second := &Catalog{Title: "ignored", Apps: []AppRecord{
		{Name: "B", Owner: "acme", Repo: "b", GithubURL: "https://github.com/acme/b"},
	}}
	first := &Catalog{Title: "first", HostSuffix: "example-host", Apps: []AppRecord{
		{Name: "A", Owner: "acme", Repo: "a", GithubURL: "https://github.com/acme/a"},
	}}
	writeTempCatalog(t, dir, "20-b.yaml", second)
	writeTempCatalog(t, dir, "10-a.yaml", first)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	cat, idx, err := LoadFromGlob(filepath.Join(dir, "*.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "first", cat.Title)
	assert.Equal(t, "example-host", cat.HostSuffix)
	require.Len(t, cat.Apps, 2)
	assert.Equal(t, "A", cat.Apps[0].Name)
	assert.Equal(t, "B", cat.Apps[1].Name)
	assert.Len(t, idx.AppByKey, 2)
}

func TestLoadFromGlob_NoMatch(t *testing.T) {
	_, _, err := LoadFromGlob(filepath.Join(t.TempDir(), "*.yaml"))
	require.ErrorIs(t, err, ErrNoCatalogFiles)
}

func TestLoadFromGlob_DuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeTempCatalog(t, dir, "a.yaml", minimalValidCatalog())
	writeTempCatalog(t, dir, "b.yaml", minimalValidCatalog())

	_, _, err := LoadFromGlob(filepath.Join(dir, "*.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
}
