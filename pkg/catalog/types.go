package catalog

// AppRecord describes one deployed web app listed in the portal.
type AppRecord struct {
	Name        string `yaml:"name" json:"name"`
	Owner       string `yaml:"owner" json:"owner"`
	Repo        string `yaml:"repo" json:"repo"`
	Branch      string `yaml:"branch" json:"branch"`
	EntryPath   string `yaml:"entry_path" json:"entry_path"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	AppURL      string `yaml:"app_url,omitempty" json:"app_url,omitempty"`
	GithubURL   string `yaml:"github_url" json:"github_url"`
}

// Key returns the identifier used for per-session overrides.
// It is "owner/repo", or the name when either part is missing.
func (r AppRecord) Key() string {
	if r.Owner == "" || r.Repo == "" {
		return r.Name
	}
	return r.Owner + "/" + r.Repo
}

// HasAppURL reports whether the record carries a public link.
func (r AppRecord) HasAppURL() bool {
	return r.AppURL != ""
}
