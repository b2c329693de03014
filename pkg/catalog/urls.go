package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// DefaultHostSuffix is the hosting domain public app URLs are expected under.
const DefaultHostSuffix = "streamlit.app"

// nonAlnum matches a single character that is not a lower-case letter or digit.
// Input is lower-cased before matching.
var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeURL normalizes a raw app URL against DefaultHostSuffix.
func NormalizeURL(raw string) string {
	return NormalizeURLFor(raw, DefaultHostSuffix)
}

// NormalizeURLFor trims raw and prepends "https://" when it carries no
// http(s) scheme. Blank input yields "".
//
// The candidate is checked against the deploy URL pattern for suffix, but a
// mismatch does not reject it: the candidate is returned either way.
func NormalizeURLFor(raw, suffix string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	// Not enforced. Hosts outside suffix are kept as entered.
	_ = LooksLikeDeployURL(u, suffix)
	return u
}

// LooksLikeDeployURL reports whether u has the shape
// https://<subdomain>.<suffix>/ with a single lower-case subdomain label.
func LooksLikeDeployURL(u, suffix string) bool {
	if suffix == "" {
		suffix = DefaultHostSuffix
	}
	return deployPattern(suffix).MatchString(u)
}

// deployPatterns caches one compiled pattern per host suffix.
var deployPatterns sync.Map // map[string]*regexp.Regexp

func deployPattern(suffix string) *regexp.Regexp {
	if re, ok := deployPatterns.Load(suffix); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`^https?://[a-z0-9-]+\.` + regexp.QuoteMeta(suffix) + `/?$`)
	actual, _ := deployPatterns.LoadOrStore(suffix, re)
	return actual.(*regexp.Regexp)
}

// GuessURL builds a best-effort public URL from the deployment naming
// convention {owner}-{repo}-{branch}-{slug}.{suffix}, where slug is the
// entry path with every non-alphanumeric character replaced by a dash.
// The result is not guaranteed to resolve: hosted deployments often carry a
// random suffix the convention cannot predict.
func GuessURL(owner, repo, branch, entryPath, suffix string) string {
	if suffix == "" {
		suffix = DefaultHostSuffix
	}
	slug := nonAlnum.ReplaceAllString(strings.ToLower(entryPath), "-")
	slug = strings.Trim(slug, "-")
	host := strings.ToLower(fmt.Sprintf("%s-%s-%s-%s", owner, repo, branch, slug))
	return fmt.Sprintf("https://%s.%s", host, strings.ToLower(suffix))
}

// GuessRecordURL applies GuessURL to a record's catalog metadata.
func GuessRecordURL(r AppRecord, suffix string) string {
	return GuessURL(r.Owner, r.Repo, r.Branch, r.EntryPath, suffix)
}
