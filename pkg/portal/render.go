// Package portal builds the portal page as a plain data tree.
//
// Render is a pure function of the catalog and one session's widget state.
// Hosts (the HTTP server, the MCP render_page tool) call it on every
// interaction and turn the returned Page into their own output.
package portal

import (
	"fmt"
	"maps"

	"github.com/gnana997/appportal/pkg/catalog"
)

// ColumnCount is the number of card columns in the grid.
const ColumnCount = 2

// State is the per-session widget state.
type State struct {
	Query   string `json:"query"`
	Preview bool   `json:"preview"`

	// Overrides maps a record key to the URL entered for it this session.
	// A present but blank value disables the open action for that card.
	Overrides map[string]string `json:"overrides,omitempty"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	if s.Overrides != nil {
		c.Overrides = maps.Clone(s.Overrides)
	}
	return c
}

// Options configure rendering.
type Options struct {
	Labels      Labels
	Embedder    Embedder
	FrameHeight int
}

// TextField is an editable text input.
type TextField struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Help        string `json:"help,omitempty"`
	Value       string `json:"value"`
}

// Toggle is an on/off switch.
type Toggle struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Help  string `json:"help,omitempty"`
	Value bool   `json:"value"`
}

// Action is a link button. Disabled actions carry no Href.
type Action struct {
	Label    string `json:"label"`
	Href     string `json:"href,omitempty"`
	Disabled bool   `json:"disabled"`
}

// Card renders one app record.
type Card struct {
	Key         string    `json:"key"`
	Index       int       `json:"index"`
	Column      int       `json:"column"`
	Name        string    `json:"name"`
	Caption     string    `json:"caption"`
	Description string    `json:"description,omitempty"`
	URLField    TextField `json:"url_field"`
	Overridden  bool      `json:"overridden"`
	Open        Action    `json:"open"`
	Source      Action    `json:"source"`
	Frame       *Frame    `json:"frame,omitempty"`
	Warning     string    `json:"warning,omitempty"`
}

// Page is the full render tree.
type Page struct {
	Title      string              `json:"title"`
	Filter     TextField           `json:"filter"`
	Preview    Toggle              `json:"preview"`
	Columns    [ColumnCount][]Card `json:"columns"`
	Matches    int                 `json:"matches"`
	Empty      bool                `json:"empty"`
	Info       string              `json:"info,omitempty"`
	Footer     []string            `json:"footer"`
	ResetLabel string              `json:"reset_label"`
}

// Cards returns the cards in post-filter order.
func (p Page) Cards() []Card {
	cards := make([]Card, p.Matches)
	for _, col := range p.Columns {
		for _, c := range col {
			cards[c.Index] = c
		}
	}
	return cards
}

// Caption formats the metadata line shown under a card title.
func Caption(r catalog.AppRecord) string {
	return fmt.Sprintf("Repo: %s/%s — Branch: %s — Entry: %s", r.Owner, r.Repo, r.Branch, r.EntryPath)
}

// URLFieldKey is the widget key of a card's URL field.
func URLFieldKey(recordKey string) string {
	return "url_" + recordKey
}

// Render builds the page for state. It never modifies qs or state.
func Render(qs *catalog.QueryService, state State, opts Options) Page {
	labels := opts.Labels
	if labels == (Labels{}) {
		labels = EnglishLabels
	}
	embedder := opts.Embedder
	if embedder == nil {
		embedder = FrameEmbedder{}
	}
	height := opts.FrameHeight
	if height <= 0 {
		height = DefaultFrameHeight
	}

	page := Page{
		Title: qs.Title(),
		Filter: TextField{
			Key:         "query",
			Label:       labels.FilterLabel,
			Placeholder: labels.FilterPlaceholder,
			Value:       state.Query,
		},
		Preview: Toggle{
			Key:   "preview",
			Label: labels.PreviewLabel,
			Help:  labels.PreviewHelp,
			Value: state.Preview,
		},
		Footer:     []string{labels.FooterAddApps, labels.FooterExactURL},
		ResetLabel: labels.ResetSession,
	}

	matches := qs.ListApps(state.Query)
	page.Matches = len(matches)
	if len(matches) == 0 {
		page.Empty = true
		page.Info = labels.NoResults
		return page
	}

	for i, app := range matches {
		card := renderCard(app, i, state, labels, qs.HostSuffix())
		if state.Preview && card.Open.Href != "" {
			frame, err := embedder.Embed(card.Open.Href, height)
			if err != nil {
				card.Warning = labels.EmbedWarning
			} else {
				card.Frame = &frame
			}
		}
		page.Columns[card.Column] = append(page.Columns[card.Column], card)
	}
	return page
}

func renderCard(app catalog.AppRecord, i int, state State, labels Labels, suffix string) Card {
	key := app.Key()

	value := catalog.NormalizeURLFor(app.AppURL, suffix)
	override, overridden := state.Overrides[key]
	if overridden {
		value = override
	}
	target := catalog.NormalizeURLFor(value, suffix)

	card := Card{
		Key:         key,
		Index:       i,
		Column:      i % ColumnCount,
		Name:        app.Name,
		Caption:     Caption(app),
		Description: app.Description,
		URLField: TextField{
			Key:         URLFieldKey(key),
			Label:       labels.URLFieldLabel,
			Placeholder: labels.URLPlaceholder,
			Value:       value,
		},
		Overridden: overridden,
		Open:       Action{Label: labels.OpenApp, Disabled: true},
		Source:     Action{Label: labels.OpenSource, Href: app.GithubURL},
	}
	if target != "" {
		card.Open = Action{Label: labels.OpenApp, Href: target}
	}
	return card
}
