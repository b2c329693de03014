package portal

import "golang.org/x/text/language"

// Labels holds every user-facing string the page uses.
type Labels struct {
	FilterLabel       string
	FilterPlaceholder string
	PreviewLabel      string
	PreviewHelp       string
	URLFieldLabel     string
	URLPlaceholder    string
	OpenApp           string
	OpenSource        string
	EmbedWarning      string
	NoResults         string
	FooterAddApps     string
	FooterExactURL    string
	ResetSession      string
}

// EnglishLabels is the default label set.
var EnglishLabels = Labels{
	FilterLabel:       "Filter by name/description:",
	FilterPlaceholder: "Type a term…",
	PreviewLabel:      "Preview apps inside the page (iframe)",
	PreviewHelp:       "Some apps block iframes; if the preview stays blank, use the 'Open app' button.",
	URLFieldLabel:     "Public app URL",
	URLPlaceholder:    "https://<subdomain>.streamlit.app",
	OpenApp:           "Open app ▶️",
	OpenSource:        "GitHub 💻",
	EmbedWarning:      "Could not embed this app in an iframe. Use the 'Open app' button.",
	NoResults:         "No apps found for this filter.",
	FooterAddApps:     "To add more apps, add an entry to the catalog with name, owner, repo, branch, entry_path, description and (optionally) app_url/github_url.",
	FooterExactURL:    "Hosted app URLs carry a random suffix, so paste the exact public deploy URL in the field above.",
	ResetSession:      "Reset my filter and URLs",
}

// PortugueseLabels is the pt label set.
var PortugueseLabels = Labels{
	FilterLabel:       "Filtrar por nome/descrição:",
	FilterPlaceholder: "Digite um termo…",
	PreviewLabel:      "Pré-visualizar apps dentro da página (iframe)",
	PreviewHelp:       "Alguns apps podem bloquear iframe; se ficar em branco, use o botão 'Abrir app'.",
	URLFieldLabel:     "URL pública do app",
	URLPlaceholder:    "https://<subdominio>.streamlit.app",
	OpenApp:           "Abrir app ▶️",
	OpenSource:        "GitHub 💻",
	EmbedWarning:      "Não foi possível incorporar via iframe. Use o botão 'Abrir app'.",
	NoResults:         "Nenhum app encontrado para esse filtro.",
	FooterAddApps:     "Para adicionar mais apps, inclua um item no catálogo com name, owner, repo, branch, entry_path, description e (opcional) app_url/github_url.",
	FooterExactURL:    "Como a URL do deploy contém um sufixo aleatório, cole a URL pública exata do deploy no campo acima.",
	ResetSession:      "Limpar meu filtro e URLs",
}

// LabelsFor returns the label set for locale. Any Portuguese tag ("pt",
// "pt-BR", "pt_BR") selects PortugueseLabels; everything else is English.
func LabelsFor(locale string) Labels {
	base, _ := parseLocale(locale).Base()
	if base.String() == "pt" {
		return PortugueseLabels
	}
	return EnglishLabels
}

// LanguageTag returns locale as a BCP 47 tag for the page's lang attribute.
// Underscore forms are accepted; blank or malformed locales yield "en".
func LanguageTag(locale string) string {
	return parseLocale(locale).String()
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}
