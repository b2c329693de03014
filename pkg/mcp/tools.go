package mcp

import "github.com/mark3labs/mcp-go/mcp"

func listAppsTool() mcp.Tool {
	return mcp.NewTool("list_apps",
		mcp.WithDescription("List catalog apps in catalog order. The optional query is a case-insensitive substring matched against name and description."),
		mcp.WithString("query", mcp.Description("Filter text; empty lists every app")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getAppTool() mcp.Tool {
	return mcp.NewTool("get_app",
		mcp.WithDescription("Get one app record by key (owner/repo)."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Record key, e.g. acme/marketing-llm")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func guessAppURLTool() mcp.Tool {
	return mcp.NewTool("guess_app_url",
		mcp.WithDescription("Guess a public app URL from the deployment naming convention. Best effort: real deployments may carry a random suffix."),
		mcp.WithString("owner", mcp.Required()),
		mcp.WithString("repo", mcp.Required()),
		mcp.WithString("branch", mcp.Required()),
		mcp.WithString("entry_path", mcp.Required()),
		mcp.WithString("host_suffix", mcp.Description("Hosting domain; defaults to the catalog's")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func normalizeURLTool() mcp.Tool {
	return mcp.NewTool("normalize_url",
		mcp.WithDescription("Trim a URL and add https:// when it has no scheme. Reports whether it looks like a deploy URL; nothing is rejected."),
		mcp.WithString("url", mcp.Required()),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func renderPageTool() mcp.Tool {
	return mcp.NewTool("render_page",
		mcp.WithDescription("Render the portal page tree (cards, columns, actions) for a filter and preview setting."),
		mcp.WithString("query", mcp.Description("Filter text")),
		mcp.WithBoolean("preview", mcp.Description("Embed inline previews for cards with a URL")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
