package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gnana997/appportal/pkg/catalog"
	"github.com/gnana997/appportal/pkg/portal"
	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// appSummary is the compact list_apps entry.
type appSummary struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AppURL      string `json:"app_url,omitempty"`
	GithubURL   string `json:"github_url"`
}

func (s *Server) handleListApps(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apps := s.source.Current().ListApps(req.GetString("query", ""))
	out := make([]appSummary, 0, len(apps))
	for _, app := range apps {
		out = append(out, appSummary{
			Key:         app.Key(),
			Name:        app.Name,
			Description: app.Description,
			AppURL:      app.AppURL,
			GithubURL:   app.GithubURL,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetApp(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	app, err := s.source.Current().GetApp(key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(app)
}

type guessResult struct {
	URL        string `json:"url"`
	Verified   bool   `json:"verified"`
	HostSuffix string `json:"host_suffix"`
}

func (s *Server) handleGuessAppURL(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var fields [4]string
	for i, name := range []string{"owner", "repo", "branch", "entry_path"} {
		v, err := req.RequireString(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fields[i] = v
	}
	suffix := req.GetString("host_suffix", s.source.Current().HostSuffix())

	return jsonResult(guessResult{
		URL:        catalog.GuessURL(fields[0], fields[1], fields[2], fields[3], suffix),
		Verified:   false,
		HostSuffix: suffix,
	})
}

type normalizeResult struct {
	URL                string `json:"url"`
	LooksLikeDeployURL bool   `json:"looks_like_deploy_url"`
}

func (s *Server) handleNormalizeURL(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	suffix := s.source.Current().HostSuffix()
	u := catalog.NormalizeURLFor(raw, suffix)
	return jsonResult(normalizeResult{
		URL:                u,
		LooksLikeDeployURL: u != "" && catalog.LooksLikeDeployURL(u, suffix),
	})
}

func (s *Server) handleRenderPage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := portal.State{
		Query:   req.GetString("query", ""),
		Preview: req.GetBool("preview", false),
	}
	return jsonResult(portal.Render(s.source.Current(), state, s.render))
}
