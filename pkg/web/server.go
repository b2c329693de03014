// Package web serves the portal page over HTTP.
//
// Every request re-renders the whole page from the catalog and the
// visitor's session state, which is kept server side and addressed by a
// cookie.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gnana997/appportal/pkg/accesslog"
	"github.com/gnana997/appportal/pkg/catalog"
	"github.com/gnana997/appportal/pkg/portal"
	"github.com/gnana997/appportal/pkg/session"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "appportal_session"

//go:embed templates/page.html
var templateFS embed.FS

const pageTemplateName = "page.html"

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/"+pageTemplateName))

// Config wires a Server.
type Config struct {
	Source    *catalog.Source
	Sessions  *session.Store
	Render    portal.Options
	Lang      string
	Logger    *slog.Logger
	AccessLog *accesslog.Logger
}

// Server renders the portal for HTTP clients.
type Server struct {
	source   *catalog.Source
	sessions *session.Store
	render   portal.Options
	lang     string
	logger   *slog.Logger
	access   *accesslog.Logger
}

// NewServer creates a Server. Source is required; other fields default.
func NewServer(cfg Config) *Server {
	s := &Server{
		source:   cfg.Source,
		sessions: cfg.Sessions,
		render:   cfg.Render,
		logger:   cfg.Logger,
		access:   cfg.AccessLog,
	}
	if s.sessions == nil {
		s.sessions = session.NewStore(0, 0)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.lang = portal.LanguageTag(cfg.Lang)
	return s
}

// Handler returns the gin engine serving the portal routes.
func (s *Server) Handler() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(s.logRequests(), gin.Recovery())
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/", s.handlePage)
	r.POST("/apps/url", s.handleOverride)
	r.POST("/session/reset", s.handleResetSession)
	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/apps", s.handleListApps)
		api.GET("/page", s.handlePageJSON)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("portal listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("portal shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// sessionContextKey holds the request's session ID in the gin context.
const sessionContextKey = "appportal.session"

// sessionID returns the caller's live session, creating one (and setting
// the cookie) when the cookie is missing or its session has expired.
func (s *Server) sessionID(c *gin.Context) string {
	if id := c.GetString(sessionContextKey); id != "" {
		return id
	}
	if id, err := c.Cookie(SessionCookie); err == nil {
		if _, ok := s.sessions.Get(id); ok {
			c.Set(sessionContextKey, id)
			return id
		}
	}
	id := s.sessions.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	c.Set(sessionContextKey, id)
	return id
}

// stateFromRequest applies widget values submitted with the filter form.
// A plain GET without the form marker keeps the stored state.
func (s *Server) stateFromRequest(c *gin.Context) portal.State {
	id := s.sessionID(c)
	query, hasQuery := c.GetQuery("query")
	q, hasQ := c.GetQuery("q")
	if c.Query("f") == "" && !hasQuery && !hasQ {
		state, _ := s.sessions.Get(id)
		return state
	}
	return s.sessions.Update(id, func(st *portal.State) {
		st.Query = firstNonEmpty(query, q)
		st.Preview = isTruthy(c.Query("preview"))
	})
}

type pageData struct {
	Lang string
	Page portal.Page
}

func (s *Server) handlePage(c *gin.Context) {
	state := s.stateFromRequest(c)
	page := portal.Render(s.source.Current(), state, s.render)
	c.HTML(http.StatusOK, pageTemplateName, pageData{Lang: s.lang, Page: page})
}

func (s *Server) handlePageJSON(c *gin.Context) {
	state := s.stateFromRequest(c)
	c.JSON(http.StatusOK, portal.Render(s.source.Current(), state, s.render))
}

func (s *Server) handleOverride(c *gin.Context) {
	key := c.PostForm("key")
	if _, err := s.source.Current().GetApp(key); err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}

	id := s.sessionID(c)
	if isTruthy(c.PostForm("reset")) {
		s.sessions.ClearOverride(id, key)
	} else {
		s.sessions.SetOverride(id, key, c.PostForm("url"))
	}
	c.Redirect(http.StatusSeeOther, "/#"+portal.URLFieldKey(key))
}

// handleResetSession drops the caller's session; the next page load starts
// from an empty filter and no overrides.
func (s *Server) handleResetSession(c *gin.Context) {
	if id, err := c.Cookie(SessionCookie); err == nil {
		s.sessions.Delete(id)
		c.Set(sessionContextKey, id)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleListApps(c *gin.Context) {
	c.JSON(http.StatusOK, s.source.Current().ListApps(c.Query("q")))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isTruthy(v string) bool {
	switch v {
	case "1", "on", "true", "yes":
		return true
	default:
		return false
	}
}
