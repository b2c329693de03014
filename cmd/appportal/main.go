package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gnana997/appportal/catalogs"
	"github.com/gnana997/appportal/pkg/accesslog"
	"github.com/gnana997/appportal/pkg/catalog"
	mcpserver "github.com/gnana997/appportal/pkg/mcp"
	"github.com/gnana997/appportal/pkg/portal"
	"github.com/gnana997/appportal/pkg/session"
	"github.com/gnana997/appportal/pkg/util"
	"github.com/gnana997/appportal/pkg/web"
)

const version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	var err error
	command, rest := args[0], args[1:]
	switch command {
	case "serve":
		err = runServe(rest, stderr)
	case "mcp":
		err = runMCP(rest, stderr)
	case "list":
		err = runList(rest, stdout, stderr)
	case "guess":
		err = runGuess(rest, stdout, stderr)
	case "validate":
		err = runValidate(rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "appportal %s\n", version)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", command, err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: appportal <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Serve the portal page over HTTP")
	fmt.Fprintln(w, "  mcp        Start MCP server on stdio")
	fmt.Fprintln(w, "  list       List catalog apps, optionally filtered")
	fmt.Fprintln(w, "  guess      Guess a public app URL from owner/repo/branch/entry")
	fmt.Fprintln(w, "  validate   Validate a catalog file")
	fmt.Fprintln(w, "  version    Print version")
	fmt.Fprintln(w, "  help       Show this help message")
}

// catalogFlag registers the flag shared by every catalog-reading command.
func catalogFlag(fs *flag.FlagSet, cfg *ProjectConfig) {
	fs.StringVar(&cfg.Catalog, "catalog", "", "catalog YAML file or glob (default: built-in catalog)")
}

func loggingFlags(fs *flag.FlagSet, cfg *ProjectConfig) {
	fs.StringVar(&cfg.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "text or json")
	fs.StringVar(&cfg.AccessLog, "access-log", "", "append a JSONL line per request/tool call to this file")
}

func renderFlags(fs *flag.FlagSet, cfg *ProjectConfig) {
	fs.StringVar(&cfg.Locale, "locale", "", "label language: en or pt")
	fs.IntVar(&cfg.PreviewHeight, "preview-height", 0, "inline preview height in pixels")
}

// loadSource loads the configured catalog, or the built-in one.
func loadSource(cfg ProjectConfig) (*catalog.Source, error) {
	var (
		qs  *catalog.QueryService
		err error
	)
	if cfg.Catalog == "" {
		qs, err = catalog.LoadAndQueryBytes(catalogs.DefaultYAML)
	} else {
		qs, err = catalog.LoadAndQuery(cfg.Catalog)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.NewSource(qs), nil
}

func renderOptions(cfg ProjectConfig) portal.Options {
	return portal.Options{
		Labels:      portal.LabelsFor(cfg.Locale),
		Embedder:    portal.FrameEmbedder{},
		FrameHeight: cfg.PreviewHeight,
	}
}

func newLogger(cfg ProjectConfig, stderr io.Writer) *slog.Logger {
	lc := util.LoggerConfigFrom(cfg.LogLevel, cfg.LogFormat)
	lc.Output = stderr
	return util.NewLogger(lc)
}

// --- serve ---

func runServe(args []string, stderr io.Writer) error {
	var flags ProjectConfig
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	catalogFlag(fs, &flags)
	loggingFlags(fs, &flags)
	renderFlags(fs, &flags)
	fs.StringVar(&flags.Listen, "listen", "", "listen address (default "+defaultListen+")")
	fs.BoolVar(&flags.Watch, "watch", false, "reload the catalog file when it changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	logger := newLogger(cfg, stderr)
	util.SetDefault(logger)

	src, err := loadSource(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch && cfg.Catalog != "" {
		w, err := catalog.NewWatcher(cfg.Catalog, src, 0, logger)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	access, err := accesslog.NewLogger(cfg.AccessLog)
	if err != nil {
		return err
	}
	defer access.Close()

	srv := web.NewServer(web.Config{
		Source:    src,
		Sessions:  session.NewStore(cfg.SessionMax, cfg.SessionTTL),
		Render:    renderOptions(cfg),
		Lang:      cfg.Locale,
		Logger:    logger,
		AccessLog: access,
	})
	logger.Info("catalog loaded", "title", src.Current().Title(), "apps", len(src.Current().Apps()))
	return srv.ListenAndServe(ctx, cfg.Listen)
}

// --- mcp ---

func runMCP(args []string, stderr io.Writer) error {
	var flags ProjectConfig
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	catalogFlag(fs, &flags)
	loggingFlags(fs, &flags)
	renderFlags(fs, &flags)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	util.SetDefault(newLogger(cfg, stderr))

	src, err := loadSource(cfg)
	if err != nil {
		return err
	}

	access, err := accesslog.NewLogger(cfg.AccessLog)
	if err != nil {
		return err
	}
	defer access.Close()

	srv := mcpserver.NewServer(src, renderOptions(cfg), access)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// --- list ---

func runList(args []string, stdout, stderr io.Writer) error {
	var flags ProjectConfig
	var asJSON bool
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	catalogFlag(fs, &flags)
	fs.BoolVar(&asJSON, "json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	src, err := loadSource(cfg)
	if err != nil {
		return err
	}

	apps := src.Current().ListApps(strings.Join(fs.Args(), " "))
	if asJSON {
		return printAppsJSON(stdout, apps)
	}
	printAppsHuman(stdout, apps)
	return nil
}

// --- guess ---

func runGuess(args []string, stdout, stderr io.Writer) error {
	var suffix string
	fs := flag.NewFlagSet("guess", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&suffix, "suffix", catalog.DefaultHostSuffix, "hosting domain")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 4 {
		return fmt.Errorf("usage: appportal guess [--suffix domain] <owner> <repo> <branch> <entry_path>")
	}
	a := fs.Args()
	fmt.Fprintln(stdout, catalog.GuessURL(a[0], a[1], a[2], a[3], suffix))
	return nil
}

// --- validate ---

func runValidate(args []string, stdout, stderr io.Writer) error {
	var flags ProjectConfig
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	catalogFlag(fs, &flags)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	src, err := loadSource(cfg)
	if err != nil {
		return err
	}

	qs := src.Current()
	fmt.Fprintf(stdout, "ok: %q with %d apps\n", qs.Title(), len(qs.Apps()))
	for _, app := range qs.Apps() {
		if !app.HasAppURL() {
			fmt.Fprintf(stdout, "  note: %s has no app_url; its open action is disabled\n", app.Key())
		}
	}
	return nil
}
