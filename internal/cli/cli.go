// Package cli builds the folio-a11y command tree.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/raysh454/folio-a11y/internal/app"
	"github.com/raysh454/folio-a11y/internal/config"
	"github.com/raysh454/folio-a11y/internal/demoserver"
	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/report"
	"github.com/raysh454/folio-a11y/internal/server"
)

// ErrThresholdExceeded is returned by audit when an issue at or above the
// --fail-on severity was found.
var ErrThresholdExceeded = errors.New("issues at or above the failure threshold")

// Exit codes returned by Execute.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitThreshold = 2
)

// options is shared state filled by the persistent flags and pre-run hook.
type options struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger logging.Logger
	sync   func() error

	stdout io.Writer
	stderr io.Writer
}

// Execute runs the command line and returns a process exit code.
func Execute(args []string) int {
	cmd := NewRootCommand(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	return exitCode(cmd.Execute())
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrThresholdExceeded):
		return ExitThreshold
	default:
		return ExitError
	}
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "folio-a11y",
		Short: "Accessibility compliance auditor for portfolio pages",
		Long: `folio-a11y audits rendered pages against WCAG 2.1 checks: color contrast,
heading structure, form labels, image alternatives, interactive element
names and target sizes, and focus visibility.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.sync != nil {
				_ = o.sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&o.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Override the configured log level (debug|info|warn|error)")

	root.AddCommand(
		newAuditCommand(o),
		newServeCommand(o),
		newPagesCommand(o),
		newDemoCommand(o),
	)
	return root
}

func (o *options) setup() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zl, err := logging.NewZapLogger(logging.ZapOptions{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.cfg = cfg
	o.logger = zl
	o.sync = zl.Sync
	return nil
}

// ===== audit =====

type auditFlags struct {
	backend     string
	format      string
	failOn      string
	log         bool
	noColor     bool
	concurrency int
}

func newAuditCommand(o *options) *cobra.Command {
	f := &auditFlags{}
	cmd := &cobra.Command{
		Use:   "audit <file|url>...",
		Short: "Audit one or more pages and print a report",
		Example: `  folio-a11y audit index.html
  folio-a11y audit --backend chromedp --format json http://localhost:9999/ http://localhost:9999/contact`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), o, f, args)
		},
	}
	cmd.Flags().StringVar(&f.backend, "backend", "", "Render backend (static|chromedp|rod); defaults to the configured backend")
	cmd.Flags().StringVar(&f.format, "format", "text", "Report format: text|json|html")
	cmd.Flags().StringVar(&f.failOn, "fail-on", "error", "Exit non-zero on issues at or above: error|warning|none")
	cmd.Flags().BoolVar(&f.log, "log", false, "Also write the grouped report to the structured log")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable terminal styling")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Parallel audits (0 uses the configured value)")
	return cmd
}

func (f *auditFlags) validate(targets int) error {
	switch f.format {
	case "text", "json":
	case "html":
		if targets > 1 {
			return errors.New("--format html takes a single target")
		}
	default:
		return fmt.Errorf("unknown --format %q (want text, json or html)", f.format)
	}
	switch f.failOn {
	case "error", "warning", "none":
	default:
		return fmt.Errorf("unknown --fail-on %q (want error, warning or none)", f.failOn)
	}
	return nil
}

func runAudit(ctx context.Context, o *options, f *auditFlags, targets []string) error {
	if err := f.validate(len(targets)); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := *o.cfg
	if f.backend != "" {
		cfg.Render.Backend = f.backend
	}
	concurrency := f.concurrency
	if concurrency <= 0 {
		concurrency = cfg.BatchConcurrency
	}

	application := app.NewApplication(&cfg, o.logger, nil)
	defer application.Close()

	items, err := application.AuditBatch(ctx, targets, concurrency)
	if err != nil {
		return err
	}

	if f.log {
		for _, it := range items {
			if it.Result != nil {
				report.LogGrouped(o.logger.With(logging.Field{Key: "target", Value: it.Target}), it.Result)
			}
		}
	}

	if err := writeAuditOutput(o.stdout, f, items); err != nil {
		return err
	}

	var failed []string
	for _, it := range items {
		if it.Error != "" {
			failed = append(failed, it.Target)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("audit failed for %s", strings.Join(failed, ", "))
	}
	if exceeds(items, f.failOn) {
		return ErrThresholdExceeded
	}
	return nil
}

func writeAuditOutput(w io.Writer, f *auditFlags, items []app.BatchItem) error {
	switch f.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "html":
		it := items[0]
		if it.Result == nil {
			return nil
		}
		return report.WriteHTML(w, it.Result, "Accessibility audit: "+it.Target)
	}

	for n, it := range items {
		if len(items) > 1 {
			if n > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", it.Target)
		}
		if it.Error != "" {
			fmt.Fprintf(w, "error: %s\n", it.Error)
			continue
		}
		if err := report.WriteText(w, it.Result, report.TextOptions{NoColor: f.noColor}); err != nil {
			return err
		}
	}
	return nil
}

// exceeds reports whether any result has issues at or above threshold.
func exceeds(items []app.BatchItem, threshold string) bool {
	for _, it := range items {
		if it.Result == nil {
			continue
		}
		s := it.Result.Summary()
		switch threshold {
		case "error":
			if s.Errors > 0 {
				return true
			}
		case "warning":
			if s.Errors > 0 || s.Warnings > 0 {
				return true
			}
		}
	}
	return false
}

// ===== serve =====

func newServeCommand(o *options) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live report panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				o.cfg.Server.ListenAddr = listen
			}
			return runServe(o)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides server.listen_addr)")
	return cmd
}

func runServe(o *options) error {
	application, err := app.Open(o.cfg, o.logger)
	if err != nil {
		return err
	}
	defer application.Close()

	srv, err := server.NewServer(server.ConfigFrom(o.cfg, o.logger), application)
	if err != nil {
		return err
	}
	httpSrv := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		o.logger.Info("api server listening", logging.Field{Key: "addr", Value: httpSrv.Addr})
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	o.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// ===== pages =====

func newPagesCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Manage the registry of pages to audit",
	}

	var backend, description string
	add := &cobra.Command{
		Use:   "add <slug> <target>",
		Short: "Register a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(o, func(a *app.Application) error {
				p, err := a.AddPage(context.Background(), args[0], args[1], backend, description)
				if err != nil {
					return err
				}
				fmt.Fprintf(o.stdout, "added %s -> %s (%s)\n", p.Slug, p.Target, p.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&backend, "backend", "", "Render backend for this page")
	add.Flags().StringVar(&description, "description", "", "Free-form description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(o, func(a *app.Application) error {
				pages, err := a.ListPages(context.Background())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(o.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SLUG\tTARGET\tBACKEND\tDESCRIPTION")
				for _, p := range pages {
					be := p.Backend
					if be == "" {
						be = "-"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Slug, p.Target, be, p.Description)
				}
				return tw.Flush()
			})
		},
	}

	remove := &cobra.Command{
		Use:     "remove <slug>",
		Aliases: []string{"rm"},
		Short:   "Remove a registered page",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(o, func(a *app.Application) error {
				if err := a.RemovePage(context.Background(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(o.stdout, "removed %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}

func withApp(o *options, fn func(*app.Application) error) error {
	a, err := app.Open(o.cfg, o.logger)
	if err != nil {
		return err
	}
	return errors.Join(fn(a), a.Close())
}

// ===== demo =====

func newDemoCommand(o *options) *cobra.Command {
	cfg := demoserver.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve the demo portfolio with switchable defective and remediated pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.logger.Info("starting demo portfolio", logging.Field{Key: "port", Value: cfg.Port})
			return demoserver.NewDemoServer(cfg).Start()
		},
	}
	cmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	cmd.Flags().IntVar(&cfg.InitialVersion, "version", demoserver.VersionDefective, "Initial page version (1 defective, 2 remediated)")
	return cmd
}
