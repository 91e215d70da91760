package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/CodexForgeBR/materials-assistant/internal/assistant"
	"github.com/CodexForgeBR/materials-assistant/internal/banner"
	"github.com/CodexForgeBR/materials-assistant/internal/cli"
	"github.com/CodexForgeBR/materials-assistant/internal/completion"
	"github.com/CodexForgeBR/materials-assistant/internal/config"
	"github.com/CodexForgeBR/materials-assistant/internal/exitcode"
	"github.com/CodexForgeBR/materials-assistant/internal/logging"
	"github.com/CodexForgeBR/materials-assistant/internal/metrics"
	sighandler "github.com/CodexForgeBR/materials-assistant/internal/signal"
	"github.com/CodexForgeBR/materials-assistant/internal/web"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return exitcode.Success
	}
	// Blank input already got its warning banner.
	if !errors.Is(err, assistant.ErrEmptyMaterial) {
		banner.PrintErrorBanner(stderr, err)
	}
	code := exitcode.ForError(err)
	logging.Debug("exiting", "code", code, "reason", exitcode.Name(code))
	return code
}

// app carries state shared between the root command and its subcommands.
type app struct {
	flags  *config.Config // bound to CLI flags
	cfg    *config.Config // effective configuration after loading
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{flags: config.NewDefaultConfig(), stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:     "materials-assistant",
		Short:   "Materials engineering Q&A backed by a chat-completion model",
		Long:    "Materials Assistant asks a Gemini (or any OpenAI-compatible) model for metallurgy and materials engineering details, retrying while the model is overloaded.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags after parsing
			if err := cli.ValidateFlags(cmd, a.flags); err != nil {
				return err
			}
			return a.loadConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cli.BindFlags(rootCmd, a.flags)
	cli.SetCustomHelp(rootCmd)

	askCmd := &cobra.Command{
		Use:   "ask <material...>",
		Short: "Print properties, uses and safety notes for a material",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd.Context(), strings.Join(args, " "))
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}
	cli.BindServeFlags(serveCmd, a.flags)

	rootCmd.AddCommand(askCmd, serveCmd)
	return rootCmd
}

// loadConfig applies the full precedence chain. CLI flags are already bound
// to a.flags; only the ones the user actually set override file values.
func (a *app) loadConfig(cmd *cobra.Command) error {
	overrides := cli.BuildOverrides(cmd, a.flags)

	finalCfg, err := config.LoadWithPrecedence(a.flags.EnvFile, a.flags.ConfigFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Merge CLI-only flags (not in config files)
	finalCfg.ConfigFile = a.flags.ConfigFile
	finalCfg.EnvFile = a.flags.EnvFile

	a.cfg = finalCfg
	logging.SetVerbose(a.cfg.Verbose)
	logging.Debug("configuration loaded",
		"model", a.cfg.Model,
		"base_url", a.cfg.BaseURL,
		"max_attempts", a.cfg.MaxAttempts,
		"base_delay", logging.FormatDuration(a.cfg.BaseDelay()),
		"timeout", logging.FormatDuration(a.cfg.Timeout()))
	return nil
}

func (a *app) runAsk(parent context.Context, material string) error {
	ctx, stop := sighandler.WithInterrupt(parent, func(sig os.Signal) {
		logging.Warn("interrupted, canceling request", "signal", sig.String())
	})
	defer stop()

	svc, err := assistant.NewFromConfig(a.cfg, nil, "cli")
	if err != nil {
		return err
	}

	endpoint := completion.NewClient(completion.Options{BaseURL: a.cfg.BaseURL}).Endpoint()
	banner.PrintStartupBanner(a.stdout, a.cfg.Model, endpoint)

	start := time.Now()
	res, err := svc.GetCompletion(ctx, material)
	if errors.Is(err, assistant.ErrEmptyMaterial) {
		banner.PrintWarningBanner(a.stderr, assistant.Capitalize(err.Error())+".")
		return err
	}
	if err != nil {
		return err
	}

	banner.PrintResultBanner(a.stdout, material, res, time.Since(start))
	return nil
}

func (a *app) runServe(parent context.Context) error {
	ctx, stop := sighandler.WithInterrupt(parent, func(sig os.Signal) {
		logging.Info("shutting down", "signal", sig.String())
	})
	defer stop()

	undoMaxProcs, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logging.Debug(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		logging.Warn("could not adjust GOMAXPROCS", "error", err.Error())
	}
	defer undoMaxProcs()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewCompletionMetrics(reg)

	svc, err := assistant.NewFromConfig(a.cfg, m, "web")
	if err != nil {
		return err
	}

	router := web.NewRouter(web.Config{
		Assistant:      svc,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	ln, err := net.Listen("tcp", a.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.ListenAddr, err)
	}
	banner.PrintStartupBanner(a.stdout, a.cfg.Model, "http://"+ln.Addr().String())
	return serveHTTP(ctx, ln, router)
}

// serveHTTP serves h on ln until ctx is done, then shuts down gracefully.
// A shutdown triggered by ctx is a clean exit.
func serveHTTP(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logging.Success("web UI listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	logging.Info("server stopped")
	return nil
}
