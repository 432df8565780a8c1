package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"catalogdesk/internal/catalog"
	"catalogdesk/internal/config"
	"catalogdesk/internal/notify"
	"catalogdesk/internal/platform/catalogapi"
	"catalogdesk/internal/platform/logging"
	"catalogdesk/internal/shell"
	"catalogdesk/internal/tui"
)

var (
	// Global flags
	apiURL   string
	timeout  time.Duration
	logLevel string

	rt *deps
)

// deps is what every command shares once flags and env are resolved.
type deps struct {
	cfg      config.Config
	logger   *slog.Logger
	notifier *notify.Center
	service  *catalog.Service
	closeLog func() error
}

var rootCmd = &cobra.Command{
	Use:   "catalogdesk",
	Short: "Browse and add authors, books and magazines in the library catalog",
	Long: `catalogdesk is a client for the library catalog backend.

Run without arguments to start the interactive shell. The subcommands
list and create catalog entries from scripts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		rt, err = setup(cmd, cmd == cmd.Root())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt != nil && rt.closeLog != nil {
			_ = rt.closeLog()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Catalog backend URL (or set CATALOG_API_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (or set CATALOG_TIMEOUT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (or set LOG_LEVEL)")

	rootCmd.AddCommand(authorsCmd)
	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(magazinesCmd)
	rootCmd.AddCommand(publicationsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup resolves configuration and builds the shared services. The
// interactive shell logs to CATALOG_LOG_FILE so the screen stays clean;
// subcommands log to stderr.
func setup(cmd *cobra.Command, interactive bool) (*deps, error) {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = apiURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	var (
		logOut   io.Writer = cmd.ErrOrStderr()
		closeLog           = func() error { return nil }
	)
	if interactive {
		logOut, closeLog, err = logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
	}
	logger := logging.Setup(logOut, logging.ParseLevel(cfg.LogLevel))

	client := catalogapi.New(cfg.APIURL,
		catalogapi.WithTimeout(cfg.Timeout),
		catalogapi.WithRateLimit(cfg.RPS, 5),
		catalogapi.WithUserAgent(cfg.UserAgent),
		catalogapi.WithLogger(logger),
	)
	notifier := notify.NewCenter(notify.WithLogger(logger))
	if !interactive {
		notifier.Subscribe(printNotification(cmd.ErrOrStderr()))
	}

	logger.Debug("catalogdesk starting", "api_url", cfg.APIURL, "timeout", cfg.Timeout, "interactive", interactive)
	return &deps{
		cfg:      cfg,
		logger:   logger,
		notifier: notifier,
		service:  catalog.NewService(client.Authors(), client.Books(), client.Magazines(), client.Publications(), notifier, logger),
		closeLog: closeLog,
	}, nil
}

func runInteractive(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tui.New(ctx, rt.service, shell.NewRouter(), notify.NewDialog(), tui.Options{
		NavigateDelay: rt.cfg.NavigateDelay,
	})
	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("interactive shell: %w", err)
	}
	return nil
}
