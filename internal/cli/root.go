// Package cli provides the command-line interface for orderdesk.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/orderdesk/internal/config"
	"github.com/user/orderdesk/internal/storage"
	"github.com/user/orderdesk/internal/view"
)

// Global flags
var (
	jsonOutput bool
	dataDir    string
	configPath string
	actorName  string
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orderdesk",
	Short: "Browse, filter and export rental orders",
	Long: `Orderdesk is a single-binary order list for rental shops.

Features:
  - Search, filter chips and multi-column sort over the order list
  - Paginated results with selection that survives re-sorting
  - Saved filters stored in SQLite, shareable as query strings
  - Export to CSV, TSV, JSON, JSONL and Excel workbooks
  - Interactive browse session with live reload of the order file`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "Data directory (default: .orderdesk or $ORDERDESK_DIR)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .orderdesk.json)")
	rootCmd.PersistentFlags().StringVar(&actorName, "actor", "", "Actor recorded on new orders (default: $ORDERDESK_ACTOR or $USER)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug output")
}

// ExitCode is used to communicate exit codes for testing
var ExitCode int

// ExitFunc is the function called to exit the program
// Can be overridden for testing
var ExitFunc = os.Exit

// Exit sets the exit code and calls the exit function
func Exit(code int) {
	ExitCode = code
	ExitFunc(code)
}

// GetJSONOutput returns whether JSON output is enabled
func GetJSONOutput() bool {
	return jsonOutput
}

// IsQuiet returns whether quiet mode is enabled
func IsQuiet() bool {
	return quiet
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// loadConfig resolves configuration from files, environment and global flags.
func loadConfig() (config.Config, error) {
	return config.Load(config.LoadInput{
		ConfigPath: configPath,
		DataDir:    dataDir,
		Actor:      actorName,
		Env:        config.Environ(),
	})
}

// newLogger returns the debug logger. It writes to stderr only with --verbose.
func newLogger() *log.Logger {
	var w io.Writer = io.Discard
	if IsVerbose() {
		w = os.Stderr
	}
	return log.New(w, "[orderdesk] ", log.LstdFlags)
}

// env bundles what most commands need.
type env struct {
	cfg    config.Config
	store  *storage.Store
	logger *log.Logger
}

// openEnv loads config and opens the store, exiting on failure.
// The returned bool is false when the command should stop.
func openEnv() (*env, bool) {
	cfg, err := loadConfig()
	if err != nil {
		ExitConfigError(err)
		return nil, false
	}

	logger := newLogger()
	logger.Printf("Using data directory %s (actor %s)", cfg.DataDirAbs, cfg.Actor)

	store, err := storage.NewStore(cfg.DataDirAbs)
	if err != nil {
		ExitWithError(1, ErrCodeStorage, fmt.Sprintf("failed to open data directory: %v", err),
			map[string]interface{}{"dir": cfg.DataDirAbs})
		return nil, false
	}
	return &env{cfg: cfg, store: store, logger: logger}, true
}

func (e *env) Close() {
	e.store.Close()
}

// newEngine builds a view engine over the stored orders using config defaults.
func (e *env) newEngine(onSearch func(string)) (*view.Engine, bool) {
	orders, err := e.store.ReadAll()
	if err != nil {
		exitForError(err)
		return nil, false
	}

	tag, err := view.ParseLanguage(e.cfg.Locale)
	if err != nil {
		ExitConfigError(err)
		return nil, false
	}

	engine, err := view.NewEngine(orders, view.Options{
		PageSize: e.cfg.PageSize,
		Debounce: e.cfg.Debounce(),
		Language: tag,
		Currency: e.cfg.Currency,
		Log:      e.logger.Printf,
		OnSearch: onSearch,
	})
	if err != nil {
		ExitConfigError(err)
		return nil, false
	}
	e.logger.Printf("Loaded %d orders from %s", len(orders), e.store.OrdersPath())
	return engine, true
}
