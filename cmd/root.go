package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/chris-regnier/agendactl/internal/config"
	"github.com/chris-regnier/agendactl/internal/log"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/chris-regnier/agendactl/internal/storage/markdown"
	"github.com/chris-regnier/agendactl/internal/storage/sqlite"
	"github.com/chris-regnier/agendactl/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile        string
	jsonOutput     bool
	storageBackend string
	appConfig      *config.Config
	store          storage.Storage

	// now is the clock used for "today"; tests replace it.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "agendactl",
	Short: "A calendar agenda for the terminal",
	Long: `agendactl shows your calendar as a scrolling agenda of days with a week strip
for the selected day. Events live in a pluggable storage backend and can be
imported from JSON or iCalendar files.

Run without a subcommand in a terminal to open the interactive agenda.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		s, err := openStore(appConfig)
		if err != nil {
			return err
		}
		store = s
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return showDay(os.Stdout, today(), false)
		}
		return ui.RunTUI(store, windowEngine(), tuiConfig())
	},
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if store != nil {
			store.Close()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "storage backend (markdown|sqlite)")

	// main prints the error.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// loadConfig loads the configuration, applies flag overrides and sets the
// log level.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if storageBackend != "" {
		cfg.Storage = storageBackend
	}

	level, ok := log.ParseLevel(cfg.LogLevel)
	if !ok {
		log.Info("unknown log level, using info", "log_level", cfg.LogLevel)
	}
	log.SetLevel(level)

	appConfig = cfg
	return nil
}

// openStore initializes the storage backend named by cfg.Storage.
func openStore(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case "markdown":
		s, err := markdown.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing markdown storage: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing sqlite storage: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
	}
}
