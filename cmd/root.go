package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/discipleshipbydesign/blueprint/internal/config"
	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Generate discipleship teaching blueprints",
	Long: `blueprint turns a short planning intake into a validated, role-specific
teaching blueprint using a language model, and stores it for later retrieval.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "blueprint.yaml", "Path to YAML config file (missing file is ignored)")
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// URL (overrides BLUEPRINT_DB)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(envCheckCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads --config and applies --db on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Database.DSN = p
	}
	cfg.Otel.Version = version
	return cfg, nil
}

// resolveDSN returns the configured database, then BLUEPRINT_DB, then the
// default XDG path.
func resolveDSN(cfg *config.Config) (string, error) {
	if dsn := cfg.Database.DSN; dsn != "" {
		if store.IsPostgres(dsn) || isSQLiteURI(dsn) {
			return dsn, nil
		}
		return dsn, store.EnsureDir(dsn)
	}
	return store.DefaultDBPath()
}

func openStore(cfg *config.Config, log *logger.Logger) (*store.Store, error) {
	dsn, err := resolveDSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dsn, store.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// cliLogger is quiet unless BLUEPRINT_LOG_MODE asks for more; CLI output
// goes to stdout and should not be interleaved with debug lines.
func cliLogger(cfg *config.Config) *logger.Logger {
	if cfg.Logging.Mode == "" || cfg.Logging.Mode == "production" {
		return logger.Nop()
	}
	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return logger.Nop()
	}
	return log
}

func isSQLiteURI(dsn string) bool {
	return strings.HasPrefix(dsn, "file:")
}
