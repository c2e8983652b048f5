package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nigaran-engine/internal/config"
	"nigaran-engine/internal/logging"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	dataDir string
}

// loadConfig bootstraps the data directory and reads the config file in it.
func (o *rootOptions) loadConfig() (config.Config, string, error) {
	if err := os.MkdirAll(o.dataDir, 0o755); err != nil {
		return config.Config{}, "", err
	}
	path, err := config.EnsureUserConfig(o.dataDir)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("config bootstrap failed: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, "", err
	}
	return cfg, path, nil
}

func (o *rootOptions) logger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "nigaran-engine",
		Short: "Back end for the Nigaran Solar website",
		Long: `nigaran-engine serves the public lead, testimonial, blog, careers and
job application endpoints of the Nigaran Solar website, plus the session
gated management API used by the admin panel.`,
		SilenceUsage: true,
	}

	dataDir := os.Getenv("NIGARAN_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", dataDir, "directory holding config.yml and the sqlite database")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newExportCmd(opts),
		newSecretCmd(),
		newConfigCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
