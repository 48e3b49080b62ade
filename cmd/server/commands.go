package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfigName = "datadash.config.xml"

// serveOptions holds flags for the serve command.
type serveOptions struct {
	ConfigPath string
	Port       int
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datadash",
		Short: "Data Dashboard server",
		Long:  "Serves the data dashboard: home, login and file upload screens backed by per-visit upload sessions.",
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the dashboard HTTP server.

Configuration is read from an XML or YAML file (by extension). A missing
file is created with defaults. PORT, PROCESSING_DELAY_MS, LOG_LEVEL and
LOG_FILE from the environment or a .env file override it.

Example:
  datadash serve
  datadash serve --config ./datadash.yaml --port 9000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigPath == "" {
				path, err := defaultConfigPath()
				if err != nil {
					return err
				}
				opts.ConfigPath = path
			}
			return runServe(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file (default: next to the executable)")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "override the configured listen port")

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "datadash %s (built %s)\n", Version, BuildTime)
		},
	}
}

// defaultConfigPath resolves the config file next to the executable
func defaultConfigPath() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exePath), defaultConfigName), nil
}
