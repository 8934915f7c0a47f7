// Package cli implements the seriald commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"serial_dashboard/internal/config"
	"serial_dashboard/internal/store"
	"serial_dashboard/internal/workspace"
)

var dbPathFlag string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "seriald",
	Short: "Consistency and schedule analytics for serialized fiction",
	Long:  "seriald scores character consistency, episode completion, and foreshadow health for serialized manuscripts, and serves the numbers to dashboards.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPathFlag, "db", "d", "", "Database path (default: $SERIAL_DASHBOARD_DB or the workspace database)")
}

func resolveDBPath(cfg *config.Config) (string, error) {
	if dbPathFlag != "" {
		return dbPathFlag, nil
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	base := cfg.WorkspaceDir
	if base == "" {
		var err error
		base, err = workspace.EnsureDefault()
		if err != nil {
			return "", err
		}
	} else {
		var err error
		base, err = workspace.EnsureAt(base)
		if err != nil {
			return "", err
		}
	}
	return workspace.DefaultDBPath(base), nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	path, err := resolveDBPath(cfg)
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
