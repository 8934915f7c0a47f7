package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"serial_dashboard/internal/config"
	"serial_dashboard/internal/keyword"
	"serial_dashboard/internal/stats"
)

var dashboardProject string

func init() {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the full dashboard snapshot for a project",
		Run:   runDashboard,
	}
	cmd.Flags().StringVarP(&dashboardProject, "project", "p", "", "Project id (required)")
	cmd.MarkFlagRequired("project")

	RootCmd.AddCommand(cmd)
}

func runDashboard(cmd *cobra.Command, args []string) {
	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	collector := stats.NewCollector(st, keyword.Default(), cfg.ActivityDays)
	snap := collector.Refresh(cmd.Context(), dashboardProject)
	if err := snap.Err(); err != nil {
		exitErr("collect stats", err)
	}

	b, _ := json.MarshalIndent(snap, "", "  ")
	fmt.Println(string(b))
}
