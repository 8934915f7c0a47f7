package cli

import (
	"log"

	"github.com/spf13/cobra"

	"serial_dashboard/internal/config"
	"serial_dashboard/internal/keyword"
	"serial_dashboard/internal/server"
	"serial_dashboard/internal/stats"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics API and stats websocket",
		Run:   runServe,
	}

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	dict := keyword.Default()
	collector := stats.NewCollector(st, dict, cfg.ActivityDays)
	handler := server.NewHandler(st, collector, dict)
	router := server.SetupRouter(handler, cfg)

	log.Printf("seriald listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		exitErr("serve", err)
	}
}
