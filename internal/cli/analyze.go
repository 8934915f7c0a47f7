package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"serial_dashboard/internal/config"
	"serial_dashboard/internal/consistency"
	"serial_dashboard/internal/keyword"
	"serial_dashboard/internal/structure"
)

var analyzeProject string

func init() {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score character consistency and act pacing for a project",
		Run:   runAnalyze,
	}
	cmd.Flags().StringVarP(&analyzeProject, "project", "p", "", "Project id (required)")
	cmd.MarkFlagRequired("project")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	st, err := openStore(config.Load())
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	characters, err := st.ListCharacters(cmd.Context(), analyzeProject)
	if err != nil {
		exitErr("list characters", err)
	}
	episodes, err := st.ListEpisodes(cmd.Context(), analyzeProject)
	if err != nil {
		exitErr("list episodes", err)
	}

	results, average, _ := consistency.AnalyzeAll(characters, keyword.Default())
	out := map[string]any{
		"averageScore": average,
		"characters":   results,
		"structure":    structure.Pacing(episodes),
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
