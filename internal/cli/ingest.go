package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"serial_dashboard/internal/config"
	"serial_dashboard/internal/ingest"
)

var ingestProject string

func init() {
	cmd := &cobra.Command{
		Use:   "ingest <episode-number> <file>",
		Short: "Import a manuscript file (.txt/.md/.docx/.pdf) as episode content",
		Args:  cobra.ExactArgs(2),
		Run:   runIngest,
	}
	cmd.Flags().StringVarP(&ingestProject, "project", "p", "", "Project id (required)")
	cmd.MarkFlagRequired("project")

	RootCmd.AddCommand(cmd)
}

func runIngest(cmd *cobra.Command, args []string) {
	number, err := strconv.Atoi(args[0])
	if err != nil {
		exitErr("parse episode number", err)
	}

	st, err := openStore(config.Load())
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	ep, err := ingest.ImportEpisode(cmd.Context(), st, ingestProject, number, args[1])
	if err != nil {
		exitErr("import episode", err)
	}
	fmt.Printf("episode %d (%s): %d chars\n", ep.Number, ep.Title, ep.WordCount)
}
