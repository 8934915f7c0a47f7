package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"serial_dashboard/internal/config"
	"serial_dashboard/internal/workspace"
)

var projectTitle string

func init() {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Prepare the workspace and optionally create a project",
		Run:   runInit,
	}
	cmd.Flags().StringVarP(&projectTitle, "title", "t", "", "Create a project with this title")

	RootCmd.AddCommand(cmd)
}

func runInit(cmd *cobra.Command, args []string) {
	cfg := config.Load()

	base := cfg.WorkspaceDir
	var err error
	if base == "" {
		base, err = workspace.EnsureDefault()
	} else {
		base, err = workspace.EnsureAt(base)
	}
	if err != nil {
		exitErr("workspace initialization", err)
	}
	fmt.Printf("workspace ready at: %s\n", base)

	if projectTitle == "" {
		return
	}

	st, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	id, err := st.CreateProject(cmd.Context(), projectTitle)
	if err != nil {
		exitErr("create project", err)
	}
	fmt.Printf("project created: %s\n", id)
}
