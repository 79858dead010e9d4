package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-doc-translator/internal/logger"
	"github.com/nerdneilsfield/go-doc-translator/internal/project"
)

// newProjectsCommand 管理翻译项目产物目录
func newProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage translation project folders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List translation projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newProjectManager(cmd)
			if err != nil {
				return err
			}
			projects, err := m.List()
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Printf("no projects found under %s\n", m.Root())
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Name", "Modified", "Path"})
			for _, p := range projects {
				tw.AppendRow(table.Row{p.Name, p.ModifiedAt.Format("2006-01-02 15:04:05"), p.Path})
			}
			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a translation project folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newProjectManager(cmd)
			if err != nil {
				return err
			}
			if err := m.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted project %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func newProjectManager(cmd *cobra.Command) (*project.Manager, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logger.NewLoggerWithVerbose(debugMode, verboseMode)
	return project.NewManager(cfg.ProjectRoot, log), nil
}
