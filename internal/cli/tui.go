package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rerank/internal/tui"
)

func newTUICmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui FILE...",
		Short: "Interactively rank the passages of one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(gf)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			passages, err := collectPassages(nil, args, cmd.InOrStdin(), a.chunker)
			if err != nil {
				return err
			}
			if len(passages) == 0 {
				return fmt.Errorf("no passages found in %v", args)
			}
			m := tui.New(a.service, passages)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}
