// Package cli wires the agentdesk commands: the default terminal console,
// the headless web server, and version.
package cli

import (
	"fmt"

	"agentdesk/internal/app"
	"agentdesk/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var dataDir string

var rootCmd = &cobra.Command{
	Use:   "agentdesk",
	Short: "Admin console for conversational agents",
	Long: `agentdesk manages conversational agents: profiles, channels,
role-play training sessions and recordings. Running it without a
subcommand opens the terminal console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"data directory (default ~/.agentdesk)")
}

func runTUI() error {
	a, err := app.New(dataDir)
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(a)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("agentdesk: %w", err)
	}
	return nil
}
