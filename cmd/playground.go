package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/glance/internal/playground"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Show how labels are measured and fitted",
	Long: `Launch an interactive list of sample labels (CJK, emoji, flags, escape
sequences) next to a breakdown of their display widths.`,
	Args: cobra.NoArgs,
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(cmd *cobra.Command, args []string) error {
	if asciiFlag {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	_, cleanup, err := initLogging("glance-playground")
	if err != nil {
		return err
	}
	defer cleanup()

	model := playground.New(cfg.UI.AmbiguousWide)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
