package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Gabrululu/zk-battleship/internal/engine"
	"github.com/Gabrululu/zk-battleship/internal/game"
	"github.com/Gabrululu/zk-battleship/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the game",
	Long: `Watch the game live. Polls the contract in the background, renders
both boards with the turn clock, and answers incoming shots automatically
with a zero-knowledge proof while it runs.

Controls:
  r        - Refresh now
  Q/Ctrl+C - Quit`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	events := a.session.Subscribe()
	syncer := engine.NewSynchronizer(a.eng, a.cfg.Game.PollInterval, events, a.logger)
	syncer.Start(context.Background())
	defer syncer.Stop()

	timer := game.NewTurnTimer(
		a.cfg.Game.TurnDuration,
		a.cfg.Game.WarningThreshold,
		a.cfg.Game.CriticalThreshold,
	)

	model := tui.NewModel(a.eng, syncer, timer)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
