package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gabrululu/zk-battleship/internal/game"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current game state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.eng.Refresh(ctx); err != nil {
		return friendly(err)
	}
	s, ok := a.eng.Snapshot()
	if !ok {
		fmt.Println("no game yet — 'battleship join' creates one")
		return nil
	}

	me := a.eng.Identity()
	fmt.Printf("phase:   %s\n", s.Phase)
	fmt.Printf("you:     %s\n", me)
	fmt.Printf("player1: %s%s\n", s.Player1, seatNote(s.Player1, me, s.P1Committed))
	fmt.Printf("player2: %s%s\n", s.Player2, seatNote(s.Player2, me, s.P2Committed))

	switch s.Phase {
	case game.PhasePlaying:
		fmt.Printf("turn:    %s\n", s.Turn)
		if s.HasPendingShot() {
			fmt.Printf("pending: shot at (%d,%d) awaiting response\n", s.PendingShotX, s.PendingShotY)
		}
		switch {
		case s.NeedToFire(me):
			fmt.Println("-> your move: battleship fire <x> <y>")
		case s.NeedToRespond(me):
			fmt.Println("-> incoming shot: 'battleship watch' will answer it automatically")
		}
	case game.PhaseFinished:
		fmt.Printf("winner:  %s\n", s.Winner)
	}
	fmt.Printf("shots:   p1 %d, p2 %d\n", s.ShotsFiredP1, s.ShotsFiredP2)
	fmt.Printf("hits:    on p1 %d, on p2 %d\n", s.HitsOnP1, s.HitsOnP2)
	if err := a.eng.LastError(); err != nil {
		fmt.Printf("note:    %v\n", err)
	}
	return nil
}

func seatNote(addr, me string, committed bool) string {
	if addr == "" {
		return " (open)"
	}
	note := ""
	if addr == me {
		note += " (you)"
	}
	if committed {
		note += " [committed]"
	}
	return note
}
