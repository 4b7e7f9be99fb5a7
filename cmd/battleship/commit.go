package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gabrululu/zk-battleship/internal/board"
)

var flagCells string

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Place ships and publish the board commitment",
	Long: `Place the three ship cells and publish their hash commitment to the
contract. The board and its salt are saved locally; they are needed to
answer incoming shots, so do not delete the secret database mid-game.

Placement:
  battleship commit                      random placement
  battleship commit --cells 0,0;2,3;4,4  explicit cells (x,y pairs)`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVar(&flagCells, "cells", "", "Semicolon-separated x,y ship cells")
}

func runCommit(cmd *cobra.Command, args []string) error {
	b, err := buildBoard(flagCells)
	if err != nil {
		return err
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.eng.Commit(context.Background(), b); err != nil {
		return friendly(err)
	}
	fmt.Println("board committed:")
	fmt.Print(drawBoard(b))
	return nil
}

func buildBoard(cells string) (board.Board, error) {
	if cells == "" {
		return randomBoard(), nil
	}
	b := board.New()
	for _, pair := range strings.Split(cells, ";") {
		xy := strings.Split(strings.TrimSpace(pair), ",")
		if len(xy) != 2 {
			return b, fmt.Errorf("bad cell %q, want x,y", pair)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xy[0]))
		if err != nil {
			return b, fmt.Errorf("bad cell %q: %w", pair, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(xy[1]))
		if err != nil {
			return b, fmt.Errorf("bad cell %q: %w", pair, err)
		}
		if !board.InBounds(x, y) {
			return b, fmt.Errorf("cell %q outside the %dx%d board", pair, board.Size, board.Size)
		}
		if b.Cell(x, y) {
			return b, fmt.Errorf("cell %q listed twice", pair)
		}
		b = b.Toggle(x, y)
	}
	if !b.Complete() {
		return b, fmt.Errorf("need exactly %d cells, got %d", board.TotalShips, b.ShipCount())
	}
	return b, nil
}

func randomBoard() board.Board {
	b := board.New()
	for !b.Complete() {
		b = b.Toggle(rand.Intn(board.Size), rand.Intn(board.Size))
	}
	return b
}

func drawBoard(b board.Board) string {
	var sb strings.Builder
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			if b.Cell(x, y) {
				sb.WriteString("# ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
