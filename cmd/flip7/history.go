package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/lox/flip7/internal/console"
	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/gameid"
)

// HistoryCmd prints a game saved with --history
type HistoryCmd struct {
	File   string `kong:"arg,type='existingfile',help='Saved game file'"`
	Rounds bool   `kong:"short='r',help='Show every round'"`
}

func (c *HistoryCmd) Run(out io.Writer) error {
	res, err := game.ReadHistory(c.File)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("Game %s, first to %d", res.ID, res.TargetScore)
	if started, err := gameid.Timestamp(res.ID); err == nil {
		header += ", started " + started.Format("2006-01-02 15:04")
	}
	_, _ = fmt.Fprintln(out, console.HeaderStyle.Render(" "+header+" "))

	if c.Rounds {
		for _, r := range res.Rounds {
			_, _ = fmt.Fprintf(out, "\nRound %d, dealt by %s%s\n", r.Number, r.Dealer, roundEnding(r))
			for _, s := range r.Scores {
				_, _ = fmt.Fprintf(out, "  %-12s %-28s %4d  %4d\n", s.Player, scoreLine(s), s.Score, s.Total)
			}
		}
		_, _ = fmt.Fprintln(out)
	}

	for i, s := range res.Standings {
		marker := " "
		if res.IsWinner(s.Player) {
			marker = "*"
		}
		_, _ = fmt.Fprintf(out, "%s %d. %-12s %4d\n", marker, i+1, s.Player, s.Total)
	}
	_, _ = fmt.Fprintf(out, "%d rounds played\n", len(res.Rounds))
	return nil
}

func roundEnding(r game.RoundResult) string {
	if r.EndedBySeven {
		return ", Flip 7 by " + r.Trigger
	}
	return ""
}

func scoreLine(s game.RoundScore) string {
	parts := make([]string, 0, len(s.Numbers)+2)
	for _, n := range s.Numbers {
		parts = append(parts, fmt.Sprint(n))
	}
	if s.Doubler {
		parts = append(parts, "x2")
	}
	if s.Bonus > 0 {
		parts = append(parts, fmt.Sprintf("+%d", s.Bonus))
	}
	line := "[" + strings.Join(parts, " ") + "]"
	if s.Busted {
		line += " out"
	}
	return line
}
