package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/hand"
)

// RenderView draws the table as seen by the acting player
func RenderView(v game.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round %d, %d cards in the draw pile\n", v.Round, v.Remaining.Total())
	for i, p := range v.Players {
		marker := "  "
		if i == v.Acting {
			marker = PromptStyle.Render("> ")
		}
		if i == v.Dealer {
			marker += "D "
		} else {
			marker += "  "
		}
		fmt.Fprintf(&b, "%s%-12s %4d  %s\n", marker, p.Name, p.Total, RenderHand(p.Round))
	}
	return b.String()
}

// RenderHand draws one player's round state
func RenderHand(st hand.State) string {
	parts := make([]string, 0, st.Numbers.Len()+3)
	for _, v := range st.Numbers.Values() {
		parts = append(parts, NumberStyle.Render(strconv.Itoa(v)))
	}
	if st.Doubler {
		parts = append(parts, ModifierStyle.Render(deck.DoubleMod.String()))
	}
	if st.Bonus > 0 {
		parts = append(parts, ModifierStyle.Render("+"+strconv.Itoa(st.Bonus)))
	}
	if st.SecondChance {
		parts = append(parts, ActionStyle.Render(deck.SecondChance.String()))
	}

	status := ""
	switch {
	case st.Eliminated:
		status = ErrorStyle.Render(" out")
	case !st.Active:
		status = InfoStyle.Render(fmt.Sprintf(" stayed on %d", st.Score(false)))
	}
	return "[" + strings.Join(parts, " ") + "]" + status
}
