package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lox/flip7/internal/game"
)

// Announcer prints game narration, one styled line per announcement
type Announcer struct {
	mu sync.Mutex
	w  io.Writer
}

var _ game.Announcer = (*Announcer)(nil)

// NewAnnouncer creates an announcer writing to w
func NewAnnouncer(w io.Writer) *Announcer {
	return &Announcer{w: w}
}

// Announce writes text
func (a *Announcer) Announce(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, _ = fmt.Fprintln(a.w, styleLine(text))
}

func styleLine(text string) string {
	switch {
	case strings.HasPrefix(text, "Round ") && strings.Contains(text, "begins"):
		return "\n" + HeaderStyle.Render(" "+text+" ")
	case strings.HasPrefix(text, "Flip 7!"), strings.HasPrefix(text, "Game over"):
		return SuccessStyle.Render(text)
	case strings.Contains(text, "busts"), strings.Contains(text, "freezes"):
		return ErrorStyle.Render(text)
	case strings.HasPrefix(text, "Invalid"), strings.HasPrefix(text, "No answer"), strings.Contains(text, "limit"):
		return WarningStyle.Render(text)
	case strings.HasPrefix(text, "Advice"):
		return InfoStyle.Render(text)
	default:
		return text
	}
}
