package game

import (
	"context"
	"slices"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/hand"
)

// PromptKind identifies what a prompt is asking for
type PromptKind int

const (
	// HitOrStay expects "h", "s" or the advice token "a"
	HitOrStay PromptKind = iota
	// ChooseTarget expects a 1-based index into View.Targets
	ChooseTarget
	// UseSecondChance expects "y" to spend a held second chance
	UseSecondChance
)

// String returns the prompt kind name
func (k PromptKind) String() string {
	switch k {
	case HitOrStay:
		return "hit_or_stay"
	case ChooseTarget:
		return "choose_target"
	case UseSecondChance:
		return "use_second_chance"
	default:
		return "unknown"
	}
}

// ParsePromptKind is the inverse of PromptKind.String
func ParsePromptKind(s string) (PromptKind, bool) {
	for _, k := range []PromptKind{HitOrStay, ChooseTarget, UseSecondChance} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// PlayerView is the read-only state of one player
type PlayerView struct {
	Name  string
	Round hand.State
	Total int
}

// View is an immutable snapshot of the table for decision making
type View struct {
	Round     int
	Dealer    int
	Players   []PlayerView
	Acting    int         // index into Players of the player being asked
	Action    deck.Action // the action being targeted, for ChooseTarget
	Targets   []string    // eligible target names, for ChooseTarget
	Remaining deck.Census // draw pile contents
}

// Self returns the view of the acting player
func (v View) Self() PlayerView {
	return v.Players[v.Acting]
}

// Player returns the view of the named player
func (v View) Player(name string) (PlayerView, bool) {
	i := slices.IndexFunc(v.Players, func(p PlayerView) bool { return p.Name == name })
	if i < 0 {
		return PlayerView{}, false
	}
	return v.Players[i], true
}

// Prompt is a single question for one named player
type Prompt struct {
	Kind   PromptKind
	Player string
	Text   string
	View   View
}

// Decider answers prompts for a player. Implementations may block; an error
// means the decider could not produce an answer and the engine falls back to
// the default for the prompt kind.
type Decider interface {
	Decide(ctx context.Context, p Prompt) (string, error)
}

// DeciderFunc adapts a function to the Decider interface
type DeciderFunc func(ctx context.Context, p Prompt) (string, error)

// Decide calls f
func (f DeciderFunc) Decide(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// Announcer receives human-readable narration of the game. Announce must not
// block game progress.
type Announcer interface {
	Announce(text string)
}

// AnnouncerFunc adapts a function to the Announcer interface
type AnnouncerFunc func(text string)

// Announce calls f
func (f AnnouncerFunc) Announce(text string) {
	f(text)
}

// Announcers fans an announcement out to several sinks
type Announcers []Announcer

// Announce forwards text to every sink
func (as Announcers) Announce(text string) {
	for _, a := range as {
		if a != nil {
			a.Announce(text)
		}
	}
}

type discardAnnouncer struct{}

func (discardAnnouncer) Announce(string) {}

// Discard is an Announcer that drops everything
var Discard Announcer = discardAnnouncer{}
