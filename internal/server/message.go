package server

import (
	"encoding/json"
	"time"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/hand"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinData struct {
	Name string `json:"name"`
}

type AnswerData struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

// Server → Client Messages

type JoinedData struct {
	Name    string   `json:"name"`
	Seat    int      `json:"seat"`
	Players []string `json:"players"`
}

// AskData is a prompt for the seat holder. Exactly one is outstanding per
// seat; the answer must echo ID.
type AskData struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Text      string         `json:"text"`
	Round     int            `json:"round"`
	Dealer    int            `json:"dealer"`
	Acting    int            `json:"acting"`
	Action    string         `json:"action,omitempty"`
	Targets   []string       `json:"targets,omitempty"`
	Players   []PlayerInfo   `json:"players"`
	Remaining map[string]int `json:"remaining"`
	Timeout   int            `json:"timeoutSeconds"`
}

type PlayerInfo struct {
	Name         string `json:"name"`
	Numbers      []int  `json:"numbers"`
	Doubler      bool   `json:"doubler,omitempty"`
	Bonus        int    `json:"bonus,omitempty"`
	SecondChance bool   `json:"secondChance,omitempty"`
	Active       bool   `json:"active"`
	Eliminated   bool   `json:"eliminated,omitempty"`
	Total        int    `json:"total"`
}

type LogData struct {
	Text string `json:"text"`
}

type TimeoutData struct {
	ID      string `json:"id"`
	Timeout int    `json:"timeoutSeconds"`
}

type GameOverData struct {
	Winners   []string        `json:"winners"`
	Standings []game.Standing `json:"standings"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AskDataFromPrompt converts an engine prompt into its wire form
func AskDataFromPrompt(id string, p game.Prompt, timeout time.Duration) AskData {
	v := p.View
	a := AskData{
		ID:        id,
		Kind:      p.Kind.String(),
		Text:      p.Text,
		Round:     v.Round,
		Dealer:    v.Dealer,
		Acting:    v.Acting,
		Targets:   v.Targets,
		Players:   make([]PlayerInfo, len(v.Players)),
		Remaining: make(map[string]int, len(v.Remaining)),
		Timeout:   int(timeout / time.Second),
	}
	if p.Kind == game.ChooseTarget {
		a.Action = v.Action.String()
	}
	for i, pv := range v.Players {
		a.Players[i] = PlayerInfo{
			Name:         pv.Name,
			Numbers:      pv.Round.Numbers.Values(),
			Doubler:      pv.Round.Doubler,
			Bonus:        pv.Round.Bonus,
			SecondChance: pv.Round.SecondChance,
			Active:       pv.Round.Active,
			Eliminated:   pv.Round.Eliminated,
			Total:        pv.Total,
		}
	}
	for c, n := range v.Remaining {
		if n > 0 {
			a.Remaining[c.String()] = n
		}
	}
	return a
}

// Prompt rebuilds the engine prompt on the client side. Unknown cards in
// the census are skipped.
func (a AskData) Prompt(player string) game.Prompt {
	kind, _ := game.ParsePromptKind(a.Kind)
	v := game.View{
		Round:     a.Round,
		Dealer:    a.Dealer,
		Acting:    a.Acting,
		Targets:   a.Targets,
		Players:   make([]game.PlayerView, len(a.Players)),
		Remaining: make(deck.Census, len(a.Remaining)),
	}
	if c, err := deck.ParseCard(a.Action); err == nil {
		if action, ok := c.(deck.Action); ok {
			v.Action = action
		}
	}
	for i, p := range a.Players {
		v.Players[i] = game.PlayerView{
			Name: p.Name,
			Round: hand.State{
				Numbers:      hand.SetOf(p.Numbers...),
				Doubler:      p.Doubler,
				Bonus:        p.Bonus,
				SecondChance: p.SecondChance,
				Active:       p.Active,
				Eliminated:   p.Eliminated,
			},
			Total: p.Total,
		}
	}
	for s, n := range a.Remaining {
		if c, err := deck.ParseCard(s); err == nil {
			v.Remaining[c] = n
		}
	}
	return game.Prompt{Kind: kind, Player: player, Text: a.Text, View: v}
}
