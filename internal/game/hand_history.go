package game

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/lox/flip7/internal/fileutil"
)

// RoundScore is one player's line in a round result
type RoundScore struct {
	Player  string `json:"player"`
	Numbers []int  `json:"numbers"`
	Doubler bool   `json:"doubler,omitempty"`
	Bonus   int    `json:"bonus,omitempty"`
	Busted  bool   `json:"busted,omitempty"`
	Seven   bool   `json:"seven,omitempty"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
}

// RoundResult records how a round ended
type RoundResult struct {
	Number       int          `json:"number"`
	Dealer       string       `json:"dealer"`
	EndedBySeven bool         `json:"ended_by_seven"`
	Trigger      string       `json:"trigger,omitempty"`
	Scores       []RoundScore `json:"scores"`
}

// Standing is a player's final total
type Standing struct {
	Player string `json:"player"`
	Total  int    `json:"total"`
}

// Result is the record of a finished game. Every player tied on the highest
// total is a winner.
type Result struct {
	ID          string        `json:"id,omitempty"`
	TargetScore int           `json:"target_score"`
	Rounds      []RoundResult `json:"rounds"`
	Standings   []Standing    `json:"standings"`
	Winners     []string      `json:"winners"`
}

func (e *Engine) result() *Result {
	standings := make([]Standing, len(e.players))
	for i, p := range e.players {
		standings[i] = Standing{Player: p.Name, Total: p.Total}
	}
	slices.SortStableFunc(standings, func(a, b Standing) int {
		return b.Total - a.Total
	})

	var winners []string
	for _, s := range standings {
		if s.Total == standings[0].Total {
			winners = append(winners, s.Player)
		}
	}

	return &Result{
		ID:          e.id,
		TargetScore: e.rules.TargetScore,
		Rounds:      slices.Clone(e.history),
		Standings:   standings,
		Winners:     winners,
	}
}

// IsWinner reports whether name shares the win
func (r *Result) IsWinner(name string) bool {
	return slices.Contains(r.Winners, name)
}

func (r *Result) winnerText() string {
	if len(r.Winners) == 0 {
		return "No winner"
	}
	if len(r.Winners) == 1 {
		return fmt.Sprintf("%s wins with %d", r.Winners[0], r.Standings[0].Total)
	}
	return fmt.Sprintf("%s share the win with %d", strings.Join(r.Winners, " and "), r.Standings[0].Total)
}

// HistoryWriter persists finished games
type HistoryWriter interface {
	WriteHistory(r *Result) error
}

// FileHistoryWriter writes a game result as indented JSON
type FileHistoryWriter struct {
	path string
}

// NewFileHistoryWriter creates a writer for path
func NewFileHistoryWriter(path string) *FileHistoryWriter {
	return &FileHistoryWriter{path: path}
}

// WriteHistory atomically replaces the file with the result
func (w *FileHistoryWriter) WriteHistory(r *Result) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode game history: %w", err)
	}
	if err := fileutil.WriteFileAtomic(w.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write game history: %w", err)
	}
	return nil
}

// NoOpHistoryWriter drops results
type NoOpHistoryWriter struct{}

// WriteHistory does nothing
func (NoOpHistoryWriter) WriteHistory(*Result) error {
	return nil
}

// ReadHistory loads a result written by FileHistoryWriter
func ReadHistory(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game history: %w", err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode game history: %w", err)
	}
	return &r, nil
}
