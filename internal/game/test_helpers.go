package game

import (
	"context"
	"strings"
	"sync"
)

// ScriptedDecider answers prompts from a fixed list of answers. Once the
// script runs out it stays, picks the first target and declines second
// chances. Every prompt it receives is recorded.
type ScriptedDecider struct {
	mu      sync.Mutex
	answers []string
	prompts []Prompt
}

// Script creates a ScriptedDecider
func Script(answers ...string) *ScriptedDecider {
	return &ScriptedDecider{answers: answers}
}

// Decide returns the next scripted answer
func (s *ScriptedDecider) Decide(_ context.Context, p Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, p)
	if len(s.answers) > 0 {
		answer := s.answers[0]
		s.answers = s.answers[1:]
		return answer, nil
	}

	switch p.Kind {
	case ChooseTarget:
		return "1", nil
	case UseSecondChance:
		return "n", nil
	default:
		return "s", nil
	}
}

// Prompts returns the prompts received so far
func (s *ScriptedDecider) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Prompt(nil), s.prompts...)
}

// Remaining returns the number of unused scripted answers
func (s *ScriptedDecider) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// AnnouncementLog records announcements for assertions
type AnnouncementLog struct {
	mu    sync.Mutex
	lines []string
}

// Announce records text
func (l *AnnouncementLog) Announce(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, text)
}

// Lines returns everything announced so far
func (l *AnnouncementLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Contains reports whether any announcement contains substr
func (l *AnnouncementLog) Contains(substr string) bool {
	for _, line := range l.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
