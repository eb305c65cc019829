package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/flip7/internal/game"
)

var (
	// ErrDecisionTimeout is returned when a seat holder does not answer in time
	ErrDecisionTimeout = errors.New("decision timeout")

	// ErrSeatTaken is returned when joining a seat that already has a connection
	ErrSeatTaken = errors.New("seat already taken")

	// ErrSeatEmpty is returned when a prompt is sent to a seat with nobody in it
	ErrSeatEmpty = errors.New("seat is empty")

	// ErrUnexpectedAnswer is returned for answers that match no outstanding question
	ErrUnexpectedAnswer = errors.New("no matching question outstanding")
)

// sender delivers messages to whoever holds a seat
type sender interface {
	SendMessage(msg *Message) error
	Done() <-chan struct{}
}

type pendingAsk struct {
	id     string
	answer chan string
}

// Seat is a game.Decider that forwards prompts to a remote player and
// waits for the answer, up to a timeout measured on the seat's clock.
type Seat struct {
	name    string
	timeout time.Duration
	clock   quartz.Clock
	logger  *log.Logger

	mu      sync.Mutex
	conn    sender
	pending *pendingAsk
	nextID  int
}

var _ game.Decider = (*Seat)(nil)

// NewSeat creates an empty seat
func NewSeat(name string, timeout time.Duration, clock quartz.Clock, logger *log.Logger) *Seat {
	return &Seat{
		name:    name,
		timeout: timeout,
		clock:   clock,
		logger:  logger.WithPrefix("seat").With("player", name),
	}
}

// Name returns the seat's player name
func (s *Seat) Name() string {
	return s.name
}

// Occupied reports whether someone holds the seat
func (s *Seat) Occupied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *Seat) attach(conn sender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("%w: %s", ErrSeatTaken, s.name)
	}
	s.conn = conn
	return nil
}

// detach frees the seat if conn still holds it
func (s *Seat) detach(conn sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == conn {
		s.conn = nil
	}
}

// Decide sends the prompt and blocks until the answer, the timeout, the
// holder disconnecting or ctx ending.
func (s *Seat) Decide(ctx context.Context, p game.Prompt) (string, error) {
	s.mu.Lock()
	conn := s.conn
	if conn == nil {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrSeatEmpty, s.name)
	}
	s.nextID++
	ask := &pendingAsk{id: strconv.Itoa(s.nextID), answer: make(chan string, 1)}
	s.pending = ask
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.pending == ask {
			s.pending = nil
		}
		s.mu.Unlock()
	}()

	timeoutFired := make(chan struct{})
	timer := s.clock.AfterFunc(s.timeout, func() {
		close(timeoutFired)
	})
	defer timer.Stop()

	msg, err := NewMessage(MessageTypeAsk, AskDataFromPrompt(ask.id, p, s.timeout))
	if err != nil {
		return "", fmt.Errorf("failed to create ask message: %w", err)
	}
	if err := conn.SendMessage(msg); err != nil {
		return "", fmt.Errorf("failed to send ask: %w", err)
	}
	s.logger.Debug("Requested decision", "id", ask.id, "kind", p.Kind)

	select {
	case answer := <-ask.answer:
		s.logger.Debug("Received decision", "id", ask.id, "answer", answer)
		return answer, nil

	case <-timeoutFired:
		s.logger.Warn("Decision timeout", "id", ask.id, "timeout", s.timeout)
		if msg, err := NewMessage(MessageTypeTimeout, TimeoutData{ID: ask.id, Timeout: int(s.timeout / time.Second)}); err == nil {
			_ = conn.SendMessage(msg)
		}
		return "", ErrDecisionTimeout

	case <-conn.Done():
		return "", fmt.Errorf("%w: %s disconnected", ErrSeatEmpty, s.name)

	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// HandleAnswer delivers an answer to the outstanding question
func (s *Seat) HandleAnswer(data AnswerData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.id != data.ID {
		return fmt.Errorf("%w (id %q)", ErrUnexpectedAnswer, data.ID)
	}

	select {
	case s.pending.answer <- data.Answer:
		s.pending = nil
		return nil
	default:
		return fmt.Errorf("%w (id %q)", ErrUnexpectedAnswer, data.ID)
	}
}
