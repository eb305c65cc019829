// Package client joins a remote game as one seat and answers its prompts.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/server" // Reuse message types
)

// ErrJoinRejected is returned when the server refuses the seat
var ErrJoinRejected = errors.New("join rejected")

// Client connects to a server, claims a seat and forwards every question to
// a local decider
type Client struct {
	serverURL string
	name      string
	decider   game.Decider
	announcer game.Announcer
	logger    *log.Logger

	writeMu sync.Mutex
	conn    *websocket.Conn

	askMu     sync.Mutex
	askID     string
	askCancel context.CancelFunc
}

// New creates a client for seat name
func New(serverURL, name string, decider game.Decider, announcer game.Announcer, logger *log.Logger) *Client {
	return &Client{
		serverURL: serverURL,
		name:      name,
		decider:   decider,
		announcer: announcer,
		logger:    logger.WithPrefix("client").With("player", name),
	}
}

// wsURL converts http/https to ws/wss and adds the WebSocket path
func wsURL(serverURL string) (string, error) {
	if !strings.Contains(serverURL, "://") {
		serverURL = "ws://" + serverURL
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"
	return u.String(), nil
}

// Run plays until the game ends, the connection drops or ctx is cancelled
func (c *Client) Run(ctx context.Context) error {
	u, err := wsURL(c.serverURL)
	if err != nil {
		return err
	}

	c.logger.Info("Connecting to server", "url", u)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	if err := c.send(server.MessageTypeJoin, server.JoinData{Name: c.name}); err != nil {
		return err
	}

	joined := false
	for {
		var msg server.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("connection lost: %w", err)
		}

		switch msg.Type {
		case server.MessageTypeJoined:
			var data server.JoinedData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return fmt.Errorf("invalid joined message: %w", err)
			}
			joined = true
			c.announcer.Announce(fmt.Sprintf("Seated as %s (seat %d of %d), waiting for the game", data.Name, data.Seat+1, len(data.Players)))

		case server.MessageTypeAsk:
			var data server.AskData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.logger.Error("Invalid ask message", "error", err)
				continue
			}
			c.startAsk(ctx, data)

		case server.MessageTypeTimeout:
			var data server.TimeoutData
			if err := json.Unmarshal(msg.Data, &data); err == nil {
				c.cancelAsk(data.ID)
				c.announcer.Announce(fmt.Sprintf("Too slow, no answer within %ds", data.Timeout))
			}

		case server.MessageTypeLog:
			var data server.LogData
			if err := json.Unmarshal(msg.Data, &data); err == nil {
				c.announcer.Announce(data.Text)
			}

		case server.MessageTypeGameOver:
			var data server.GameOverData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return fmt.Errorf("invalid game over message: %w", err)
			}
			for _, s := range data.Standings {
				c.announcer.Announce(fmt.Sprintf("%-12s %d", s.Player, s.Total))
			}
			return nil

		case server.MessageTypeError:
			var data server.ErrorData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			if !joined {
				return fmt.Errorf("%w: %s", ErrJoinRejected, data.Message)
			}
			c.logger.Warn("Server error", "code", data.Code, "message", data.Message)

		default:
			c.logger.Debug("Ignoring message", "type", msg.Type)
		}
	}
}

// startAsk answers a question in the background so narration keeps
// flowing while the decider waits for input
func (c *Client) startAsk(ctx context.Context, data server.AskData) {
	var (
		askCtx context.Context
		cancel context.CancelFunc
	)
	if data.Timeout > 0 {
		askCtx, cancel = context.WithTimeout(ctx, time.Duration(data.Timeout)*time.Second)
	} else {
		askCtx, cancel = context.WithCancel(ctx)
	}

	c.askMu.Lock()
	if c.askCancel != nil {
		c.askCancel()
	}
	c.askID, c.askCancel = data.ID, cancel
	c.askMu.Unlock()

	go func() {
		defer cancel()
		answer, err := c.decider.Decide(askCtx, data.Prompt(c.name))
		if err != nil {
			c.logger.Debug("No answer", "id", data.ID, "error", err)
			return
		}
		if err := c.send(server.MessageTypeAnswer, server.AnswerData{ID: data.ID, Answer: answer}); err != nil {
			c.logger.Error("Failed to send answer", "error", err)
		}
	}()
}

func (c *Client) cancelAsk(id string) {
	c.askMu.Lock()
	defer c.askMu.Unlock()
	if c.askID == id && c.askCancel != nil {
		c.askCancel()
		c.askCancel = nil
	}
}

func (c *Client) send(typ server.MessageType, data any) error {
	msg, err := server.NewMessage(typ, data)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", typ, err)
	}
	return nil
}
