package main

import (
	"io"
	"os"
	"strings"

	"github.com/lox/flip7/cmd/flip7/shared"
	"github.com/lox/flip7/internal/client"
	"github.com/lox/flip7/internal/console"
)

// JoinCmd connects to a hosted game as a remote seat
type JoinCmd struct {
	Server string `kong:"default='ws://localhost:8080/ws',help='WebSocket server URL'"`
	Name   string `kong:"arg,required,help='Seat name to claim'"`
}

func (c *JoinCmd) Run(globals *Globals, out io.Writer) error {
	logger := shared.SetupLogger(os.Stderr, globals.Debug)
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	cl := client.New(
		strings.TrimSpace(c.Server),
		strings.TrimSpace(c.Name),
		console.NewDecider(os.Stdin, out),
		console.NewAnnouncer(out),
		logger)
	return cl.Run(ctx)
}
