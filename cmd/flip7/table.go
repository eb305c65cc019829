package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/flip7/internal/bot"
	"github.com/lox/flip7/internal/config"
	"github.com/lox/flip7/internal/console"
	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/gameid"
	"github.com/lox/flip7/internal/randutil"
	"github.com/lox/flip7/internal/server"
)

// tableOptions control how a configured game is hosted
type tableOptions struct {
	Seed       int64
	HistoryDir string
	Addr       string
	// Headless seats local players remotely and prints no table
	Headless bool
}

// runTable plays one game from cfg. Local seats read the terminal, bot seats
// are computer players and remote seats are served over websocket.
func runTable(ctx context.Context, cfg *config.Config, opts tableOptions, logger *log.Logger) (*game.Result, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Game.Seed
	}
	seed = randutil.Seed(seed)
	id := gameid.Generate()
	logger.Info("Starting game", "id", id, "seed", seed, "players", cfg.Names(), "target", cfg.Game.TargetScore)

	deciders := make(map[string]game.Decider, len(cfg.Players))
	var announcers game.Announcers
	var remote []string
	var local *console.Decider

	for seat, p := range cfg.Players {
		kind := p.Kind
		if opts.Headless && kind == config.KindLocal {
			kind = config.KindRemote
		}

		switch kind {
		case config.KindLocal:
			if local == nil {
				local = console.NewDecider(os.Stdin, os.Stdout)
			}
			deciders[p.Name] = local
		case config.KindBot:
			b, err := bot.New(p.Strategy, randutil.New(randutil.Derive(seed, seat+1)), logger)
			if err != nil {
				return nil, fmt.Errorf("player %s: %w", p.Name, err)
			}
			deciders[p.Name] = b
		case config.KindRemote:
			remote = append(remote, p.Name)
		}
	}

	if !opts.Headless {
		announcers = append(announcers, console.NewAnnouncer(os.Stdout))
	} else {
		announcers = append(announcers, game.AnnouncerFunc(func(text string) {
			logger.Info(text)
		}))
	}

	g, gctx := errgroup.WithContext(ctx)
	var srv *server.Server
	stopServing := func() {}
	if len(remote) > 0 {
		addr := opts.Addr
		if addr == "" {
			addr = cfg.Server.Address
		}
		srv = server.NewServer(addr, remote, cfg.DecisionTimeout(), quartz.NewReal(), logger)
		for name, d := range srv.Deciders() {
			deciders[name] = d
		}
		announcers = append(announcers, srv)

		serveCtx, cancel := context.WithCancel(gctx)
		stopServing = cancel
		g.Go(func() error {
			return srv.ListenAndServe(serveCtx)
		})

		if err := srv.WaitForSeats(gctx); err != nil {
			stopServing()
			return nil, errors.Join(err, g.Wait())
		}
	}
	defer func() {
		stopServing()
		if err := g.Wait(); err != nil {
			logger.Error("Server stopped with error", "error", err)
		}
	}()

	engine, err := game.NewEngine(randutil.New(seed), cfg.Names(), deciders,
		game.WithRules(cfg.Rules()),
		game.WithCarrier(cfg.Carrier()),
		game.WithAnnouncer(announcers),
		game.WithLogger(logger),
		game.WithGameID(id))
	if err != nil {
		return nil, err
	}

	res, err := engine.Play(gctx)
	if err != nil {
		return res, err
	}

	if srv != nil {
		srv.Finish(res)
	}

	if opts.HistoryDir != "" {
		path := filepath.Join(opts.HistoryDir, id+".json")
		if err := game.NewFileHistoryWriter(path).WriteHistory(res); err != nil {
			logger.Error("Failed to write game history", "error", err, "path", path)
		} else {
			logger.Info("Game history saved", "path", path)
		}
	}
	return res, nil
}
