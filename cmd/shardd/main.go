// Package main provides the shard server binary: it wires the content
// table, terrain, timer queue, world and websocket transport together
// and runs them under the shared lifecycle.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/config"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/dice"
	"github.com/shardmud/shard/internal/game/schedule"
	"github.com/shardmud/shard/internal/game/terrain"
	"github.com/shardmud/shard/internal/game/world"
	"github.com/shardmud/shard/internal/gameserver"
	"github.com/shardmud/shard/internal/observability"
	"github.com/shardmud/shard/internal/server"
	"github.com/shardmud/shard/internal/transport"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting shard server",
		zap.String("listen_addr", cfg.Server.Addr()),
		zap.String("save_path", cfg.World.SavePath),
	)

	// Content definitions: built-ins plus any YAML overlays.
	defs := content.NewTable()
	if cfg.World.ContentDir != "" {
		contentStart := time.Now()
		if err := defs.LoadDir(cfg.World.ContentDir); err != nil {
			logger.Fatal("loading content definitions", zap.Error(err))
		}
		logger.Info("content definitions loaded",
			zap.String("dir", cfg.World.ContentDir),
			zap.Duration("elapsed", time.Since(contentStart)),
		)
	}

	var terra terrain.Map
	if cfg.World.MapPath != "" {
		grid, err := terrain.LoadGridMap(cfg.World.MapPath)
		if err != nil {
			logger.Fatal("loading terrain map", zap.Error(err))
		}
		terra = grid
		w, h := grid.Bounds()
		logger.Info("terrain map loaded",
			zap.String("path", cfg.World.MapPath),
			zap.Int("width", w),
			zap.Int("height", h),
		)
	} else {
		terra = terrain.NewFlatMap(cfg.World.MapWidth, cfg.World.MapHeight)
	}

	timers := schedule.NewQueue(logger)
	roller := dice.NewRoller(dice.NewCryptoSource())

	w := world.New(world.Options{
		Logger:                 logger,
		Defs:                   defs,
		Timers:                 timers,
		Roller:                 roller,
		Terrain:                terra,
		SavePath:               cfg.World.SavePath,
		ScriptInstructionLimit: cfg.World.ScriptInstructionLimit,
	})

	if cfg.World.ScriptDir != "" {
		scriptStart := time.Now()
		if err := w.Scripts().LoadDir(cfg.World.ScriptDir); err != nil {
			logger.Fatal("loading behavior scripts", zap.Error(err))
		}
		logger.Info("behavior scripts loaded",
			zap.String("dir", cfg.World.ScriptDir),
			zap.Duration("elapsed", time.Since(scriptStart)),
		)
	}

	if _, err := os.Stat(cfg.World.SavePath); err == nil {
		loadStart := time.Now()
		if err := w.Load(); err != nil {
			logger.Fatal("loading world save", zap.Error(err))
		}
		logger.Info("world save loaded",
			zap.String("path", cfg.World.SavePath),
			zap.Duration("elapsed", time.Since(loadStart)),
		)
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Fatal("checking world save", zap.Error(err))
	}

	w.Init()

	handler := gameserver.NewPacketHandler(w, logger)
	ws := transport.NewServer(cfg.Server, handler, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("timers", timers)
	lifecycle.Add("world", &server.FuncService{
		StartFn: func() error { return nil },
		StopFn: func() {
			if err := w.Save(); err != nil {
				logger.Error("final world save failed", zap.Error(err))
			}
			w.Scripts().Close()
		},
	})
	lifecycle.Add("transport", ws)

	logger.Info("shard server ready",
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}
