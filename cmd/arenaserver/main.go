// Package main provides the arena server binary: the websocket combat
// backend serving rooms, sessions, and NPC opponents.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/room"
	"github.com/cory-johannsen/skirmish/internal/gameserver"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and environment only")
	flag.Parse()

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefaults()
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting arena server", zap.String("addr", cfg.Server.Addr()))

	// Action catalog
	actions := catalog.Default()
	if cfg.Content.ActionsPath != "" {
		actions, err = catalog.LoadFromFile(cfg.Content.ActionsPath)
		if err != nil {
			logger.Fatal("loading action catalog", zap.Error(err))
		}
		logger.Info("loaded action catalog",
			zap.String("path", cfg.Content.ActionsPath),
			zap.Int("actions", len(actions.Actions())))
	}

	// NPC templates
	var templates []*npc.Template
	if cfg.Content.NPCsDir != "" {
		templates, err = npc.LoadTemplates(cfg.Content.NPCsDir)
		if err != nil {
			logger.Fatal("loading npc templates", zap.Error(err))
		}
		logger.Info("loaded npc templates", zap.Int("count", len(templates)))
	}
	npcMgr, err := npc.NewManager(templates...)
	if err != nil {
		logger.Fatal("creating npc manager", zap.Error(err))
	}

	// NPC behavior policy
	var policy npc.Policy = npc.WeakestTargetPolicy{}
	if cfg.Content.NPCPolicyScript != "" {
		policy, err = npc.LoadLuaPolicy(cfg.Content.NPCPolicyScript, 0, npc.WeakestTargetPolicy{})
		if err != nil {
			logger.Fatal("loading npc policy script", zap.Error(err))
		}
		logger.Info("loaded npc policy script", zap.String("path", cfg.Content.NPCPolicyScript))
	}

	registry := room.NewRegistry()
	gateway := gameserver.NewGateway(logger, cfg.Server)
	service := gameserver.NewCombatService(logger, cfg.Combat, actions, npcMgr, registry, gateway, policy)
	gateway.AttachService(service)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("websocket-gateway", gateway)

	logger.Info("arena server initialized", zap.Duration("startup", time.Since(start)))
	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Error("lifecycle error", zap.Error(err))
		os.Exit(1)
	}
}
