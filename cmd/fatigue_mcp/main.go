// Package main runs the fatigue MCP server over stdio (for local Cursor use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP,
// so you can use either: stdio (this cmd) or the backend URL (no extra deploy).
package main

import (
	"context"
	"flag"
	"log"

	"github.com/evolvefit/fatiguecore/internal/config"
	"github.com/evolvefit/fatiguecore/internal/db"
	"github.com/evolvefit/fatiguecore/internal/fatigue"
	fatiguemcp "github.com/evolvefit/fatiguecore/internal/fatigue/mcp"
	"github.com/evolvefit/fatiguecore/internal/fatigue/snapshots"
	"github.com/evolvefit/fatiguecore/internal/fatigue/tracker"
	"github.com/evolvefit/fatiguecore/internal/planner"
	"github.com/evolvefit/fatiguecore/internal/telemetry/metrics"
	"github.com/evolvefit/fatiguecore/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	fatigueConfig := fatigue.DefaultConfig()
	if cfg.FatiguePeripheralDecay > 0 {
		fatigueConfig.PeripheralDecayRate = cfg.FatiguePeripheralDecay
	}
	if cfg.FatigueCentralDecay > 0 {
		fatigueConfig.CentralDecayRate = cfg.FatigueCentralDecay
	}

	targetThreshold := cfg.FatigueTargetThreshold
	if targetThreshold <= 0 {
		targetThreshold = 0.3
	}
	planDays := cfg.PlannerDefaultDays
	if planDays <= 0 {
		planDays = 7
	}

	// the stdio server runs outside the main backend, metrics go nowhere
	metricsManager := metrics.NewTestManager()

	snapshotsRepo := snapshots.NewRepo(dbPool)
	workoutsRepo := workouts.NewRepo(dbPool)
	trackerService := tracker.NewService(fatigueConfig, snapshotsRepo, workoutsRepo, metricsManager)
	weekPlanner := planner.New(fatigueConfig, targetThreshold, metricsManager)

	server := fatiguemcp.NewServer(trackerService, weekPlanner, targetThreshold, planDays)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
