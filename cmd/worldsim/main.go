// Command worldsim is the driver binary: it loads configuration and
// static catalogs, opens the configured SaveStore, and runs the
// fixed-cadence tick loop the world core exposes through
// worldstate.WorldState.Advance (spec §4.1, §5).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/config"
	"github.com/opentibia/worldcore/internal/moveuse"
	"github.com/opentibia/worldcore/internal/persist"
	"github.com/opentibia/worldcore/internal/scripting"
	"github.com/opentibia/worldcore/internal/tile"
	"github.com/opentibia/worldcore/internal/worldstate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "dat/server.toml"
	if p := os.Getenv("WORLDCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("worldcore starting", zap.String("server", cfg.Server.Name), zap.Int("id", cfg.Server.ID))

	// Static object/item catalog is the one required load -- its absence
	// is a fatal startup error (spec §6: "missing required catalogs at
	// startup abort load").
	catPath := "dat/objects.srv"
	f, err := os.Open(catPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", catPath, err)
	}
	cat, err := catalog.Load(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load %s: %w", catPath, err)
	}
	log.Info("object catalog loaded", zap.Int("types", cat.Len()))

	// moveuse.dat is optional -- a missing or malformed DSL file degrades
	// run_moveuse_event to an empty outcome rather than aborting boot
	// (spec §6).
	var moveuseRules *moveuse.Section
	if raw, err := os.ReadFile("dat/moveuse.dat"); err != nil {
		log.Warn("moveuse.dat not loaded, use-object events return empty outcomes", zap.Error(err))
	} else if moveuseRules, err = moveuse.ParseRules(string(raw)); err != nil {
		log.Warn("moveuse.dat failed to parse, use-object events return empty outcomes", zap.Error(err))
		moveuseRules = nil
	} else {
		log.Info("moveuse rules loaded")
	}

	m := tile.NewMap()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store persist.SaveStore
	if cfg.Database.DSN == "" {
		log.Warn("no database DSN configured, running with an in-memory store")
		store = persist.NewInMemoryStore()
	} else {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		store = persist.NewPostgresStore(db)
		log.Info("connected to postgres")
	}

	scriptEngine, err := scripting.NewEngine("internal/scripting/scripts", log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer scriptEngine.Close()

	ws := worldstate.New(cfg, cat, m, store, scriptEngine, log)
	ws.MoveUseRules = moveuseRules

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Tick.Cadence)
	defer ticker.Stop()

	log.Info("tick loop running", zap.Duration("cadence", cfg.Tick.Cadence))
	for {
		select {
		case <-ticker.C:
			ws.Advance(cfg.Tick.Cadence)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
