package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/eowm/eowm/internal/config"
	"github.com/eowm/eowm/internal/util"
)

// reloadTarget is the engine surface a reload needs.
type reloadTarget interface {
	Do(ctx context.Context, fn func()) error
	Reload(cfg *config.Config) error
}

// configReloader is shared by the signal loop and the control server.
type configReloader struct {
	mu             sync.Mutex
	path           string
	logger         *util.Logger
	engine         reloadTarget
	lastConfig     *config.Config
	lastSerialized []byte
}

func newConfigReloader(path string, logger *util.Logger, eng reloadTarget, cfg *config.Config) *configReloader {
	serialized, err := cfg.Marshal()
	if err != nil {
		logger.Debugf("serialize initial config: %v", err)
	}
	return &configReloader{
		path:           path,
		logger:         logger,
		engine:         eng,
		lastConfig:     cfg,
		lastSerialized: serialized,
	}
}

// Reload reads the configuration file again and hands it to the engine
// loop. On any failure the running configuration stays in force.
func (r *configReloader) Reload(ctx context.Context, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Infof("%s, reloading config", reason)
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		r.logDiff(raw)
		return err
	}

	var applyErr error
	if err := r.engine.Do(ctx, func() { applyErr = r.engine.Reload(cfg) }); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if applyErr != nil {
		r.logDiff(raw)
		return fmt.Errorf("apply config: %w", applyErr)
	}

	if diff := config.Diff(r.lastConfig, cfg); diff != "" {
		r.logger.Debugf("config changes:\n%s", diff)
	}
	r.lastConfig = cfg
	if serialized, err := cfg.Marshal(); err == nil {
		r.lastSerialized = serialized
	}
	return nil
}

func (r *configReloader) logDiff(current []byte) {
	next, err := config.Parse(current)
	var serialized []byte
	if err == nil {
		serialized, _ = next.Marshal()
	} else {
		serialized = current
	}
	diff := config.DiffSerialized(r.lastSerialized, serialized)
	if diff == "" {
		r.logger.Warnf("config change rejected; unable to compute diff vs last valid config")
		return
	}
	r.logger.Warnf("config change rejected; diff vs last valid config:\n%s", diff)
}
