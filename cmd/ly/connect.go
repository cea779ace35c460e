package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/config"
	"github.com/zulandar/laneyard/internal/db"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
)

// session is what most commands need: config, a connection and the plant
// scope.
type session struct {
	cfg   *config.Config
	db    *gorm.DB
	scope models.Scope
}

func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

func openSession(configPath string) (*session, error) {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return nil, err
	}
	scope, err := db.ResolveScope(gormDB, cfg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, db: gormDB, scope: scope}, nil
}

func (s *session) ledger() capacity.Ledger {
	warning, overbooked := s.cfg.Calendar.Thresholds()
	return capacity.New(capacity.Thresholds{Warning: warning, Overbooked: overbooked})
}

func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", defaultConfigPath, "path to Laneyard config file")
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
