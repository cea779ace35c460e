package db

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zulandar/laneyard/internal/config"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns every GORM model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Plant{},
		&models.Lane{},
		&models.LaneAssignment{},
		&models.WorkOrder{},
		&models.NCR{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedPlant upserts the Plant row for this deployment and returns it. When
// the config carries an explicit plant id it is used as the primary key.
func SeedPlant(db *gorm.DB, cfg *config.Config) (*models.Plant, error) {
	plant := models.Plant{
		ID:             cfg.Plant.ID,
		OrganizationID: cfg.OrganizationID,
		Code:           cfg.Plant.Code,
		Name:           cfg.Plant.Name,
		NCRWorkflow:    cfg.NCR.Workflow,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organization_id"}, {Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "ncr_workflow", "updated_at"}),
	}).Create(&plant)
	if result.Error != nil {
		return nil, fmt.Errorf("db: seed plant %q: %w", cfg.Plant.Code, result.Error)
	}

	var stored models.Plant
	if err := db.Where("organization_id = ? AND code = ?", cfg.OrganizationID, cfg.Plant.Code).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("db: reload plant %q: %w", cfg.Plant.Code, err)
	}
	return &stored, nil
}

// SeedLanes upserts Lane rows from configuration, keyed by plant and code.
func SeedLanes(db *gorm.DB, scope models.Scope, lanes []config.LaneConfig) error {
	for _, lc := range lanes {
		capacity, err := decimal.NewFromString(lc.CapacityPerDay)
		if err != nil {
			return fmt.Errorf("db: lane %q capacity: %w", lc.Code, err)
		}
		active := true
		if lc.Active != nil {
			active = *lc.Active
		}

		lane := models.Lane{
			OrganizationID: scope.OrganizationID,
			PlantID:        scope.PlantID,
			Code:           lc.Code,
			Name:           lc.Name,
			CapacityPerDay: capacity,
			Active:         active,
		}

		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plant_id"}, {Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "capacity_per_day", "active", "updated_at"}),
		}).Create(&lane)
		if result.Error != nil {
			return fmt.Errorf("db: seed lane %q: %w", lc.Code, result.Error)
		}
	}
	return nil
}
