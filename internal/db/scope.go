package db

import (
	"errors"
	"fmt"

	"github.com/zulandar/laneyard/internal/config"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
)

// InScope returns a GORM scope restricting a query to the organization and
// plant of s. Zero ids are not filtered.
func InScope(s models.Scope) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if s.OrganizationID != 0 {
			q = q.Where("organization_id = ?", s.OrganizationID)
		}
		if s.PlantID != 0 {
			q = q.Where("plant_id = ?", s.PlantID)
		}
		return q
	}
}

// ResolveScope returns the scope of the configured plant. The plant row must
// exist; db init creates it.
func ResolveScope(db *gorm.DB, cfg *config.Config) (models.Scope, error) {
	if !db.Migrator().HasTable(&models.Plant{}) {
		return models.Scope{}, fmt.Errorf("db: plant %q not initialized (run db init)", cfg.Plant.Code)
	}
	var plant models.Plant
	q := db.Where("organization_id = ? AND code = ?", cfg.OrganizationID, cfg.Plant.Code)
	if cfg.Plant.ID != 0 {
		q = db.Where("id = ?", cfg.Plant.ID)
	}
	if err := q.First(&plant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Scope{}, fmt.Errorf("db: plant %q not initialized (run db init)", cfg.Plant.Code)
		}
		return models.Scope{}, fmt.Errorf("db: load plant %q: %w", cfg.Plant.Code, err)
	}
	return models.Scope{OrganizationID: plant.OrganizationID, PlantID: plant.ID}, nil
}
