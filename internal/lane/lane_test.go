package lane

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zulandar/laneyard/internal/db"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testScope = models.Scope{OrganizationID: 1, PlantID: 1}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return gormDB
}

func TestCreate(t *testing.T) {
	gormDB := openTestDB(t)

	l, err := Create(gormDB, testScope, CreateOpts{Code: "L1", Name: "Press line", CapacityPerDay: decimal.NewFromInt(1000)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !l.Active {
		t.Error("Active should default to true")
	}

	off := false
	l2, err := Create(gormDB, testScope, CreateOpts{Code: "L2", CapacityPerDay: decimal.Zero, Active: &off})
	if err != nil {
		t.Fatalf("Create inactive: %v", err)
	}
	stored, err := Get(gormDB, testScope, l2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Active {
		t.Error("inactive lane stored as active")
	}
}

func TestCreate_Validation(t *testing.T) {
	gormDB := openTestDB(t)
	if _, err := Create(gormDB, testScope, CreateOpts{Code: "L1", CapacityPerDay: decimal.NewFromInt(1)}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		opts  CreateOpts
		field string
	}{
		{"blank code", CreateOpts{Code: "", CapacityPerDay: decimal.NewFromInt(1)}, "code"},
		{"negative capacity", CreateOpts{Code: "L9", CapacityPerDay: decimal.NewFromInt(-1)}, "capacity_per_day"},
		{"duplicate code", CreateOpts{Code: "L1", CapacityPerDay: decimal.NewFromInt(1)}, "code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(gormDB, testScope, tt.opts)
			var ve *fault.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("error = %v, want ValidationError on %s", err, tt.field)
			}
		})
	}
}

func TestList(t *testing.T) {
	gormDB := openTestDB(t)
	off := false
	for _, o := range []CreateOpts{
		{Code: "L3", CapacityPerDay: decimal.NewFromInt(1)},
		{Code: "L1", CapacityPerDay: decimal.NewFromInt(1)},
		{Code: "L2", CapacityPerDay: decimal.NewFromInt(1), Active: &off},
	} {
		if _, err := Create(gormDB, testScope, o); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Create(gormDB, models.Scope{OrganizationID: 1, PlantID: 2}, CreateOpts{Code: "L0", CapacityPerDay: decimal.NewFromInt(1)}); err != nil {
		t.Fatal(err)
	}

	all, err := List(gormDB, testScope, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Code != "L1" || all[2].Code != "L3" {
		t.Errorf("List = %+v", all)
	}

	active, err := List(gormDB, testScope, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 {
		t.Errorf("active lanes = %d, want 2", len(active))
	}
}

func TestUpdate(t *testing.T) {
	gormDB := openTestDB(t)
	l, err := Create(gormDB, testScope, CreateOpts{Code: "L1", CapacityPerDay: decimal.NewFromInt(1000)})
	if err != nil {
		t.Fatal(err)
	}

	capacity := decimal.RequireFromString("1250.5")
	off := false
	got, err := Update(gormDB, testScope, l.ID, Patch{CapacityPerDay: &capacity, Active: &off})
	if err != nil {
		t.Fatal(err)
	}
	if !got.CapacityPerDay.Equal(capacity) || got.Active {
		t.Errorf("updated = %+v", got)
	}

	neg := decimal.NewFromInt(-1)
	if _, err := Update(gormDB, testScope, l.ID, Patch{CapacityPerDay: &neg}); err == nil {
		t.Error("negative capacity accepted")
	}
	if _, err := Update(gormDB, testScope, 99, Patch{}); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("missing lane error = %v", err)
	}
}
