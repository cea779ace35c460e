package ncr

import (
	"errors"
	"regexp"
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
	wo := models.WorkOrder{
		ID: 1, OrganizationID: 1, PlantID: 1, OrderNumber: "WO-1",
		PlannedQuantity: decimal.NewFromInt(10), OrderStatus: models.OrderPlanned,
	}
	if err := gormDB.Create(&wo).Error; err != nil {
		t.Fatalf("seed work order: %v", err)
	}
	return gormDB
}

func TestNewNumber(t *testing.T) {
	re := regexp.MustCompile(`^NCR-[0-9A-F]{8}$`)
	a, b := NewNumber(), NewNumber()
	if !re.MatchString(a) {
		t.Errorf("NewNumber() = %q", a)
	}
	if a == b {
		t.Error("NewNumber returned the same value twice")
	}
}

func TestCreate(t *testing.T) {
	gormDB := openTestDB(t)
	woID := uint(1)

	n, err := Create(gormDB, testScope, Review, CreateOpts{Title: "Burr on edge", Severity: "major", WorkOrderID: &woID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.Status != models.NCROpen || n.Severity != models.SeverityMajor || n.Number == "" {
		t.Errorf("created = %+v", n)
	}

	n, err = Create(gormDB, testScope, Review, CreateOpts{Title: "Scratch"})
	if err != nil {
		t.Fatal(err)
	}
	if n.Severity != models.SeverityMinor {
		t.Errorf("default severity = %s", n.Severity)
	}
}

func TestCreate_Validation(t *testing.T) {
	gormDB := openTestDB(t)
	missingWO := uint(77)

	tests := []struct {
		name  string
		opts  CreateOpts
		field string
	}{
		{"no title", CreateOpts{Title: " "}, "title"},
		{"bad severity", CreateOpts{Title: "x", Severity: "cosmetic"}, "severity"},
		{"unknown work order", CreateOpts{Title: "x", WorkOrderID: &missingWO}, "work_order_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(gormDB, testScope, Review, tt.opts)
			var ve *fault.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("error = %v, want ValidationError on %s", err, tt.field)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	gormDB := openTestDB(t)
	n, err := Create(gormDB, testScope, Review, CreateOpts{Title: "Porosity"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = UpdateStatus(gormDB, testScope, Review, n.ID, models.NCRResolved, Payload{})
	var missing *fault.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingFieldError", err)
	}

	got, err := UpdateStatus(gormDB, testScope, Review, n.ID, models.NCRResolved, Payload{ResolutionNotes: "x-rayed and scrapped", ResolvedBy: "qa"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.NCRResolved || got.ResolvedAt == nil || got.ResolutionNotes != "x-rayed and scrapped" {
		t.Errorf("resolved = %+v", got)
	}

	if _, err := UpdateStatus(gormDB, testScope, Review, n.ID, models.NCRClosed, Payload{}); err != nil {
		t.Fatal(err)
	}
	_, err = UpdateStatus(gormDB, testScope, Review, n.ID, models.NCROpen, Payload{})
	var ite *fault.IllegalTransitionError
	if !errors.As(err, &ite) {
		t.Errorf("reopen closed: error = %v, want IllegalTransitionError", err)
	}

	stored, err := Get(gormDB, testScope, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.NCRClosed || stored.ResolutionNotes != "x-rayed and scrapped" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestForPlant(t *testing.T) {
	gormDB := openTestDB(t)
	plants := []models.Plant{
		{ID: 2, OrganizationID: 1, Code: "DET", NCRWorkflow: "investigation"},
		{ID: 3, OrganizationID: 1, Code: "TOL", NCRWorkflow: "review"},
		{ID: 4, OrganizationID: 1, Code: "OLD", NCRWorkflow: "kanban"},
	}
	if err := gormDB.Create(&plants).Error; err != nil {
		t.Fatal(err)
	}
	if err := gormDB.Model(&models.Plant{}).Where("id = ?", 3).Update("ncr_workflow", "").Error; err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		scope   models.Scope
		want    string
		wantErr bool
	}{
		{"plant workflow", models.Scope{OrganizationID: 1, PlantID: 2}, "investigation", false},
		{"blank uses fallback", models.Scope{OrganizationID: 1, PlantID: 3}, "review", false},
		{"unknown plant uses fallback", models.Scope{OrganizationID: 1, PlantID: 9}, "review", false},
		{"other organization uses fallback", models.Scope{OrganizationID: 5, PlantID: 2}, "review", false},
		{"unrecognised workflow", models.Scope{OrganizationID: 1, PlantID: 4}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ForPlant(gormDB, tt.scope, Review)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v", err)
			}
			if err == nil && w.Name() != tt.want {
				t.Errorf("workflow = %s, want %s", w.Name(), tt.want)
			}
		})
	}
}

func TestGetAndList_Scope(t *testing.T) {
	gormDB := openTestDB(t)
	other := models.Scope{OrganizationID: 1, PlantID: 2}
	if _, err := Create(gormDB, testScope, Review, CreateOpts{Title: "a", Severity: "CRITICAL"}); err != nil {
		t.Fatal(err)
	}
	if _, err := Create(gormDB, testScope, Review, CreateOpts{Title: "b"}); err != nil {
		t.Fatal(err)
	}
	foreign, err := Create(gormDB, other, Review, CreateOpts{Title: "c"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Get(gormDB, testScope, foreign.ID); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("cross-plant Get error = %v", err)
	}

	page, err := List(gormDB, testScope, ListFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
	page, err = List(gormDB, testScope, ListFilters{Severity: "critical"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].Title != "a" {
		t.Errorf("severity filter = %+v", page.Items)
	}
}
