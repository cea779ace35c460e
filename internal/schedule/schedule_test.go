package schedule

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func validOpts() CreateOpts {
	return CreateOpts{
		LaneID:            1,
		WorkOrderID:       42,
		ScheduledStart:    "2025-01-15",
		ScheduledEnd:      "2025-01-17",
		AllocatedCapacity: dec("600"),
		Priority:          2,
	}
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *fault.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if ve.Field != field {
		t.Errorf("Field = %q, want %q", ve.Field, field)
	}
}

func TestBuild_Valid(t *testing.T) {
	a, err := Build(models.Scope{OrganizationID: 7, PlantID: 3}, validOpts())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Status != models.AssignmentPlanned {
		t.Errorf("Status = %q, want PLANNED", a.Status)
	}
	if a.OrganizationID != 7 || a.PlantID != 3 {
		t.Errorf("scope = %d/%d, want 7/3", a.OrganizationID, a.PlantID)
	}
	if !a.AllocatedCapacity.Equal(dec("600")) || a.Priority != 2 {
		t.Errorf("assignment = %+v", a)
	}
}

func TestBuild_SingleDayIsValid(t *testing.T) {
	opts := validOpts()
	opts.ScheduledEnd = opts.ScheduledStart
	if _, err := Build(models.Scope{}, opts); err != nil {
		t.Errorf("single-day assignment rejected: %v", err)
	}
}

func TestBuild_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOpts)
		field  string
	}{
		{"missing lane", func(o *CreateOpts) { o.LaneID = 0 }, "lane_id"},
		{"missing work order", func(o *CreateOpts) { o.WorkOrderID = 0 }, "work_order_id"},
		{"bad start", func(o *CreateOpts) { o.ScheduledStart = "15/01/2025" }, "scheduled_start"},
		{"missing end", func(o *CreateOpts) { o.ScheduledEnd = "" }, "scheduled_end"},
		{"inverted range", func(o *CreateOpts) { o.ScheduledEnd = "2025-01-14" }, "scheduled_end"},
		{"zero capacity", func(o *CreateOpts) { o.AllocatedCapacity = decimal.Zero }, "allocated_capacity"},
		{"negative capacity", func(o *CreateOpts) { o.AllocatedCapacity = dec("-1") }, "allocated_capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOpts()
			tt.mutate(&opts)
			_, err := Build(models.Scope{}, opts)
			assertValidation(t, err, tt.field)
		})
	}
}

func TestApplyPatch_PartialUpdate(t *testing.T) {
	a, _ := Build(models.Scope{}, validOpts())
	a.ID = 9

	next, err := ApplyPatch(a, Patch{AllocatedCapacity: ptr(dec("750")), Notes: ptr("rush")})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if !next.AllocatedCapacity.Equal(dec("750")) || next.Notes != "rush" {
		t.Errorf("patched = %+v", next)
	}
	if next.ScheduledStart != a.ScheduledStart || next.Priority != a.Priority || next.ID != 9 {
		t.Error("unpatched fields changed")
	}
	if !a.AllocatedCapacity.Equal(dec("600")) {
		t.Error("ApplyPatch mutated its input")
	}
}

func TestApplyPatch_StatusIsUnconstrained(t *testing.T) {
	a, _ := Build(models.Scope{}, validOpts())
	path := []string{
		models.AssignmentCompleted,
		models.AssignmentPlanned,
		models.AssignmentCancelled,
		models.AssignmentActive,
		models.AssignmentPlanned,
	}
	for _, s := range path {
		next, err := ApplyPatch(a, Patch{Status: ptr(s)})
		if err != nil {
			t.Fatalf("%s -> %s rejected: %v", a.Status, s, err)
		}
		a = next
	}
}

func TestApplyPatch_Errors(t *testing.T) {
	a, _ := Build(models.Scope{}, validOpts())

	_, err := ApplyPatch(a, Patch{Status: ptr("PAUSED")})
	assertValidation(t, err, "status")

	_, err = ApplyPatch(a, Patch{ScheduledEnd: ptr("2025-01-01")})
	assertValidation(t, err, "scheduled_end")

	_, err = ApplyPatch(a, Patch{AllocatedCapacity: ptr(decimal.Zero)})
	assertValidation(t, err, "allocated_capacity")

	// Moving both dates together keeps the range valid.
	moved, err := ApplyPatch(a, Patch{ScheduledStart: ptr("2025-02-01"), ScheduledEnd: ptr("2025-02-03")})
	if err != nil {
		t.Fatalf("moving range: %v", err)
	}
	if moved.ScheduledStart != "2025-02-01" {
		t.Errorf("ScheduledStart = %s", moved.ScheduledStart)
	}
}

func TestPatch_Empty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("zero Patch should be empty")
	}
	if (Patch{Priority: ptr(1)}).Empty() {
		t.Error("Patch with priority should not be empty")
	}
}

func TestPositionOnCalendar(t *testing.T) {
	a := models.LaneAssignment{ScheduledStart: "2025-01-15", ScheduledEnd: "2025-01-17"}

	tests := []struct {
		name        string
		start       string
		days        int
		wantOffset  int
		wantWidth   int
		wantVisible bool
	}{
		{"aligned", "2025-01-15", 7, 0, 3, true},
		{"starts mid-window", "2025-01-13", 7, 2, 3, true},
		{"starts before window", "2025-01-16", 7, -1, 3, true},
		{"entirely before window", "2025-01-20", 7, -5, 3, false},
		{"entirely after window", "2025-01-01", 7, 14, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := PositionOnCalendar(a, tt.start, tt.days)
			if err != nil {
				t.Fatalf("PositionOnCalendar: %v", err)
			}
			if pos.OffsetDays != tt.wantOffset || pos.WidthDays != tt.wantWidth || pos.Visible != tt.wantVisible {
				t.Errorf("pos = %+v, want offset %d width %d visible %v", pos, tt.wantOffset, tt.wantWidth, tt.wantVisible)
			}
		})
	}
}

func TestPositionOnCalendar_SingleDayWidthIsOne(t *testing.T) {
	pos, err := PositionOnCalendar(models.LaneAssignment{ScheduledStart: "2025-03-30", ScheduledEnd: "2025-03-30"}, "2025-03-28", 7)
	if err != nil {
		t.Fatal(err)
	}
	if pos.WidthDays != 1 || pos.OffsetDays != 2 {
		t.Errorf("pos = %+v, want offset 2 width 1", pos)
	}
}

func TestPositionOnCalendar_BadDates(t *testing.T) {
	if _, err := PositionOnCalendar(models.LaneAssignment{ScheduledStart: "x", ScheduledEnd: "2025-01-01"}, "2025-01-01", 7); err == nil {
		t.Error("expected error for bad start")
	}
	if _, err := PositionOnCalendar(models.LaneAssignment{ScheduledStart: "2025-01-01", ScheduledEnd: "2025-01-01"}, "nope", 7); err == nil {
		t.Error("expected error for bad calendar start")
	}
}

func TestAdvise_FlagsOverbookingWithoutRejecting(t *testing.T) {
	lane := models.Lane{ID: 1, CapacityPerDay: dec("1000")}
	existing := []models.LaneAssignment{
		{ID: 1, LaneID: 1, ScheduledStart: "2025-01-15", ScheduledEnd: "2025-01-15", AllocatedCapacity: dec("600"), Status: models.AssignmentPlanned},
	}
	opts := validOpts()
	opts.AllocatedCapacity = dec("500")
	a, err := Build(models.Scope{}, opts)
	if err != nil {
		t.Fatalf("overbooking assignment must still build: %v", err)
	}

	adv := Advise(capacity.New(capacity.DefaultThresholds), a, lane, existing)
	if len(adv.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(adv.Entries))
	}
	if !adv.Overbooked || !slices.Equal(adv.OverbookedDays, []string{"2025-01-15"}) {
		t.Errorf("advice = %+v", adv)
	}
	if !adv.Entries[0].UtilizationRate.Equal(dec("110")) {
		t.Errorf("day 1 utilization = %s, want 110", adv.Entries[0].UtilizationRate)
	}
}

func TestAdvise_ReplacesSelf(t *testing.T) {
	lane := models.Lane{ID: 1, CapacityPerDay: dec("100")}
	stored := models.LaneAssignment{ID: 5, LaneID: 1, ScheduledStart: "2025-01-15", ScheduledEnd: "2025-01-15", AllocatedCapacity: dec("90"), Status: models.AssignmentPlanned}
	updated := stored
	updated.AllocatedCapacity = dec("40")

	adv := Advise(capacity.New(capacity.DefaultThresholds), updated, lane, []models.LaneAssignment{stored})
	if adv.Overbooked {
		t.Error("the stored copy of the same assignment must not be double counted")
	}
	if !adv.Entries[0].AllocatedCapacity.Equal(dec("40")) {
		t.Errorf("allocated = %s, want 40", adv.Entries[0].AllocatedCapacity)
	}
}
