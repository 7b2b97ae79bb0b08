package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"tourify/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

var elementRowColumns = []string{
	"id", "site_map_id", "layer_id", "element_type", "name", "x", "y", "width", "height", "rotation",
	"fill_color", "stroke_color", "stroke_width", "properties", "path", "created_by", "created_at", "updated_at",
}

func TestElementUpdateMergesOnlySuppliedProperties(t *testing.T) {
	db, mock := newMock(t)
	repo := NewElementRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE elements SET x = $1, properties = properties || $2::jsonb, updated_at = NOW() WHERE id = $3 AND site_map_id = $4 RETURNING`,
	)).
		WithArgs(12.5, `{"locked":true}`, "el-1", "sm-1").
		WillReturnRows(sqlmock.NewRows(elementRowColumns).AddRow(
			"el-1", "sm-1", nil, "fence", "North fence", 12.5, 0.0, 10.0, 1.0, 0.0,
			"", "#000000", 1.0, []byte(`{"visible":true,"locked":true}`), []byte(`[]`), "u1", now, now,
		))

	got, err := repo.Update(context.Background(), "sm-1", "el-1", &models.UpdateElementRequest{
		X:          floatPtr(12.5),
		Properties: &models.ElementProperties{Locked: boolPtr(true)},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Properties.Visible == nil || !*got.Properties.Visible {
		t.Fatalf("expected visible to survive merge, got %+v", got.Properties)
	}
	if got.Properties.Locked == nil || !*got.Properties.Locked {
		t.Fatalf("expected locked=true, got %+v", got.Properties)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestElementUpdateMissingRowReturnsErrNoRows(t *testing.T) {
	db, mock := newMock(t)
	repo := NewElementRepository(db)

	mock.ExpectQuery("UPDATE elements SET name = \\$1").
		WillReturnRows(sqlmock.NewRows(elementRowColumns))

	_, err := repo.Update(context.Background(), "sm-1", "missing", &models.UpdateElementRequest{Name: strPtr("x")})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDeleteScopedByParent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLayerRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM layers WHERE id = $1 AND site_map_id = $2`)).
		WithArgs("layer-1", "sm-other").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "sm-other", "layer-1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTentNumberExists(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM tents WHERE site_map_id = $1 AND tent_number = $2 AND id::text <> $3)`)).
		WithArgs("sm-1", "A-12", "").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.NumberExists(context.Background(), "sm-1", "A-12", "")
	if err != nil {
		t.Fatalf("NumberExists: %v", err)
	}
	if !exists {
		t.Fatal("expected tent number to exist")
	}
}

func TestTentListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tents WHERE site_map_id = $1 AND zone_id = $2 AND status = $3 ORDER BY tent_number ASC`)).
		WithArgs("sm-1", "zone-1", "available").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.List(context.Background(), models.TentFilter{SiteMapID: "sm-1", ZoneID: "zone-1", Status: "available"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestCatalogListSearchIsOrMatched(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`AND category = $1 AND (name ILIKE $2 OR model ILIKE $2 OR manufacturer ILIKE $2) ORDER BY name ASC`)).
		WithArgs("sound", `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.List(context.Background(), models.CatalogFilter{Category: "sound", Search: " 50% "}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInventoryBulkUpdateSingleStatement(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE equipment_instances SET status = $1, updated_at = NOW() WHERE vendor_id = $2 AND id = ANY($3)`,
	)).
		WithArgs("maintenance", "vendor-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.BulkUpdate(context.Background(), "vendor-1", &models.BulkUpdateInstancesRequest{
		IDs:    []string{"a", "b", "c"},
		Status: strPtr("maintenance"),
	})
	if err != nil {
		t.Fatalf("BulkUpdate: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRoleForSiteMapResolvesVenue(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccessRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE v.id = (SELECT venue_id FROM site_maps WHERE id = $1)`)).
		WithArgs("sm-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("editor"))

	role, err := repo.RoleForEntity(context.Background(), models.EntitySiteMap, "sm-1", "user-1")
	if err != nil {
		t.Fatalf("RoleForEntity: %v", err)
	}
	if role != models.VenueRoleEditor {
		t.Fatalf("expected editor, got %q", role)
	}
}

func TestRoleForUnknownEntityIsEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccessRepository(db)

	mock.ExpectQuery("SELECT CASE").WillReturnError(sql.ErrNoRows)

	role, err := repo.RoleForEntity(context.Background(), models.EntityVenue, "missing", "user-1")
	if err != nil || role != "" {
		t.Fatalf("expected empty role and nil error, got %q %v", role, err)
	}

	role, err = repo.RoleForEntity(context.Background(), models.EntityType("galaxy"), "x", "user-1")
	if err != nil || role != "" {
		t.Fatalf("expected empty role for unsupported type, got %q %v", role, err)
	}
}

func TestUpsertAvailabilityKeyedByStaffVenueWeek(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStaffRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (staff_id, venue_id, week_start_date)`)).
		WithArgs("new-id", "staff-1", "venue-1", "2024-06-03", `[{"day_of_week":1,"start_time":"09:00","end_time":"17:00","is_available":true}]`, "", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("existing-id", now, now))

	a := &models.StaffAvailability{
		ID:            "new-id",
		StaffID:       "staff-1",
		VenueID:       "venue-1",
		WeekStartDate: "2024-06-03",
		Slots:         models.AvailabilitySlots{{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true}},
		UpdatedBy:     "user-1",
	}
	if err := repo.UpsertAvailability(context.Background(), a); err != nil {
		t.Fatalf("UpsertAvailability: %v", err)
	}
	if a.ID != "existing-id" {
		t.Fatalf("expected id from existing row, got %q", a.ID)
	}
}

func TestDecideTimeOffOnlyFromPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStaffRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $3 AND status = 'pending'`)).
		WithArgs(models.TimeOffApproved, "manager", "req-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.DecideTimeOff(context.Background(), "req-1", models.TimeOffApproved, "manager")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for already decided request, got %v", err)
	}
}

func TestActivityInsertStoresNullForEmptyPayloads(t *testing.T) {
	db, mock := newMock(t)
	repo := NewActivityRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO activity_log").
		WithArgs("a1", "u1", "create", "tent", "t1", "site_map", "sm-1", nil, `{"id":"t1"}`, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), &models.ActivityEntry{
		ID: "a1", ActorID: "u1", Action: "create", EntityType: "tent", EntityID: "t1",
		ScopeType: "site_map", ScopeID: "sm-1", After: []byte(`{"id":"t1"}`), CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
