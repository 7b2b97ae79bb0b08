package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"tourify/internal/interfaces"
	"tourify/internal/middleware"
	"tourify/internal/models"
	"tourify/internal/services"
)

const (
	testSiteMapID = "7f8d3c2e-1b4a-4c1e-9d2f-0a1b2c3d4e5f"
	testVenueID   = "0b9f6a52-8a2e-4f3c-b7d1-5e6f7a8b9c0d"
	testStaffID   = "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e6f"
	testElementID = "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"
	unknownID     = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

type stubAccess struct{ role models.VenueRole }

var _ interfaces.AccessRepository = stubAccess{}

func (s stubAccess) RoleForEntity(ctx context.Context, entityType models.EntityType, entityID, userID string) (models.VenueRole, error) {
	return s.role, nil
}

// Stubs embed the interface; calling a method that is not overridden panics,
// which flags unexpected store access.
type stubSiteMaps struct {
	interfaces.SiteMapRepository
	maps map[string]*models.SiteMap
}

func (s *stubSiteMaps) GetByID(ctx context.Context, id string) (*models.SiteMap, error) {
	m, ok := s.maps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return m, nil
}

type stubTents struct {
	interfaces.TentRepository
	taken map[string]bool
}

func (s *stubTents) NumberExists(ctx context.Context, siteMapID, tentNumber, excludeID string) (bool, error) {
	return s.taken[tentNumber], nil
}
func (s *stubTents) Create(ctx context.Context, t *models.Tent) error {
	s.taken[t.TentNumber] = true
	return nil
}

type stubElements struct {
	interfaces.ElementRepository
	stored *models.Element
}

func (s *stubElements) Update(ctx context.Context, siteMapID, id string, patch *models.UpdateElementRequest) (*models.Element, error) {
	if s.stored == nil || s.stored.ID != id {
		return nil, sql.ErrNoRows
	}
	if patch.Properties != nil {
		s.stored.Properties = s.stored.Properties.Merge(*patch.Properties)
	}
	return s.stored, nil
}

func newEditorRouter(role models.VenueRole) (*chi.Mux, *stubElements) {
	elements := &stubElements{}
	svc := services.NewSiteMapService(
		services.NewPermissionGate(stubAccess{role: role}),
		services.SiteMapStores{
			SiteMaps: &stubSiteMaps{maps: map[string]*models.SiteMap{
				testSiteMapID: {ID: testSiteMapID, VenueID: testVenueID, Name: "Main"},
			}},
			Tents:    &stubTents{taken: map[string]bool{}},
			Elements: elements,
		},
		nil,
	)

	r := chi.NewRouter()
	sm := NewSiteMapHandler(svc)
	tents := NewTentHandler(svc)
	el := NewElementHandler(svc)
	r.Post("/site-maps", sm.CreateSiteMap)
	r.Get("/site-maps", sm.ListSiteMaps)
	r.Get("/site-maps/{id}", sm.GetSiteMap)
	r.Post("/site-maps/{id}/tents", tents.CreateTent)
	r.Put("/site-maps/{id}/elements/{elementId}", el.UpdateElement)
	return r, elements
}

func do(t *testing.T, h http.Handler, method, path, user string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), user))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v (%s)", err, w.Body.String())
		}
	}
	return w, resp
}

func TestGetSiteMapNotFoundJSON(t *testing.T) {
	r, _ := newEditorRouter(models.VenueRoleEditor)
	w, resp := do(t, r, http.MethodGet, "/site-maps/"+unknownID, "u1", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d (%s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content-type got %q", ct)
	}
	if resp["error"] != "site_map_not_found" || resp["message"] != "Site map not found" {
		t.Fatalf("unexpected body %v", resp)
	}
}

func TestGetSiteMapRequiresUser(t *testing.T) {
	r, _ := newEditorRouter(models.VenueRoleEditor)
	w, resp := do(t, r, http.MethodGet, "/site-maps/"+testSiteMapID, "", nil)
	if w.Code != http.StatusUnauthorized || resp["error"] != "unauthorized" {
		t.Fatalf("expected 401 got %d %v", w.Code, resp)
	}
}

func TestGetSiteMapForbidden(t *testing.T) {
	r, _ := newEditorRouter("")
	w, resp := do(t, r, http.MethodGet, "/site-maps/"+testSiteMapID, "u1", nil)
	if w.Code != http.StatusForbidden || resp["error"] != "forbidden" {
		t.Fatalf("expected 403 got %d %v", w.Code, resp)
	}
}

func TestCreateSiteMapReportsEveryFieldError(t *testing.T) {
	r, _ := newEditorRouter(models.VenueRoleEditor)
	w, resp := do(t, r, http.MethodPost, "/site-maps", "u1", map[string]any{
		"venue_id":         "not-a-uuid",
		"background_color": "red",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	details, _ := resp["details"].([]any)
	fields := map[string]bool{}
	for _, d := range details {
		fields[d.(map[string]any)["field"].(string)] = true
	}
	for _, f := range []string{"venue_id", "name", "background_color"} {
		if !fields[f] {
			t.Fatalf("expected %s in details, got %v", f, details)
		}
	}
}

func TestCreateSiteMapInvalidJSON(t *testing.T) {
	r, _ := newEditorRouter(models.VenueRoleEditor)
	w, resp := do(t, r, http.MethodPost, "/site-maps", "u1", "{")
	if w.Code != http.StatusBadRequest || resp["error"] != "invalid_json" {
		t.Fatalf("expected invalid_json got %d %v", w.Code, resp)
	}
}

func TestCreateTentDuplicateNumber(t *testing.T) {
	r, _ := newEditorRouter(models.VenueRoleEditor)
	path := "/site-maps/" + testSiteMapID + "/tents"

	w, _ := do(t, r, http.MethodPost, path, "u1", map[string]any{"tent_number": "A-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}

	w, resp := do(t, r, http.MethodPost, path, "u1", map[string]any{"tent_number": "A-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	if resp["message"] != "Tent number already exists in this site map" {
		t.Fatalf("unexpected body %v", resp)
	}
}

func TestUpdateElementMergesProperties(t *testing.T) {
	r, elements := newEditorRouter(models.VenueRoleEditor)
	label := "Main stage"
	elements.stored = &models.Element{
		ID: testElementID, SiteMapID: testSiteMapID, ElementType: "stage",
		Properties: models.ElementProperties{Label: &label},
	}

	w, resp := do(t, r, http.MethodPut, "/site-maps/"+testSiteMapID+"/elements/"+testElementID, "u1",
		`{"properties":{"opacity":0.25}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	props := resp["properties"].(map[string]any)
	if props["label"] != "Main stage" || props["opacity"] != 0.25 {
		t.Fatalf("expected merged properties, got %v", props)
	}
}

type stubInventory struct {
	interfaces.InventoryRepository
	vendor    *models.Vendor
	instances []*models.EquipmentInstance
}

func (s *stubInventory) VendorByOwner(ctx context.Context, ownerID string) (*models.Vendor, error) {
	if s.vendor == nil || s.vendor.OwnerID != ownerID {
		return nil, sql.ErrNoRows
	}
	return s.vendor, nil
}
func (s *stubInventory) ListInstances(ctx context.Context, filter models.InstanceFilter) ([]*models.EquipmentInstance, error) {
	return s.instances, nil
}

func newInventoryRouter() *chi.Mux {
	inv := &stubInventory{
		vendor: &models.Vendor{ID: "v1", OwnerID: "u1"},
		instances: []*models.EquipmentInstance{
			{ID: "i1", CatalogID: "c1", Status: models.InstanceInUse},
			{ID: "i2", CatalogID: "c1", Status: models.InstanceAvailable},
		},
	}
	svc := services.NewEquipmentService(nil, inv, nil, nil, nil)
	h := NewInventoryHandler(svc)
	r := chi.NewRouter()
	r.Get("/vendor/inventory", h.GetInventory)
	r.Post("/vendor/inventory", h.PostInventoryAction)
	return r
}

func TestGetInventoryStats(t *testing.T) {
	r := newInventoryRouter()
	w, resp := do(t, r, http.MethodGet, "/vendor/inventory", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	stats := resp["stats"].(map[string]any)
	if stats["total"] != float64(2) || stats["utilization_percent"] != float64(50) {
		t.Fatalf("unexpected stats %v", stats)
	}

	w, resp = do(t, r, http.MethodGet, "/vendor/inventory", "someone-else", nil)
	if w.Code != http.StatusNotFound || resp["error"] != "vendor_not_found" {
		t.Fatalf("expected vendor_not_found got %d %v", w.Code, resp)
	}
}

func TestInventoryActionDispatch(t *testing.T) {
	r := newInventoryRouter()

	w, resp := do(t, r, http.MethodPost, "/vendor/inventory", "u1", map[string]any{"action": "teleport"})
	if w.Code != http.StatusBadRequest || resp["error"] != "invalid_action" {
		t.Fatalf("expected invalid_action got %d %v", w.Code, resp)
	}

	w, resp = do(t, r, http.MethodPost, "/vendor/inventory", "u1", map[string]any{"action": "bulk_update"})
	if w.Code != http.StatusBadRequest || resp["error"] != "validation_error" {
		t.Fatalf("expected missing data error got %d %v", w.Code, resp)
	}

	w, _ = do(t, r, http.MethodPost, "/vendor/inventory", "u1", map[string]any{"action": "export_inventory"})
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("expected inline csv got %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n"); len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", w.Body.String())
	}
}

type stubStaff struct {
	interfaces.StaffRepository
	member *models.StaffMember
	shifts []models.Shift
}

func (s *stubStaff) GetMember(ctx context.Context, staffID string) (*models.StaffMember, error) {
	if s.member == nil || s.member.ID != staffID {
		return nil, sql.ErrNoRows
	}
	return s.member, nil
}
func (s *stubStaff) ShiftsBetween(ctx context.Context, staffID, from, to string) ([]models.Shift, error) {
	return s.shifts, nil
}

func TestUpdateAvailabilityConflict(t *testing.T) {
	staff := &stubStaff{
		member: &models.StaffMember{ID: testStaffID, VenueID: testVenueID},
		shifts: []models.Shift{{ID: "sh1", StaffID: testStaffID, ShiftDate: "2026-03-04", StartTime: "10:00", EndTime: "14:00"}},
	}
	svc := services.NewStaffingService(services.NewPermissionGate(stubAccess{role: models.VenueRoleEditor}), staff, nil)
	h := NewStaffHandler(svc)
	r := chi.NewRouter()
	r.Post("/venue/staff/availability", h.UpdateAvailability)
	r.Post("/venue/staff/availability/check", h.CheckAvailability)

	body := map[string]any{
		"staff_id":        testStaffID,
		"venue_id":        testVenueID,
		"week_start_date": "2026-03-02",
		"slots": []map[string]any{
			{"day_of_week": 2, "start_time": "13:00", "end_time": "18:00", "is_available": true},
		},
	}

	w, resp := do(t, r, http.MethodPost, "/venue/staff/availability", "u1", body)
	if w.Code != http.StatusConflict || resp["error"] != "availability_conflict" {
		t.Fatalf("expected 409 got %d %v", w.Code, resp)
	}
	conflicts, _ := resp["conflicts"].([]any)
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %v", resp["conflicts"])
	}

	w, resp = do(t, r, http.MethodPost, "/venue/staff/availability/check", "u1", body)
	if w.Code != http.StatusOK || resp["has_conflicts"] != true {
		t.Fatalf("expected dry run conflicts got %d %v", w.Code, resp)
	}
}

func TestUpdateAvailabilityValidation(t *testing.T) {
	svc := services.NewStaffingService(services.NewPermissionGate(stubAccess{}), &stubStaff{}, nil)
	h := NewStaffHandler(svc)

	w, resp := do(t, http.HandlerFunc(h.UpdateAvailability), http.MethodPost, "/", "u1", map[string]any{
		"staff_id":        testStaffID,
		"venue_id":        testVenueID,
		"week_start_date": "03/02/2026",
		"slots":           []map[string]any{{"day_of_week": 9, "start_time": "9am", "end_time": "17:00"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	details, _ := resp["details"].([]any)
	if len(details) != 3 {
		t.Fatalf("expected 3 field errors, got %v", details)
	}
}

func TestUpdateAvailabilityReportsSlotOrderWithFieldErrors(t *testing.T) {
	svc := services.NewStaffingService(services.NewPermissionGate(stubAccess{}), &stubStaff{}, nil)
	h := NewStaffHandler(svc)

	w, resp := do(t, http.HandlerFunc(h.UpdateAvailability), http.MethodPost, "/", "u1", map[string]any{
		"staff_id":        "not-a-uuid",
		"venue_id":        testVenueID,
		"week_start_date": "2026-03-02",
		"slots": []map[string]any{
			{"day_of_week": 1, "start_time": "09:00", "end_time": "12:00"},
			{"day_of_week": 2, "start_time": "10:00", "end_time": "09:00"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	details, _ := resp["details"].([]any)
	fields := map[string]string{}
	for _, d := range details {
		fe := d.(map[string]any)
		fields[fe["field"].(string)] = fe["tag"].(string)
	}
	if len(fields) != 2 || fields["staff_id"] != "uuid" || fields["slots[1].end_time"] != "gtfield" {
		t.Fatalf("expected staff_id and slots[1].end_time together, got %v", details)
	}
}
