package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

// fakeGate grants each user one role on every entity.
type fakeGate struct {
	roles map[string]models.VenueRole
}

var _ PermissionGate = (*fakeGate)(nil)

func (g *fakeGate) HasEntityPermission(ctx context.Context, userID string, entityType models.EntityType, entityID string, perm models.Permission) (bool, error) {
	return g.roles[userID].Grants(perm), nil
}

type recordingActivity struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

func (r *recordingActivity) Record(e models.ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingActivity) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action+" "+e.EntityType)
	}
	return out
}

type fakeSiteMaps struct{ items map[string]*models.SiteMap }

var _ interfaces.SiteMapRepository = (*fakeSiteMaps)(nil)

func (f *fakeSiteMaps) Create(ctx context.Context, m *models.SiteMap) error {
	f.items[m.ID] = m
	return nil
}
func (f *fakeSiteMaps) GetByID(ctx context.Context, id string) (*models.SiteMap, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *m
	return &cp, nil
}
func (f *fakeSiteMaps) ListByVenue(ctx context.Context, venueID string, limit, offset int) ([]*models.SiteMap, int, error) {
	var out []*models.SiteMap
	for _, m := range f.items {
		if m.VenueID == venueID {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}
func (f *fakeSiteMaps) Update(ctx context.Context, m *models.SiteMap) error {
	f.items[m.ID] = m
	return nil
}
func (f *fakeSiteMaps) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeLayers struct{ items map[string]*models.Layer }

var _ interfaces.LayerRepository = (*fakeLayers)(nil)

func (f *fakeLayers) Create(ctx context.Context, l *models.Layer) error {
	f.items[l.ID] = l
	return nil
}
func (f *fakeLayers) GetByID(ctx context.Context, id string) (*models.Layer, error) {
	l, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *l
	return &cp, nil
}
func (f *fakeLayers) ListBySiteMap(ctx context.Context, siteMapID string) ([]*models.Layer, error) {
	var out []*models.Layer
	for _, l := range f.items {
		if l.SiteMapID == siteMapID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out, nil
}
func (f *fakeLayers) Update(ctx context.Context, l *models.Layer) error {
	f.items[l.ID] = l
	return nil
}
func (f *fakeLayers) Delete(ctx context.Context, siteMapID, id string) error {
	l, ok := f.items[id]
	if !ok || l.SiteMapID != siteMapID {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeElements struct{ items map[string]*models.Element }

var _ interfaces.ElementRepository = (*fakeElements)(nil)

func (f *fakeElements) Create(ctx context.Context, e *models.Element) error {
	f.items[e.ID] = e
	return nil
}
func (f *fakeElements) GetByID(ctx context.Context, siteMapID, id string) (*models.Element, error) {
	e, ok := f.items[id]
	if !ok || e.SiteMapID != siteMapID {
		return nil, sql.ErrNoRows
	}
	cp := *e
	return &cp, nil
}
func (f *fakeElements) List(ctx context.Context, siteMapID, layerID string) ([]*models.Element, error) {
	var out []*models.Element
	for _, e := range f.items {
		if e.SiteMapID == siteMapID && (layerID == "" || (e.LayerID != nil && *e.LayerID == layerID)) {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeElements) Update(ctx context.Context, siteMapID, id string, patch *models.UpdateElementRequest) (*models.Element, error) {
	e, ok := f.items[id]
	if !ok || e.SiteMapID != siteMapID {
		return nil, sql.ErrNoRows
	}
	if patch.ElementType != nil {
		e.ElementType = *patch.ElementType
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.X != nil {
		e.X = *patch.X
	}
	if patch.Properties != nil {
		e.Properties = e.Properties.Merge(*patch.Properties)
	}
	cp := *e
	return &cp, nil
}
func (f *fakeElements) Delete(ctx context.Context, siteMapID, id string) error {
	e, ok := f.items[id]
	if !ok || e.SiteMapID != siteMapID {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeZones struct{ items map[string]*models.Zone }

var _ interfaces.ZoneRepository = (*fakeZones)(nil)

func (f *fakeZones) Create(ctx context.Context, z *models.Zone) error {
	f.items[z.ID] = z
	return nil
}
func (f *fakeZones) GetByID(ctx context.Context, siteMapID, id string) (*models.Zone, error) {
	z, ok := f.items[id]
	if !ok || z.SiteMapID != siteMapID {
		return nil, sql.ErrNoRows
	}
	cp := *z
	return &cp, nil
}
func (f *fakeZones) ListBySiteMap(ctx context.Context, siteMapID string) ([]*models.Zone, error) {
	var out []*models.Zone
	for _, z := range f.items {
		if z.SiteMapID == siteMapID {
			out = append(out, z)
		}
	}
	return out, nil
}
func (f *fakeZones) Update(ctx context.Context, z *models.Zone) error {
	f.items[z.ID] = z
	return nil
}
func (f *fakeZones) Delete(ctx context.Context, siteMapID, id string) error {
	z, ok := f.items[id]
	if !ok || z.SiteMapID != siteMapID {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeTents struct {
	items     map[string]*models.Tent
	createErr error
}

var _ interfaces.TentRepository = (*fakeTents)(nil)

func (f *fakeTents) Create(ctx context.Context, t *models.Tent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items[t.ID] = t
	return nil
}
func (f *fakeTents) GetByID(ctx context.Context, siteMapID, id string) (*models.Tent, error) {
	t, ok := f.items[id]
	if !ok || t.SiteMapID != siteMapID {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}
func (f *fakeTents) List(ctx context.Context, filter models.TentFilter) ([]*models.Tent, error) {
	var out []*models.Tent
	for _, t := range f.items {
		if t.SiteMapID == filter.SiteMapID && (filter.Status == "" || string(t.Status) == filter.Status) {
			out = append(out, t)
		}
	}
	return out, nil
}
func (f *fakeTents) NumberExists(ctx context.Context, siteMapID, tentNumber, excludeID string) (bool, error) {
	for _, t := range f.items {
		if t.SiteMapID == siteMapID && t.TentNumber == tentNumber && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeTents) Update(ctx context.Context, t *models.Tent) error {
	f.items[t.ID] = t
	return nil
}
func (f *fakeTents) Delete(ctx context.Context, siteMapID, id string) error {
	t, ok := f.items[id]
	if !ok || t.SiteMapID != siteMapID {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeCatalog struct {
	items     map[string]*models.EquipmentCatalogEntry
	instances map[string]int64
	listCalls int
}

var _ interfaces.CatalogRepository = (*fakeCatalog)(nil)

func (f *fakeCatalog) Create(ctx context.Context, e *models.EquipmentCatalogEntry) error {
	f.items[e.ID] = e
	return nil
}
func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*models.EquipmentCatalogEntry, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}
func (f *fakeCatalog) List(ctx context.Context, filter models.CatalogFilter) ([]*models.EquipmentCatalogEntry, error) {
	f.listCalls++
	var out []*models.EquipmentCatalogEntry
	for _, e := range f.items {
		if filter.Category == "" || e.Category == filter.Category {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeCatalog) CountInstances(ctx context.Context, id string) (int64, error) {
	return f.instances[id], nil
}
func (f *fakeCatalog) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

type fakeInventory struct {
	vendors   map[string]*models.Vendor
	instances []*models.EquipmentInstance
	bulkCalls int
}

var _ interfaces.InventoryRepository = (*fakeInventory)(nil)

func (f *fakeInventory) VendorByOwner(ctx context.Context, ownerID string) (*models.Vendor, error) {
	v, ok := f.vendors[ownerID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return v, nil
}
func (f *fakeInventory) CreateInstance(ctx context.Context, i *models.EquipmentInstance) error {
	f.instances = append(f.instances, i)
	return nil
}
func (f *fakeInventory) ListInstances(ctx context.Context, filter models.InstanceFilter) ([]*models.EquipmentInstance, error) {
	var out []*models.EquipmentInstance
	for _, i := range f.instances {
		if i.VendorID == filter.VendorID {
			out = append(out, i)
		}
	}
	return out, nil
}
func (f *fakeInventory) BulkUpdate(ctx context.Context, vendorID string, req *models.BulkUpdateInstancesRequest) (int64, error) {
	f.bulkCalls++
	return int64(len(req.IDs)), nil
}

type memoryCatalogCache struct {
	lists       map[string][]*models.EquipmentCatalogEntry
	invalidated int
}

var _ CatalogCache = (*memoryCatalogCache)(nil)

func (c *memoryCatalogCache) GetList(ctx context.Context, filter models.CatalogFilter) ([]*models.EquipmentCatalogEntry, bool) {
	v, ok := c.lists[filter.Category]
	return v, ok
}
func (c *memoryCatalogCache) SetList(ctx context.Context, filter models.CatalogFilter, entries []*models.EquipmentCatalogEntry) {
	c.lists[filter.Category] = entries
}
func (c *memoryCatalogCache) Invalidate(ctx context.Context) {
	c.invalidated++
	c.lists = map[string][]*models.EquipmentCatalogEntry{}
}

type capturingStore struct {
	key  string
	body []byte
}

var _ ObjectStore = (*capturingStore)(nil)

func (s *capturingStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.key, s.body = key, b
	return "https://cdn.example.com/" + key, nil
}

type fakeStaff struct {
	members      map[string]*models.StaffMember
	shifts       []models.Shift
	availability map[string]*models.StaffAvailability
	timeOff      map[string]*models.TimeOffRequest
	approvedOff  map[string]bool
}

var _ interfaces.StaffRepository = (*fakeStaff)(nil)

func newFakeStaff() *fakeStaff {
	return &fakeStaff{
		members:      map[string]*models.StaffMember{},
		availability: map[string]*models.StaffAvailability{},
		timeOff:      map[string]*models.TimeOffRequest{},
		approvedOff:  map[string]bool{},
	}
}

func (f *fakeStaff) GetMember(ctx context.Context, staffID string) (*models.StaffMember, error) {
	m, ok := f.members[staffID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return m, nil
}
func (f *fakeStaff) ShiftsBetween(ctx context.Context, staffID, from, to string) ([]models.Shift, error) {
	var out []models.Shift
	for _, s := range f.shifts {
		if s.StaffID == staffID && s.ShiftDate >= from && s.ShiftDate <= to {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeStaff) CreateShift(ctx context.Context, s *models.Shift) error {
	f.shifts = append(f.shifts, *s)
	return nil
}
func (f *fakeStaff) ListShifts(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, error) {
	return f.shifts, nil
}
func (f *fakeStaff) GetShift(ctx context.Context, id string) (*models.Shift, error) {
	for _, s := range f.shifts {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}
func (f *fakeStaff) DeleteShift(ctx context.Context, id string) error {
	for i, s := range f.shifts {
		if s.ID == id {
			f.shifts = append(f.shifts[:i], f.shifts[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}
func (f *fakeStaff) GetAvailability(ctx context.Context, staffID, venueID, weekStart string) (*models.StaffAvailability, error) {
	a, ok := f.availability[staffID+"|"+venueID+"|"+weekStart]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}
func (f *fakeStaff) ListAvailability(ctx context.Context, filter models.AvailabilityFilter) ([]*models.StaffAvailability, error) {
	var out []*models.StaffAvailability
	for _, a := range f.availability {
		out = append(out, a)
	}
	return out, nil
}
func (f *fakeStaff) UpsertAvailability(ctx context.Context, a *models.StaffAvailability) error {
	key := a.StaffID + "|" + a.VenueID + "|" + a.WeekStartDate
	if existing, ok := f.availability[key]; ok {
		a.ID = existing.ID
	}
	f.availability[key] = a
	return nil
}
func (f *fakeStaff) CreateTimeOff(ctx context.Context, t *models.TimeOffRequest) error {
	f.timeOff[t.ID] = t
	return nil
}
func (f *fakeStaff) GetTimeOff(ctx context.Context, id string) (*models.TimeOffRequest, error) {
	t, ok := f.timeOff[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}
func (f *fakeStaff) ListTimeOff(ctx context.Context, filter models.TimeOffFilter) ([]*models.TimeOffRequest, error) {
	var out []*models.TimeOffRequest
	for _, t := range f.timeOff {
		out = append(out, t)
	}
	return out, nil
}
func (f *fakeStaff) DecideTimeOff(ctx context.Context, id string, status models.TimeOffStatus, decidedBy string) (*models.TimeOffRequest, error) {
	t, ok := f.timeOff[id]
	if !ok || t.Status != models.TimeOffPending {
		return nil, sql.ErrNoRows
	}
	t.Status = status
	t.DecidedBy = &decidedBy
	cp := *t
	return &cp, nil
}
func (f *fakeStaff) ApprovedTimeOffOn(ctx context.Context, staffID, date string) (bool, error) {
	return f.approvedOff[staffID+"|"+date], nil
}
