package services

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"tourify/internal/apperr"
	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const tentNumberConstraint = "tents_site_map_tent_number_key"

// ElementTypeCustom is stored for any element type outside the allow-list.
const ElementTypeCustom = "custom"

var allowedElementTypes = map[string]bool{
	"rectangle": true, "circle": true, "polygon": true, "line": true, "path": true, "text": true,
	"road": true, "fence": true, "building": true, "sign": true, "stage": true, "booth": true,
	"tent": true, "entrance": true, "exit": true, "parking": true, "toilet": true, "first_aid": true,
	"water": true, "power": true, "equipment": true, "tree": true, "barrier": true,
	ElementTypeCustom: true,
}

// NormalizeElementType lower-cases t and coerces unknown types to "custom".
func NormalizeElementType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if allowedElementTypes[t] {
		return t
	}
	return ElementTypeCustom
}

type SiteMapStores struct {
	SiteMaps interfaces.SiteMapRepository
	Layers   interfaces.LayerRepository
	Elements interfaces.ElementRepository
	Zones    interfaces.ZoneRepository
	Tents    interfaces.TentRepository
	Activity interfaces.ActivityRepository
}

type SiteMapService struct {
	gate     PermissionGate
	siteMaps interfaces.SiteMapRepository
	layers   interfaces.LayerRepository
	elements interfaces.ElementRepository
	zones    interfaces.ZoneRepository
	tents    interfaces.TentRepository
	log      interfaces.ActivityRepository
	activity ActivityRecorder
}

func NewSiteMapService(gate PermissionGate, stores SiteMapStores, activity ActivityRecorder) *SiteMapService {
	return &SiteMapService{
		gate:     gate,
		siteMaps: stores.SiteMaps,
		layers:   stores.Layers,
		elements: stores.Elements,
		zones:    stores.Zones,
		tents:    stores.Tents,
		log:      stores.Activity,
		activity: recorderOrNoop(activity),
	}
}

func (s *SiteMapService) record(actorID, action, entityType, entityID, siteMapID string, before, after any) {
	s.activity.Record(newActivity(actorID, action, entityType, entityID, string(models.EntitySiteMap), siteMapID, before, after))
}

// requireSiteMap loads the site map and checks perm on it.
func (s *SiteMapService) requireSiteMap(ctx context.Context, actorID, siteMapID string, perm models.Permission) (*models.SiteMap, error) {
	m, err := s.siteMaps.GetByID(ctx, siteMapID)
	if err != nil {
		return nil, notFoundOr(err, "site_map", "load site map")
	}
	if err := authorize(ctx, s.gate, actorID, models.EntitySiteMap, siteMapID, perm); err != nil {
		return nil, err
	}
	return m, nil
}

// Site maps

func (s *SiteMapService) CreateSiteMap(ctx context.Context, actorID string, req *models.CreateSiteMapRequest) (*models.SiteMap, error) {
	if err := authorize(ctx, s.gate, actorID, models.EntityVenue, req.VenueID, models.PermissionWrite); err != nil {
		return nil, err
	}

	m := &models.SiteMap{
		ID:              uuid.NewString(),
		VenueID:         req.VenueID,
		Name:            req.Name,
		Description:     req.Description,
		Width:           1000,
		Height:          1000,
		BackgroundColor: "#ffffff",
		CreatedBy:       actorID,
	}
	if req.Width != nil {
		m.Width = *req.Width
	}
	if req.Height != nil {
		m.Height = *req.Height
	}
	if req.BackgroundColor != "" {
		m.BackgroundColor = req.BackgroundColor
	}

	if err := s.siteMaps.Create(ctx, m); err != nil {
		return nil, apperr.Dependency("create site map", err)
	}
	s.record(actorID, "create", "site_map", m.ID, m.ID, nil, m)
	return m, nil
}

func (s *SiteMapService) GetSiteMap(ctx context.Context, actorID, id string) (*models.SiteMap, error) {
	return s.requireSiteMap(ctx, actorID, id, models.PermissionRead)
}

func (s *SiteMapService) ListSiteMaps(ctx context.Context, actorID, venueID string, page, pageSize int) ([]*models.SiteMap, int, error) {
	if err := authorize(ctx, s.gate, actorID, models.EntityVenue, venueID, models.PermissionRead); err != nil {
		return nil, 0, err
	}
	page, pageSize = clampPage(page, pageSize)
	items, total, err := s.siteMaps.ListByVenue(ctx, venueID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperr.Dependency("list site maps", err)
	}
	return items, total, nil
}

func (s *SiteMapService) UpdateSiteMap(ctx context.Context, actorID, id string, req *models.UpdateSiteMapRequest) (*models.SiteMap, error) {
	m, err := s.requireSiteMap(ctx, actorID, id, models.PermissionWrite)
	if err != nil {
		return nil, err
	}
	before := *m

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Width != nil {
		m.Width = *req.Width
	}
	if req.Height != nil {
		m.Height = *req.Height
	}
	if req.BackgroundColor != nil {
		m.BackgroundColor = *req.BackgroundColor
	}

	if err := s.siteMaps.Update(ctx, m); err != nil {
		return nil, notFoundOr(err, "site_map", "update site map")
	}
	s.record(actorID, "update", "site_map", m.ID, m.ID, before, m)
	return m, nil
}

func (s *SiteMapService) DeleteSiteMap(ctx context.Context, actorID, id string) error {
	m, err := s.requireSiteMap(ctx, actorID, id, models.PermissionAdmin)
	if err != nil {
		return err
	}
	if err := s.siteMaps.Delete(ctx, id); err != nil {
		return notFoundOr(err, "site_map", "delete site map")
	}
	s.record(actorID, "delete", "site_map", id, id, m, nil)
	return nil
}

// ListActivity pages through the audit trail of a site map, newest first.
func (s *SiteMapService) ListActivity(ctx context.Context, actorID, siteMapID string, page, pageSize int) ([]*models.ActivityEntry, int, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionRead); err != nil {
		return nil, 0, err
	}
	page, pageSize = clampPage(page, pageSize)
	items, total, err := s.log.List(ctx, models.ActivityFilter{
		ScopeType: string(models.EntitySiteMap),
		ScopeID:   siteMapID,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, apperr.Dependency("list activity", err)
	}
	return items, total, nil
}

// Layers

func (s *SiteMapService) ListLayers(ctx context.Context, actorID, siteMapID string) ([]*models.Layer, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionRead); err != nil {
		return nil, err
	}
	layers, err := s.layers.ListBySiteMap(ctx, siteMapID)
	if err != nil {
		return nil, apperr.Dependency("list layers", err)
	}
	return layers, nil
}

func (s *SiteMapService) CreateLayer(ctx context.Context, actorID, siteMapID string, req *models.CreateLayerRequest) (*models.Layer, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return nil, err
	}

	l := &models.Layer{
		ID:        uuid.NewString(),
		SiteMapID: siteMapID,
		Name:      req.Name,
		Color:     "#3b82f6",
		ZIndex:    req.ZIndex,
		IsVisible: true,
		IsLocked:  req.IsLocked,
		Opacity:   1,
	}
	if req.Color != "" {
		l.Color = req.Color
	}
	if req.IsVisible != nil {
		l.IsVisible = *req.IsVisible
	}
	if req.Opacity != nil {
		l.Opacity = *req.Opacity
	}

	if err := s.layers.Create(ctx, l); err != nil {
		return nil, apperr.Dependency("create layer", err)
	}
	s.record(actorID, "create", "layer", l.ID, siteMapID, nil, l)
	return l, nil
}

// loadLayer fetches the layer, confirms it lives on siteMapID and then
// checks perm against that site map.
func (s *SiteMapService) loadLayer(ctx context.Context, actorID, siteMapID, layerID string, perm models.Permission) (*models.Layer, error) {
	l, err := s.layers.GetByID(ctx, layerID)
	if err != nil {
		return nil, notFoundOr(err, "layer", "load layer")
	}
	if l.SiteMapID != siteMapID {
		return nil, apperr.NotFound("layer")
	}
	if err := authorize(ctx, s.gate, actorID, models.EntitySiteMap, l.SiteMapID, perm); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SiteMapService) GetLayer(ctx context.Context, actorID, siteMapID, layerID string) (*models.Layer, error) {
	return s.loadLayer(ctx, actorID, siteMapID, layerID, models.PermissionRead)
}

func (s *SiteMapService) UpdateLayer(ctx context.Context, actorID, siteMapID, layerID string, req *models.UpdateLayerRequest) (*models.Layer, error) {
	l, err := s.loadLayer(ctx, actorID, siteMapID, layerID, models.PermissionWrite)
	if err != nil {
		return nil, err
	}
	before := *l

	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Color != nil {
		l.Color = *req.Color
	}
	if req.ZIndex != nil {
		l.ZIndex = *req.ZIndex
	}
	if req.IsVisible != nil {
		l.IsVisible = *req.IsVisible
	}
	if req.IsLocked != nil {
		l.IsLocked = *req.IsLocked
	}
	if req.Opacity != nil {
		l.Opacity = *req.Opacity
	}

	if err := s.layers.Update(ctx, l); err != nil {
		return nil, notFoundOr(err, "layer", "update layer")
	}
	s.record(actorID, "update", "layer", l.ID, siteMapID, before, l)
	return l, nil
}

func (s *SiteMapService) DeleteLayer(ctx context.Context, actorID, siteMapID, layerID string) error {
	l, err := s.loadLayer(ctx, actorID, siteMapID, layerID, models.PermissionWrite)
	if err != nil {
		return err
	}
	if err := s.layers.Delete(ctx, siteMapID, layerID); err != nil {
		return notFoundOr(err, "layer", "delete layer")
	}
	s.record(actorID, "delete", "layer", layerID, siteMapID, l, nil)
	return nil
}

// Elements

func (s *SiteMapService) checkLayerOnSiteMap(ctx context.Context, siteMapID string, layerID *string) error {
	if layerID == nil || *layerID == "" {
		return nil
	}
	l, err := s.layers.GetByID(ctx, *layerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Validation("invalid_layer", "Layer does not belong to this site map")
		}
		return apperr.Dependency("load layer", err)
	}
	if l.SiteMapID != siteMapID {
		return apperr.Validation("invalid_layer", "Layer does not belong to this site map")
	}
	return nil
}

func (s *SiteMapService) ListElements(ctx context.Context, actorID, siteMapID, layerID string) ([]*models.Element, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionRead); err != nil {
		return nil, err
	}
	elements, err := s.elements.List(ctx, siteMapID, layerID)
	if err != nil {
		return nil, apperr.Dependency("list elements", err)
	}
	return elements, nil
}

func (s *SiteMapService) GetElement(ctx context.Context, actorID, siteMapID, elementID string) (*models.Element, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionRead); err != nil {
		return nil, err
	}
	e, err := s.elements.GetByID(ctx, siteMapID, elementID)
	if err != nil {
		return nil, notFoundOr(err, "element", "load element")
	}
	return e, nil
}

func (s *SiteMapService) CreateElement(ctx context.Context, actorID, siteMapID string, req *models.CreateElementRequest) (*models.Element, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return nil, err
	}
	if err := s.checkLayerOnSiteMap(ctx, siteMapID, req.LayerID); err != nil {
		return nil, err
	}

	e := &models.Element{
		ID:          uuid.NewString(),
		SiteMapID:   siteMapID,
		LayerID:     req.LayerID,
		ElementType: NormalizeElementType(req.ElementType),
		Name:        req.Name,
		X:           req.X,
		Y:           req.Y,
		Width:       req.Width,
		Height:      req.Height,
		Rotation:    req.Rotation,
		FillColor:   req.FillColor,
		StrokeColor: req.StrokeColor,
		StrokeWidth: 1,
		Properties:  req.Properties,
		Path:        req.Path,
		CreatedBy:   actorID,
	}
	if req.StrokeWidth != nil {
		e.StrokeWidth = *req.StrokeWidth
	}
	if e.Path == nil {
		e.Path = models.ElementPath{}
	}

	if err := s.elements.Create(ctx, e); err != nil {
		return nil, apperr.Dependency("create element", err)
	}
	s.record(actorID, "create", "element", e.ID, siteMapID, nil, e)
	return e, nil
}

// UpdateElement writes only the supplied fields; supplied properties are
// merged into the stored ones by the store in the same statement.
func (s *SiteMapService) UpdateElement(ctx context.Context, actorID, siteMapID, elementID string, req *models.UpdateElementRequest) (*models.Element, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return nil, err
	}
	if err := s.checkLayerOnSiteMap(ctx, siteMapID, req.LayerID); err != nil {
		return nil, err
	}
	if req.ElementType != nil {
		t := NormalizeElementType(*req.ElementType)
		req.ElementType = &t
	}

	e, err := s.elements.Update(ctx, siteMapID, elementID, req)
	if err != nil {
		return nil, notFoundOr(err, "element", "update element")
	}
	s.record(actorID, "update", "element", e.ID, siteMapID, nil, req)
	return e, nil
}

func (s *SiteMapService) DeleteElement(ctx context.Context, actorID, siteMapID, elementID string) error {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return err
	}
	if err := s.elements.Delete(ctx, siteMapID, elementID); err != nil {
		return notFoundOr(err, "element", "delete element")
	}
	s.record(actorID, "delete", "element", elementID, siteMapID, nil, nil)
	return nil
}

// Zones

func (s *SiteMapService) ListZones(ctx context.Context, actorID, siteMapID string) ([]*models.Zone, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionRead); err != nil {
		return nil, err
	}
	zones, err := s.zones.ListBySiteMap(ctx, siteMapID)
	if err != nil {
		return nil, apperr.Dependency("list zones", err)
	}
	return zones, nil
}

func (s *SiteMapService) CreateZone(ctx context.Context, actorID, siteMapID string, req *models.CreateZoneRequest) (*models.Zone, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return nil, err
	}

	z := &models.Zone{
		ID:        uuid.NewString(),
		SiteMapID: siteMapID,
		Name:      req.Name,
		ZoneType:  "general",
		Color:     "#10b981",
		Capacity:  req.Capacity,
		X:         req.X,
		Y:         req.Y,
		Width:     req.Width,
		Height:    req.Height,
	}
	if req.ZoneType != "" {
		z.ZoneType = req.ZoneType
	}
	if req.Color != "" {
		z.Color = req.Color
	}

	if err := s.zones.Create(ctx, z); err != nil {
		return nil, apperr.Dependency("create zone", err)
	}
	s.record(actorID, "create", "zone", z.ID, siteMapID, nil, z)
	return z, nil
}

func (s *SiteMapService) UpdateZone(ctx context.Context, actorID, siteMapID, zoneID string, req *models.UpdateZoneRequest) (*models.Zone, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return nil, err
	}
	z, err := s.zones.GetByID(ctx, siteMapID, zoneID)
	if err != nil {
		return nil, notFoundOr(err, "zone", "load zone")
	}
	before := *z

	if req.Name != nil {
		z.Name = *req.Name
	}
	if req.ZoneType != nil {
		z.ZoneType = *req.ZoneType
	}
	if req.Color != nil {
		z.Color = *req.Color
	}
	if req.Capacity != nil {
		z.Capacity = req.Capacity
	}
	if req.X != nil {
		z.X = *req.X
	}
	if req.Y != nil {
		z.Y = *req.Y
	}
	if req.Width != nil {
		z.Width = *req.Width
	}
	if req.Height != nil {
		z.Height = *req.Height
	}

	if err := s.zones.Update(ctx, z); err != nil {
		return nil, notFoundOr(err, "zone", "update zone")
	}
	s.record(actorID, "update", "zone", z.ID, siteMapID, before, z)
	return z, nil
}

func (s *SiteMapService) DeleteZone(ctx context.Context, actorID, siteMapID, zoneID string) error {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return err
	}
	if err := s.zones.Delete(ctx, siteMapID, zoneID); err != nil {
		return notFoundOr(err, "zone", "delete zone")
	}
	s.record(actorID, "delete", "zone", zoneID, siteMapID, nil, nil)
	return nil
}

// Tents

func duplicateTentNumber() *apperr.Error {
	return apperr.Conflict("duplicate_tent_number", "Tent number already exists in this site map").
		WithStatus(http.StatusBadRequest)
}

func isTentNumberViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == tentNumberConstraint
}

func (s *SiteMapService) checkZone(ctx context.Context, siteMapID string, zoneID *string) error {
	if zoneID == nil || *zoneID == "" {
		return nil
	}
	if _, err := s.zones.GetByID(ctx, siteMapID, *zoneID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Validation("invalid_zone", "Invalid zone")
		}
		return apperr.Dependency("load zone", err)
	}
	return nil
}

func (s *SiteMapService) ListTents(ctx context.Context, actorID string, filter models.TentFilter) ([]*models.Tent, error) {
	if _, err := s.requireSiteMap(ctx, actorID, filter.SiteMapID, models.PermissionRead); err != nil {
		return nil, err
	}
	tents, err := s.tents.List(ctx, filter)
	if err != nil {
		return nil, apperr.Dependency("list tents", err)
	}
	return tents, nil
}

func (s *SiteMapService) GetTent(ctx context.Context, actorID, siteMapID, tentID string) (*models.Tent, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionRead); err != nil {
		return nil, err
	}
	t, err := s.tents.GetByID(ctx, siteMapID, tentID)
	if err != nil {
		return nil, notFoundOr(err, "tent", "load tent")
	}
	return t, nil
}

// CreateTent pre-checks the tent number for a friendly error; the unique
// index on (site_map_id, tent_number) is what actually guarantees it.
func (s *SiteMapService) CreateTent(ctx context.Context, actorID, siteMapID string, req *models.CreateTentRequest) (*models.Tent, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return nil, err
	}
	if err := s.checkZone(ctx, siteMapID, req.ZoneID); err != nil {
		return nil, err
	}

	tentNumber := strings.TrimSpace(req.TentNumber)
	exists, err := s.tents.NumberExists(ctx, siteMapID, tentNumber, "")
	if err != nil {
		return nil, apperr.Dependency("create tent", err)
	}
	if exists {
		return nil, duplicateTentNumber()
	}

	t := &models.Tent{
		ID:            uuid.NewString(),
		SiteMapID:     siteMapID,
		ZoneID:        req.ZoneID,
		TentNumber:    tentNumber,
		TentType:      "standard",
		Capacity:      2,
		X:             req.X,
		Y:             req.Y,
		Width:         req.Width,
		Height:        req.Height,
		Rotation:      req.Rotation,
		Amenities:     req.Amenities,
		PricePerNight: req.PricePerNight,
		Status:        models.TentStatusAvailable,
	}
	if req.TentType != "" {
		t.TentType = req.TentType
	}
	if req.Capacity > 0 {
		t.Capacity = req.Capacity
	}
	if req.Status != "" {
		t.Status = models.TentStatus(req.Status)
	}

	if err := s.tents.Create(ctx, t); err != nil {
		if isTentNumberViolation(err) {
			return nil, duplicateTentNumber()
		}
		return nil, apperr.Dependency("create tent", err)
	}
	s.record(actorID, "create", "tent", t.ID, siteMapID, nil, t)
	return t, nil
}

func (s *SiteMapService) UpdateTent(ctx context.Context, actorID, siteMapID, tentID string, req *models.UpdateTentRequest) (*models.Tent, error) {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return nil, err
	}
	t, err := s.tents.GetByID(ctx, siteMapID, tentID)
	if err != nil {
		return nil, notFoundOr(err, "tent", "load tent")
	}
	before := *t

	if req.ZoneID != nil {
		if err := s.checkZone(ctx, siteMapID, req.ZoneID); err != nil {
			return nil, err
		}
		t.ZoneID = req.ZoneID
		if *req.ZoneID == "" {
			t.ZoneID = nil
		}
	}
	if req.TentNumber != nil {
		number := strings.TrimSpace(*req.TentNumber)
		if number != t.TentNumber {
			exists, err := s.tents.NumberExists(ctx, siteMapID, number, t.ID)
			if err != nil {
				return nil, apperr.Dependency("update tent", err)
			}
			if exists {
				return nil, duplicateTentNumber()
			}
		}
		t.TentNumber = number
	}
	if req.TentType != nil {
		t.TentType = *req.TentType
	}
	if req.Capacity != nil {
		t.Capacity = *req.Capacity
	}
	if req.X != nil {
		t.X = *req.X
	}
	if req.Y != nil {
		t.Y = *req.Y
	}
	if req.Width != nil {
		t.Width = *req.Width
	}
	if req.Height != nil {
		t.Height = *req.Height
	}
	if req.Rotation != nil {
		t.Rotation = *req.Rotation
	}
	if req.Amenities != nil {
		t.Amenities = *req.Amenities
	}
	if req.PricePerNight != nil {
		t.PricePerNight = req.PricePerNight
	}
	if req.Status != nil {
		t.Status = models.TentStatus(*req.Status)
	}

	if err := s.tents.Update(ctx, t); err != nil {
		if isTentNumberViolation(err) {
			return nil, duplicateTentNumber()
		}
		return nil, notFoundOr(err, "tent", "update tent")
	}
	s.record(actorID, "update", "tent", t.ID, siteMapID, before, t)
	return t, nil
}

func (s *SiteMapService) DeleteTent(ctx context.Context, actorID, siteMapID, tentID string) error {
	if _, err := s.requireSiteMap(ctx, actorID, siteMapID, models.PermissionWrite); err != nil {
		return err
	}
	if err := s.tents.Delete(ctx, siteMapID, tentID); err != nil {
		return notFoundOr(err, "tent", "delete tent")
	}
	s.record(actorID, "delete", "tent", tentID, siteMapID, nil, nil)
	return nil
}
