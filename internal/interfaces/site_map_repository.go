package interfaces

import (
	"context"

	"tourify/internal/models"
)

type SiteMapRepository interface {
	Create(ctx context.Context, siteMap *models.SiteMap) error
	GetByID(ctx context.Context, id string) (*models.SiteMap, error)
	ListByVenue(ctx context.Context, venueID string, limit, offset int) ([]*models.SiteMap, int, error)
	Update(ctx context.Context, siteMap *models.SiteMap) error
	Delete(ctx context.Context, id string) error
}

type LayerRepository interface {
	Create(ctx context.Context, layer *models.Layer) error
	GetByID(ctx context.Context, id string) (*models.Layer, error)
	ListBySiteMap(ctx context.Context, siteMapID string) ([]*models.Layer, error)
	Update(ctx context.Context, layer *models.Layer) error
	Delete(ctx context.Context, siteMapID, id string) error
}

type ElementRepository interface {
	Create(ctx context.Context, element *models.Element) error
	GetByID(ctx context.Context, siteMapID, id string) (*models.Element, error)
	List(ctx context.Context, siteMapID, layerID string) ([]*models.Element, error)
	// Update writes only the supplied columns and merges the supplied
	// properties into the stored ones in a single statement.
	Update(ctx context.Context, siteMapID, id string, patch *models.UpdateElementRequest) (*models.Element, error)
	Delete(ctx context.Context, siteMapID, id string) error
}

type ZoneRepository interface {
	Create(ctx context.Context, zone *models.Zone) error
	GetByID(ctx context.Context, siteMapID, id string) (*models.Zone, error)
	ListBySiteMap(ctx context.Context, siteMapID string) ([]*models.Zone, error)
	Update(ctx context.Context, zone *models.Zone) error
	Delete(ctx context.Context, siteMapID, id string) error
}

type TentRepository interface {
	Create(ctx context.Context, tent *models.Tent) error
	GetByID(ctx context.Context, siteMapID, id string) (*models.Tent, error)
	List(ctx context.Context, filter models.TentFilter) ([]*models.Tent, error)
	// NumberExists ignores the tent with excludeID so a tent can keep its own number.
	NumberExists(ctx context.Context, siteMapID, tentNumber, excludeID string) (bool, error)
	Update(ctx context.Context, tent *models.Tent) error
	Delete(ctx context.Context, siteMapID, id string) error
}
