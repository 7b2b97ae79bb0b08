package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"tourify/internal/handlers"
	"tourify/internal/repository"
	"tourify/internal/services"
)

func RegisterSiteMapRoutes(r chi.Router, db *sql.DB, activity services.ActivityRecorder) {
	gate := services.NewPermissionGate(repository.NewAccessRepository(db))
	svc := services.NewSiteMapService(gate, services.SiteMapStores{
		SiteMaps: repository.NewSiteMapRepository(db),
		Layers:   repository.NewLayerRepository(db),
		Elements: repository.NewElementRepository(db),
		Zones:    repository.NewZoneRepository(db),
		Tents:    repository.NewTentRepository(db),
		Activity: repository.NewActivityRepository(db),
	}, activity)

	siteMaps := handlers.NewSiteMapHandler(svc)
	layers := handlers.NewLayerHandler(svc)
	elements := handlers.NewElementHandler(svc)
	zones := handlers.NewZoneHandler(svc)
	tents := handlers.NewTentHandler(svc)

	r.Route("/site-maps", func(r chi.Router) {
		r.Get("/", siteMaps.ListSiteMaps)
		r.Post("/", siteMaps.CreateSiteMap)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", siteMaps.GetSiteMap)
			r.Put("/", siteMaps.UpdateSiteMap)
			r.Delete("/", siteMaps.DeleteSiteMap)
			r.Get("/activity", siteMaps.ListActivity)

			r.Get("/layers", layers.ListLayers)
			r.Post("/layers", layers.CreateLayer)
			r.Get("/layers/{layerId}", layers.GetLayer)
			r.Put("/layers/{layerId}", layers.UpdateLayer)
			r.Delete("/layers/{layerId}", layers.DeleteLayer)

			r.Get("/elements", elements.ListElements)
			r.Post("/elements", elements.CreateElement)
			r.Get("/elements/{elementId}", elements.GetElement)
			r.Put("/elements/{elementId}", elements.UpdateElement)
			r.Delete("/elements/{elementId}", elements.DeleteElement)

			r.Get("/zones", zones.ListZones)
			r.Post("/zones", zones.CreateZone)
			r.Put("/zones/{zoneId}", zones.UpdateZone)
			r.Delete("/zones/{zoneId}", zones.DeleteZone)

			r.Get("/tents", tents.ListTents)
			r.Post("/tents", tents.CreateTent)
			r.Get("/tents/{tentId}", tents.GetTent)
			r.Put("/tents/{tentId}", tents.UpdateTent)
			r.Delete("/tents/{tentId}", tents.DeleteTent)
		})
	})
}
