package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"tourify/internal/handlers"
	"tourify/internal/repository"
	"tourify/internal/services"
)

func RegisterEquipmentRoutes(r chi.Router, db *sql.DB, cache services.CatalogCache, store services.ObjectStore, activity services.ActivityRecorder) {
	svc := services.NewEquipmentService(
		repository.NewCatalogRepository(db),
		repository.NewInventoryRepository(db),
		cache,
		store,
		activity,
	)
	catalog := handlers.NewCatalogHandler(svc)
	inventory := handlers.NewInventoryHandler(svc)

	r.Route("/equipment/catalog", func(r chi.Router) {
		r.Get("/", catalog.ListCatalog)
		r.Post("/", catalog.CreateCatalogEntry)
		r.Get("/{id}", catalog.GetCatalogEntry)
		r.Delete("/{id}", catalog.DeleteCatalogEntry)
	})

	r.Get("/vendor/inventory", inventory.GetInventory)
	r.Post("/vendor/inventory", inventory.PostInventoryAction)
}
