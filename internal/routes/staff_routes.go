package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"tourify/internal/handlers"
	"tourify/internal/repository"
	"tourify/internal/services"
)

func RegisterStaffRoutes(r chi.Router, db *sql.DB, activity services.ActivityRecorder) {
	gate := services.NewPermissionGate(repository.NewAccessRepository(db))
	svc := services.NewStaffingService(gate, repository.NewStaffRepository(db), activity)
	handler := handlers.NewStaffHandler(svc)

	r.Route("/venue/staff", func(r chi.Router) {
		r.Get("/availability", handler.GetAvailability)
		r.Post("/availability", handler.UpdateAvailability)
		r.Post("/availability/check", handler.CheckAvailability)

		r.Get("/shifts", handler.ListShifts)
		r.Post("/shifts", handler.CreateShift)
		r.Delete("/shifts/{id}", handler.DeleteShift)

		r.Get("/time-off", handler.ListTimeOff)
		r.Post("/time-off", handler.CreateTimeOff)
		r.Put("/time-off/{id}/decision", handler.DecideTimeOff)
	})
}
