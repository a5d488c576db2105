package routers

import (
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"
	"clinic-portal-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAvailabilityRoutes(router chi.Router, middlewares *middlewares.Middlewares, availabilityController *controllers.AvailabilityController) {
	staffOnly := middlewares.RequireRoles(constvars.RoleClinician, constvars.RoleAdmin)

	router.Get("/availability", availabilityController.GetWeekly)
	router.With(staffOnly).Put("/availability", availabilityController.UpsertWeekly)
	router.Get("/calendar", availabilityController.GetCalendar)
	router.Get("/availability/exceptions", availabilityController.ListExceptions)
	router.With(staffOnly).Post("/availability/exceptions", availabilityController.CreateException)
	router.With(staffOnly).Delete("/availability/exceptions/{exceptionID}", availabilityController.DeleteException)
}
