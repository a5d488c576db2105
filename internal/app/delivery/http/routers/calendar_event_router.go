package routers

import (
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"
	"clinic-portal-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachCalendarEventRoutes(router chi.Router, middlewares *middlewares.Middlewares, calendarEventController *controllers.CalendarEventController) {
	router.Use(middlewares.RequireRoles(constvars.RoleClinician, constvars.RoleAdmin))

	router.Get("/", calendarEventController.FindAll)
	router.Post("/", calendarEventController.Create)
	router.Patch("/{id}", calendarEventController.Update)
	router.Delete("/{id}", calendarEventController.Delete)
}
