package routers

import (
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"
	"clinic-portal-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachClientRoutes(router chi.Router, middlewares *middlewares.Middlewares, clientController *controllers.ClientController) {
	staffOnly := middlewares.RequireRoles(constvars.RoleClinician, constvars.RoleAdmin)

	router.With(staffOnly).Get("/", clientController.FindAll)
	router.With(staffOnly).Post("/", clientController.Create)
	router.Get("/{id}", clientController.FindByID)
	router.Patch("/{id}", clientController.Update)
	router.With(staffOnly).Delete("/{id}", clientController.Delete)
}
