package routers

import (
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"
	"clinic-portal-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachDiagnosticsRoutes(router chi.Router, middlewares *middlewares.Middlewares, diagnosticsController *controllers.DiagnosticsController) {
	router.With(middlewares.RequireRoles(constvars.RoleAdmin)).Get("/", diagnosticsController.Run)
}
