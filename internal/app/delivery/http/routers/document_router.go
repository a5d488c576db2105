package routers

import (
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"
	"clinic-portal-service/internal/pkg/constvars"
	"time"

	"github.com/go-chi/chi/v5"
)

// Short-window burst guard in front of the hourly redis quota enforced by the usecase.
const documentGenerateBurstPerMinute = 10

func attachDocumentRoutes(router chi.Router, middlewares *middlewares.Middlewares, documentController *controllers.DocumentController) {
	staffOnly := middlewares.RequireRoles(constvars.RoleClinician, constvars.RoleAdmin)

	router.Get("/", documentController.FindAll)
	router.With(staffOnly, middlewares.LimitByUser(documentGenerateBurstPerMinute, time.Minute)).Post("/", documentController.Generate)
	router.Get("/{id}", documentController.FindByID)
	router.Get("/{id}/download", documentController.Download)
	router.With(staffOnly).Delete("/{id}", documentController.Delete)
}
