package routers

import (
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"
	"clinic-portal-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAssessmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, assessmentController *controllers.AssessmentController) {
	router.Get("/", assessmentController.FindAll)
	router.Post("/", assessmentController.Create)
	router.Get("/{id}", assessmentController.FindByID)
	router.Patch("/{id}", assessmentController.Update)
	router.With(middlewares.RequireRoles(constvars.RoleClinician, constvars.RoleAdmin)).Delete("/{id}", assessmentController.Delete)
}
