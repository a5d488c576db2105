package routers

import (
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.Get("/", appointmentController.FindAll)
	router.Post("/", appointmentController.Create)
	router.Get("/{id}", appointmentController.FindByID)
	router.Patch("/{id}", appointmentController.Update)
	router.Delete("/{id}", appointmentController.Delete)
}
