package routers

import (
	"clinic-portal-service/internal/app/config"
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"
	"clinic-portal-service/internal/pkg/constvars"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	metricsHandler http.Handler,
	availabilityController *controllers.AvailabilityController,
	clientController *controllers.ClientController,
	appointmentController *controllers.AppointmentController,
	calendarEventController *controllers.CalendarEventController,
	assessmentController *controllers.AssessmentController,
	userController *controllers.UserController,
	documentController *controllers.DocumentController,
	diagnosticsController *controllers.DiagnosticsController,
) {
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))

	corsOptions := cors.Options{
		AllowedOrigins:   allowedOrigins(internalConfig.App.FrontendDomain),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constvars.HeaderXRequestID, "X-Request-Priority"},
		ExposedHeaders:   []string{"Link", constvars.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.LimitByIP())
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	router.Get("/healthz", diagnosticsController.Healthz)
	if metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Use(middlewares.Authenticate)
			r.Use(middlewares.RequestPriority)

			r.Route("/clinicians/{clinicianID}", func(r chi.Router) {
				attachAvailabilityRoutes(r, middlewares, availabilityController)
			})

			r.Route("/clients", func(r chi.Router) {
				attachClientRoutes(r, middlewares, clientController)
			})

			r.Route("/appointments", func(r chi.Router) {
				attachAppointmentRoutes(r, middlewares, appointmentController)
			})

			r.Route("/calendar-events", func(r chi.Router) {
				attachCalendarEventRoutes(r, middlewares, calendarEventController)
			})

			r.Route("/assessments", func(r chi.Router) {
				attachAssessmentRoutes(r, middlewares, assessmentController)
			})

			r.Route("/users", func(r chi.Router) {
				attachUserRoutes(r, middlewares, userController)
			})

			r.Route("/documents", func(r chi.Router) {
				attachDocumentRoutes(r, middlewares, documentController)
			})

			r.Route("/diagnostics", func(r chi.Router) {
				attachDiagnosticsRoutes(r, middlewares, diagnosticsController)
			})
		})
	})
}

// allowedOrigins splits a comma separated APP_FRONTEND_DOMAIN, falling back to any origin.
func allowedOrigins(frontendDomain string) []string {
	var origins []string
	for _, origin := range strings.Split(frontendDomain, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
