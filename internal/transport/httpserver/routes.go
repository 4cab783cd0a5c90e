package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"family-hub-go/internal/config"
	"family-hub-go/internal/metrics"
	"family-hub-go/internal/transport/httpserver/handler"
	authmw "family-hub-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth, tenancy *authmw.Tenancy, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/login", handlers.Login)
		r.Post("/auth/register", handlers.Register)
		r.Get("/families/code/{code}", handlers.LookupFamilyByCode)

		// Telegram calls the webhook directly, no bearer token.
		r.Post("/telegram/webhook/{family_id}", handlers.TelegramWebhook)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Me)
			r.Get("/users/me/profile", handlers.GetProfile)
			r.Put("/users/me/profile", handlers.UpdateProfile)
			r.Put("/users/me/password", handlers.ChangePassword)

			// Administration: visible to staff and admins only.
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireStaff)

				r.Get("/users", handlers.ListUsers)
				r.Post("/users", handlers.CreateUser)
				r.Get("/users/{user_id}", handlers.GetUser)
				r.Post("/users/{user_id}/toggle-active", handlers.ToggleUserActive)
				r.Put("/users/{user_id}/permissions", handlers.UpdateUserPermissions)

				r.Get("/families", handlers.ListFamilies)
				r.Post("/families", handlers.CreateFamily)
				r.Put("/families/{family_id}", handlers.RenameFamily)
				r.Delete("/families/{family_id}", handlers.DeleteFamily)
			})

			// Everything below is family scoped.
			r.Group(func(r chi.Router) {
				r.Use(tenancy.Middleware)

				r.Get("/families/accessible", handlers.ListAccessibleFamilies)
				r.Get("/families/{family_id}", handlers.GetFamily)

				r.Get("/members", handlers.ListMembers)
				r.Post("/members", handlers.CreateMember)
				r.Post("/members/reorder", handlers.ReorderMembers)
				r.Get("/members/{member_id}", handlers.GetMember)
				r.Put("/members/{member_id}", handlers.UpdateMember)
				r.Delete("/members/{member_id}", handlers.DeleteMember)

				r.Get("/appointments", handlers.ListAppointments)
				r.Post("/appointments", handlers.CreateAppointment)
				r.Put("/appointments/{appointment_id}", handlers.UpdateAppointment)
				r.Delete("/appointments/{appointment_id}", handlers.DeleteAppointment)

				r.Get("/procedures", handlers.ListProcedures)
				r.Post("/procedures", handlers.CreateProcedure)
				r.Put("/procedures/{procedure_id}", handlers.UpdateProcedure)
				r.Delete("/procedures/{procedure_id}", handlers.DeleteProcedure)

				r.Get("/medications", handlers.ListMedications)
				r.Post("/medications", handlers.CreateMedication)
				r.Put("/medications/{medication_id}", handlers.UpdateMedication)
				r.Delete("/medications/{medication_id}", handlers.DeleteMedication)

				r.Get("/equipment", handlers.ListEquipment)
				r.Post("/equipment", handlers.CreateEquipment)
				r.Get("/equipment/{equipment_id}", handlers.GetEquipment)
				r.Put("/equipment/{equipment_id}", handlers.UpdateEquipment)
				r.Delete("/equipment/{equipment_id}", handlers.DeleteEquipment)

				r.Get("/maintenance-orders", handlers.ListOrders)
				r.Post("/maintenance-orders", handlers.CreateOrder)
				r.Get("/maintenance-orders/{order_id}", handlers.GetOrder)
				r.Put("/maintenance-orders/{order_id}", handlers.UpdateOrder)
				r.Delete("/maintenance-orders/{order_id}", handlers.DeleteOrder)
				r.Get("/maintenance/stats", handlers.MaintenanceStats)

				r.Get("/dashboard/preferences", handlers.GetDashboardPreference)
				r.Put("/dashboard/preferences", handlers.UpdateDashboardPreference)
				r.Get("/dashboard/summary", handlers.DashboardSummary)

				r.Get("/telegram/family/bot", handlers.GetTelegramBotConfig)
				r.Put("/telegram/family/bot", handlers.UpdateTelegramBotConfig)
				r.Get("/telegram/family/ai", handlers.GetTelegramAIConfig)
				r.Put("/telegram/family/ai", handlers.UpdateTelegramAIConfig)
				r.Get("/telegram/me", handlers.GetTelegramStatus)
				r.Put("/telegram/me", handlers.UpdateTelegramPreferences)
				r.Post("/telegram/link", handlers.GenerateTelegramLinkCode)
				r.Delete("/telegram/unlink", handlers.UnlinkTelegram)
			})
		})
	})

	return r
}
