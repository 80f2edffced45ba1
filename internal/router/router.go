// Package router sets up all HTTP routes and middleware chains for
// MenuPress. Routes are organized into the public surface (themed menu
// pages, short links, the read-only menu JSON) and the authenticated
// admin JSON API.
package router

import (
	"github.com/go-chi/chi/v5"

	"menupress/internal/handlers"
	"menupress/internal/middleware"
	"menupress/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimiter guards the credential and
// short-link endpoints, the only unauthenticated write surfaces.
func New(sessionStore *session.Store, loginLimiter *middleware.RateLimiter, auth *handlers.AuthHandler, admin *handlers.AdminHandler, public *handlers.PublicHandler) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", handlers.Health)

	// Auth endpoints — CSRF-protected; login additionally rate-limited.
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", auth.Me)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})
	})

	// Authenticated + 2FA-verified admin API.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)

		r.Get("/subscription", admin.GetSubscription)

		// Persistence log — admin only.
		r.With(middleware.RequireAdmin).Get("/sync-log", admin.RecentSyncLog)

		// Saved themes and presets.
		r.Route("/themes", func(r chi.Router) {
			r.Get("/presets", admin.ListThemePresets)
			r.Get("/", admin.ListUserThemes)
			r.Post("/", admin.CreateUserTheme)
			r.Put("/{themeID}", admin.UpdateUserTheme)
			r.Delete("/{themeID}", admin.DeleteUserTheme)
		})

		// Restaurants and their menu trees.
		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", admin.ListRestaurants)
			r.Post("/", admin.CreateRestaurant)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", admin.GetRestaurant)
				r.Patch("/", admin.UpdateRestaurant)
				r.Delete("/", admin.DeleteRestaurant)
				r.Post("/publish", admin.SetPublished)
				r.Post("/theme", admin.ActivateTheme)

				// Short link sharing.
				r.Post("/link", admin.EnsureShortLink)
				r.Get("/link/qr", admin.ShortLinkQR)
				r.Delete("/link", admin.DeactivateShortLink)

				// Menu tree editing. The events stream mirrors every
				// mutation to connected editor tabs.
				r.Get("/menu", admin.GetMenu)
				r.Get("/menu/events", admin.MenuEvents)

				r.Route("/categories", func(r chi.Router) {
					r.Post("/", admin.AddCategory)
					r.Put("/order", admin.ReorderCategories)
					r.Patch("/{categoryID}", admin.RenameCategory)
					r.Delete("/{categoryID}", admin.DeleteCategory)
					r.Post("/{categoryID}/subcategories", admin.AddSubcategory)
					r.Put("/{categoryID}/subcategories/order", admin.ReorderSubcategories)
				})

				r.Route("/subcategories/{subcategoryID}", func(r chi.Router) {
					r.Patch("/", admin.RenameSubcategory)
					r.Delete("/", admin.DeleteSubcategory)
					r.Post("/dishes", admin.AddDish)
					r.Put("/dishes/order", admin.ReorderDishes)
				})

				r.Route("/dishes/{dishID}", func(r chi.Router) {
					r.Patch("/", admin.UpdateDish)
					r.Delete("/", admin.DeleteDish)
					r.Put("/extras", admin.SaveDishExtras)
				})
			})
		})
	})

	// Public routes.
	r.Get("/api/menu/{slug}", public.MenuJSON)
	r.With(loginLimiter.Middleware).Get("/m/{hash}/{menuID}", public.ShortLink)
	r.Get("/{slug}", public.MenuPage)

	return r
}
