package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gani-23/KrushiGowrava/internal/chatbot"
	"github.com/Gani-23/KrushiGowrava/internal/service"
	"github.com/Gani-23/KrushiGowrava/pkg/health"
	"github.com/Gani-23/KrushiGowrava/pkg/middleware"
)

// Services bundles the service dependencies the router wires up.
type Services struct {
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Catalog  *service.CatalogService
	Rating   *service.RatingService
	Identity *service.IdentityService
	Checkout *service.CheckoutService
	Chatbot  *chatbot.Client
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(svcs Services, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(CORS)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(svcs.Cart, logger)
	wishlistHandler := NewWishlistHandler(svcs.Wishlist, logger)
	catalogHandler := NewCatalogHandler(svcs.Catalog, logger)
	ratingHandler := NewRatingHandler(svcs.Rating, logger)
	sessionHandler := NewSessionHandler(svcs.Identity, logger)
	checkoutHandler := NewCheckoutHandler(svcs.Checkout, logger)
	chatHandler := NewChatHandler(svcs.Chatbot, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/toggle", wishlistHandler.Toggle)
			r.Delete("/{productId}", wishlistHandler.Remove)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.Browse)
			r.Get("/{id}/ratings", catalogHandler.RatingStats)
			r.Get("/{id}/rating", ratingHandler.Existing)
			r.Post("/{id}/rate", ratingHandler.Submit)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Post("/login", sessionHandler.Login)
			r.Post("/logout", sessionHandler.Logout)
		})

		r.Get("/checkout/link", checkoutHandler.Link)
		r.Post("/chat", chatHandler.Send)
	})

	return r
}
