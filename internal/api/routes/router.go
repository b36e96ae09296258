package routes

import (
	"net/http"

	"github.com/caremap/medifinder/internal/api/handlers"
	"github.com/caremap/medifinder/internal/api/middleware"
	"github.com/caremap/medifinder/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler   *handlers.SearchHandler
	providerHandler *handlers.ProviderHandler
	feedbackHandler *handlers.FeedbackHandler
	smsHandler      *handlers.SMSHandler
	historyHandler  *handlers.HistoryHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	providerHandler *handlers.ProviderHandler,
	feedbackHandler *handlers.FeedbackHandler,
	smsHandler *handlers.SMSHandler,
	historyHandler *handlers.HistoryHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler:   searchHandler,
		providerHandler: providerHandler,
		feedbackHandler: feedbackHandler,
		smsHandler:      smsHandler,
		historyHandler:  historyHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Facility search endpoints
	r.mux.HandleFunc("GET /api/facilities", r.searchHandler.NearbyFacilities)
	r.mux.HandleFunc("GET /api/providers", r.searchHandler.UnifiedSearch)
	r.mux.HandleFunc("GET /api/providers/{placeId}", r.providerHandler.GetByPlaceID)

	// Facility feedback endpoint
	r.mux.HandleFunc("GET /api/facility/feedback/{facilityName}", r.feedbackHandler.GetFacilityFeedback)

	// Notification endpoint
	r.mux.HandleFunc("POST /api/send-sms", r.smsHandler.SendSMS)

	// Search history endpoints
	r.mux.HandleFunc("GET /api/history/{userId}", r.historyHandler.ListHistory)
	r.mux.HandleFunc("GET /api/history/{searchId}/results", r.historyHandler.GetHistoryResult)
	r.mux.HandleFunc("DELETE /api/history/{userId}", r.historyHandler.DeleteHistory)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
