package controllers

import (
	"net/http"

	"gonext_go/auth"
	"gonext_go/data"
	"gonext_go/middleware"

	"github.com/gorilla/mux"
)

// Handler обслуживает локальный API журнала. Все зависимости передаются при создании.
type Handler struct {
	journal *data.Journal
	pins    *auth.PINService
	tokens  *auth.TokenService
}

func NewHandler(journal *data.Journal, pins *auth.PINService, tokens *auth.TokenService) *Handler {
	return &Handler{journal: journal, pins: pins, tokens: tokens}
}

// NewRouter регистрирует все маршруты API.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()

	// Открытые маршруты
	router.HandleFunc("/api/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/unlock", h.UnlockHandler).Methods(http.MethodPost)

	// Остальное закрыто PIN-кодом, если он задан
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.JWTMiddleware(h.pins, h.tokens))

	apiRouter.HandleFunc("/auth/pin", h.SetPINHandler).Methods(http.MethodPut)

	// Места
	apiRouter.HandleFunc("/places", h.ListPlacesHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/places", h.CreatePlaceHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/places/import", h.ImportPlacesHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/places/{id}", h.GetPlaceHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/places/{id}", h.UpdatePlaceHandler).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/places/{id}", h.DeletePlaceHandler).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/places/{id}/photos", h.ListPlacePhotosHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/places/{id}/photos", h.AddPlacePhotoHandler).Methods(http.MethodPost)

	// Поездки
	apiRouter.HandleFunc("/trips", h.ListTripsHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trips", h.CreateTripHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/trips/current", h.GetCurrentTripHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trips/{id}", h.GetTripHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trips/{id}", h.UpdateTripHandler).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/trips/{id}", h.DeleteTripHandler).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/trips/{id}/places", h.ListTripPlacesHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trips/{id}/places", h.AddTripPlaceHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/trips/{id}/places", h.SyncTripPlacesHandler).Methods(http.MethodPut)
	apiRouter.HandleFunc("/trips/{id}/order", h.UpdateTripOrderHandler).Methods(http.MethodPut)
	apiRouter.HandleFunc("/trips/{id}/places/{tripPlaceId}/move", h.MoveTripPlaceHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/trips/{id}/next", h.TripNextPlaceHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trips/{id}/itinerary.xlsx", h.ExportItineraryHandler).Methods(http.MethodGet)

	// Места в поездке
	apiRouter.HandleFunc("/trip-places/{id}", h.GetTripPlaceHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trip-places/{id}", h.UpdateTripPlaceHandler).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/trip-places/{id}", h.RemoveTripPlaceHandler).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/trip-places/{id}/visit", h.MarkVisitedHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/trip-places/{id}/visit", h.MarkNotVisitedHandler).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/trip-places/{id}/photos", h.ListVisitPhotosHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trip-places/{id}/photos", h.AddVisitPhotoHandler).Methods(http.MethodPost)

	// Фотографии
	apiRouter.HandleFunc("/photos/{id}", h.DeletePhotoHandler).Methods(http.MethodDelete)

	// Журнал целиком
	apiRouter.HandleFunc("/next-place", h.NextPlaceHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/stats", h.StatsHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/data", h.ClearAllHandler).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/backup", h.DownloadBackupHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/backup", h.RestoreBackupHandler).Methods(http.MethodPost)

	// Файлы фотографий отдаются напрямую, только если есть хранилище на диске
	store := h.journal.Photos.Store()
	if store.Supported() {
		router.PathPrefix("/photos/").Handler(http.StripPrefix("/photos/", http.FileServer(http.Dir(store.Dir()))))
	}

	return router
}
