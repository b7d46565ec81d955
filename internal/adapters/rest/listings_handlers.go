package rest

import (
	"net/http"
	"strconv"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"marketplace-service/internal/core/queryspec"

	"github.com/go-chi/chi/v5"
)

type ListingsHandler struct {
	findListingsUC      usecases_port.FindListingsUseCase
	getListingDetailsUC usecases_port.GetListingDetailsUseCase
	getMapViewportUC    usecases_port.GetMapViewportUseCase
}

func NewListingsHandler(findListingsUC usecases_port.FindListingsUseCase,
	getListingDetailsUC usecases_port.GetListingDetailsUseCase,
	getMapViewportUC usecases_port.GetMapViewportUseCase) *ListingsHandler {
	return &ListingsHandler{
		findListingsUC:      findListingsUC,
		getListingDetailsUC: getListingDetailsUC,
		getMapViewportUC:    getMapViewportUC,
	}
}

// FindListings обрабатывает GET /api/v1/listings
func (h *ListingsHandler) FindListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	// Любой мусор в фильтрах деградирует до меньшего числа предикатов,
	// отказа клиенту отсюда не бывает
	spec := queryspec.Build(r.URL.Query())

	logger.WithFields(port.Fields{
		"handler":    "FindListings",
		"predicates": len(spec.Predicates),
	}).Debug("Processing request to find listings", nil)

	result, err := h.findListingsUC.Execute(r.Context(), spec)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to find listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, NewListingsResponse(result))
}

// GetListingDetails обрабатывает GET /api/v1/listings/{listingID}
func (h *ListingsHandler) GetListingDetails(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "listingID must be an integer")
		return
	}

	listing, err := h.getListingDetailsUC.Execute(r.Context(), listingID)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to get listing")
		return
	}
	if listing == nil {
		WriteJSONError(w, http.StatusNotFound, "listing not found")
		return
	}

	RespondWithJSON(w, http.StatusOK, listing)
}

// GetMapViewport обрабатывает GET /api/v1/listings/viewport
func (h *ListingsHandler) GetMapViewport(w http.ResponseWriter, r *http.Request) {
	spec := queryspec.Build(r.URL.Query())

	viewport, err := h.getMapViewportUC.Execute(r.Context(), spec)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to compute viewport")
		return
	}

	RespondWithJSON(w, http.StatusOK, viewport)
}
