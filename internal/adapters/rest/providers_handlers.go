package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/contracts"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"marketplace-service/internal/core/queryspec"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Тела запросов ограничены мегабайтом: отзыв больше не бывает
const maxReviewBodySize = 1 << 20

type ProvidersHandler struct {
	findProvidersUC    usecases_port.FindProvidersUseCase
	getProviderUC      usecases_port.GetProviderUseCase
	submitReviewUC     usecases_port.SubmitReviewUseCase
	recalculateStatsUC usecases_port.RecalculateProviderStatsUseCase
}

func NewProvidersHandler(findProvidersUC usecases_port.FindProvidersUseCase,
	getProviderUC usecases_port.GetProviderUseCase,
	submitReviewUC usecases_port.SubmitReviewUseCase,
	recalculateStatsUC usecases_port.RecalculateProviderStatsUseCase) *ProvidersHandler {
	return &ProvidersHandler{
		findProvidersUC:    findProvidersUC,
		getProviderUC:      getProviderUC,
		submitReviewUC:     submitReviewUC,
		recalculateStatsUC: recalculateStatsUC,
	}
}

// FindProviders обрабатывает GET /api/v1/providers
func (h *ProvidersHandler) FindProviders(w http.ResponseWriter, r *http.Request) {
	spec := queryspec.Build(r.URL.Query())

	result, err := h.findProvidersUC.Execute(r.Context(), spec)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to find providers")
		return
	}

	RespondWithJSON(w, http.StatusOK, NewProvidersResponse(result))
}

// GetProvider обрабатывает GET /api/v1/providers/{providerID}
func (h *ProvidersHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "providerID must be a UUID")
		return
	}

	provider, err := h.getProviderUC.Execute(r.Context(), providerID)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to get provider")
		return
	}
	if provider == nil {
		WriteJSONError(w, http.StatusNotFound, "provider not found")
		return
	}

	RespondWithJSON(w, http.StatusOK, provider)
}

// SubmitReview обрабатывает POST /api/v1/providers/{providerID}/reviews
func (h *ProvidersHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "providerID must be a UUID")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxReviewBodySize))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	// Сначала контракт, потом декодирование: схема отбрасывает лишние поля
	// и рейтинг вне диапазона еще до бизнес-логики
	if err := contracts.Validate("ReviewSubmit", body); err != nil {
		logger.Debug("Review payload rejected by contract", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "review payload does not match contract")
		return
	}

	var req SubmitReviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "author_id must be a UUID")
		return
	}

	stats, err := h.submitReviewUC.Execute(r.Context(), usecases_port.SubmitReviewInput{
		ProviderID: providerID,
		AuthorID:   authorID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if errors.Is(err, port.ErrProviderNotFound) {
		WriteJSONError(w, http.StatusNotFound, "provider not found")
		return
	}
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to submit review")
		return
	}

	RespondWithJSON(w, http.StatusCreated, SubmitReviewResponse{
		ReviewCount: stats.ReviewCount,
		Rating:      stats.Rating,
	})
}

// RecalculateStats обрабатывает POST /api/v1/providers/{providerID}/stats/recalculate.
// Служебная ручка: полный пересчет агрегатов по отзывам поставщика.
func (h *ProvidersHandler) RecalculateStats(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "providerID must be a UUID")
		return
	}

	provider, err := h.getProviderUC.Execute(r.Context(), providerID)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to get provider")
		return
	}
	if provider == nil {
		WriteJSONError(w, http.StatusNotFound, "provider not found")
		return
	}

	stats, err := h.recalculateStatsUC.Execute(r.Context(), providerID)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to recalculate provider stats")
		return
	}

	RespondWithJSON(w, http.StatusOK, stats)
}
