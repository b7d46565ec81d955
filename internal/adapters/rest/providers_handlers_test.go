package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFindProvidersUC struct {
	lastSpec domain.FilterSpec
	result   *domain.PaginatedProviders
}

func (f *fakeFindProvidersUC) Execute(_ context.Context, spec domain.FilterSpec) (*domain.PaginatedProviders, error) {
	f.lastSpec = spec
	return f.result, nil
}

type fakeGetProviderUC struct {
	provider *domain.Provider
}

func (f *fakeGetProviderUC) Execute(_ context.Context, _ uuid.UUID) (*domain.Provider, error) {
	return f.provider, nil
}

type fakeSubmitReviewUC struct {
	lastInput usecases_port.SubmitReviewInput
	stats     domain.AggregateStats
	err       error
}

func (f *fakeSubmitReviewUC) Execute(_ context.Context, input usecases_port.SubmitReviewInput) (*domain.AggregateStats, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &f.stats, nil
}

type fakeRecalculateUC struct {
	stats  domain.AggregateStats
	called bool
}

func (f *fakeRecalculateUC) Execute(_ context.Context, _ uuid.UUID) (*domain.AggregateStats, error) {
	f.called = true
	return &f.stats, nil
}

func newProvidersRouter(h *ProvidersHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/v1/providers", h.FindProviders)
	r.Get("/api/v1/providers/{providerID}", h.GetProvider)
	r.Post("/api/v1/providers/{providerID}/reviews", h.SubmitReview)
	r.Post("/api/v1/providers/{providerID}/stats/recalculate", h.RecalculateStats)
	return r
}

func TestFindProvidersEnvelope(t *testing.T) {
	find := &fakeFindProvidersUC{result: &domain.PaginatedProviders{
		Providers:    []domain.Provider{{ID: uuid.New(), Name: "Этажи"}},
		TotalCount:   37,
		CurrentPage:  1,
		ItemsPerPage: 20,
	}}
	h := NewProvidersHandler(find, &fakeGetProviderUC{}, &fakeSubmitReviewUC{}, &fakeRecalculateUC{})

	rec := httptest.NewRecorder()
	newProvidersRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/providers?city=minsk&verified=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 37, resp.TotalCount)
	assert.Equal(t, 1, resp.CurrentPage)

	// Оба параметра запроса дошли до спецификации фильтра
	assert.Len(t, find.lastSpec.Predicates, 2)
}

func TestGetProviderNotFound(t *testing.T) {
	h := NewProvidersHandler(&fakeFindProvidersUC{}, &fakeGetProviderUC{provider: nil}, &fakeSubmitReviewUC{}, &fakeRecalculateUC{})

	rec := httptest.NewRecorder()
	newProvidersRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/providers/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProviderRejectsBadID(t *testing.T) {
	h := NewProvidersHandler(&fakeFindProvidersUC{}, &fakeGetProviderUC{}, &fakeSubmitReviewUC{}, &fakeRecalculateUC{})

	rec := httptest.NewRecorder()
	newProvidersRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/providers/42", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReview(t *testing.T) {
	providerID := uuid.New()
	authorID := uuid.New()

	submit := &fakeSubmitReviewUC{stats: domain.AggregateStats{ReviewCount: 3, Rating: 4.7}}
	h := NewProvidersHandler(&fakeFindProvidersUC{}, &fakeGetProviderUC{}, submit, &fakeRecalculateUC{})

	body := `{"author_id":"` + authorID.String() + `","rating":5,"comment":"Отличная работа"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/"+providerID.String()+"/reviews", strings.NewReader(body))

	rec := httptest.NewRecorder()
	newProvidersRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SubmitReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.ReviewCount)
	assert.Equal(t, 4.7, resp.Rating)

	assert.Equal(t, providerID, submit.lastInput.ProviderID)
	assert.Equal(t, authorID, submit.lastInput.AuthorID)
	assert.Equal(t, 5, submit.lastInput.Rating)
}

func TestSubmitReviewUnknownProvider(t *testing.T) {
	providerID := uuid.New()
	submit := &fakeSubmitReviewUC{err: fmt.Errorf("provider %s: %w", providerID, port.ErrProviderNotFound)}
	h := NewProvidersHandler(&fakeFindProvidersUC{}, &fakeGetProviderUC{}, submit, &fakeRecalculateUC{})

	body := `{"author_id":"` + uuid.NewString() + `","rating":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/"+providerID.String()+"/reviews", strings.NewReader(body))

	rec := httptest.NewRecorder()
	newProvidersRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitReviewRejectedByContract(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"rating out of range", `{"author_id":"` + uuid.NewString() + `","rating":6}`},
		{"missing rating", `{"author_id":"` + uuid.NewString() + `"}`},
		{"unknown field", `{"author_id":"` + uuid.NewString() + `","rating":4,"admin":true}`},
		{"not json", `rating=5`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			submit := &fakeSubmitReviewUC{}
			h := NewProvidersHandler(&fakeFindProvidersUC{}, &fakeGetProviderUC{}, submit, &fakeRecalculateUC{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/"+uuid.NewString()+"/reviews", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			newProvidersRouter(h).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, uuid.Nil, submit.lastInput.ProviderID, "use case must not be reached")
		})
	}
}

func TestRecalculateStats(t *testing.T) {
	providerID := uuid.New()
	recalc := &fakeRecalculateUC{stats: domain.AggregateStats{ReviewCount: 12, Rating: 4.2}}
	h := NewProvidersHandler(&fakeFindProvidersUC{}, &fakeGetProviderUC{provider: &domain.Provider{ID: providerID}}, &fakeSubmitReviewUC{}, recalc)

	rec := httptest.NewRecorder()
	newProvidersRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/providers/"+providerID.String()+"/stats/recalculate", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, recalc.called)

	var stats domain.AggregateStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 12, stats.ReviewCount)
}

func TestRecalculateStatsUnknownProvider(t *testing.T) {
	recalc := &fakeRecalculateUC{}
	h := NewProvidersHandler(&fakeFindProvidersUC{}, &fakeGetProviderUC{provider: nil}, &fakeSubmitReviewUC{}, recalc)

	rec := httptest.NewRecorder()
	newProvidersRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/providers/"+uuid.NewString()+"/stats/recalculate", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, recalc.called)
}
