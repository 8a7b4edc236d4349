package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/StarCase_Go/internal/catalog"
	"github.com/osse101/StarCase_Go/internal/domain"
)

func TestHandleListItems(t *testing.T) {
	mockSvc := &MockCatalogService{}
	mockSvc.On("ListItems", mock.Anything).Return([]domain.Item{
		{ID: "bear", Name: "Teddy Bear", Rarity: domain.RarityCommon, StarValue: 15},
	}, nil)

	rec := serve(t, HandleListItems(mockSvc), http.MethodGet, "/api/v1/catalog/items", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]domain.Item](t, rec)
	assert.Equal(t, []domain.Item{{ID: "bear", Name: "Teddy Bear", Rarity: domain.RarityCommon, StarValue: 15}}, got)
}

func TestHandleListCases_StoreError(t *testing.T) {
	mockSvc := &MockCatalogService{}
	mockSvc.On("ListCases", mock.Anything).Return(nil, errors.New("disk on fire"))

	rec := serve(t, HandleListCases(mockSvc), http.MethodGet, "/api/v1/cases", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestHandleGetCase(t *testing.T) {
	mockSvc := &MockCatalogService{}
	mockSvc.On("GetCase", mock.Anything, "starter").Return(&domain.Case{
		ID:      "starter",
		Name:    "Starter",
		Price:   100,
		Entries: []domain.CaseEntry{{ItemID: "bear", Probability: 1}},
	}, nil)
	mockSvc.On("GetCase", mock.Anything, "missing").Return(nil, domain.ErrCaseNotFound)

	r := chi.NewRouter()
	r.Get("/api/v1/cases/{id}", HandleGetCase(mockSvc))

	rec := serve(t, r, http.MethodGet, "/api/v1/cases/starter", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[domain.Case](t, rec)
	assert.Equal(t, int64(100), got.Price)
	assert.Len(t, got.Entries, 1)

	rec = serve(t, r, http.MethodGet, "/api/v1/cases/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgCaseNotFoundError)
}

func TestHandleReloadCatalog(t *testing.T) {
	t.Run("reports counts and warnings", func(t *testing.T) {
		mockSvc := &MockCatalogService{}
		mockSvc.On("Reload", mock.Anything).Return(&catalog.ReloadResult{
			Version:  "2026-10",
			Items:    12,
			Cases:    3,
			Warnings: []string{"item lamp is not in any case"},
		}, nil)

		rec := serve(t, HandleReloadCatalog(mockSvc), http.MethodPost, "/api/v1/admin/catalog/reload", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), MsgCatalogReloaded)
		assert.Contains(t, rec.Body.String(), `"items":12`)
		assert.Contains(t, rec.Body.String(), "lamp")
	})

	t.Run("broken catalog keeps the old one", func(t *testing.T) {
		mockSvc := &MockCatalogService{}
		mockSvc.On("Reload", mock.Anything).Return(nil, errors.Join(domain.ErrInvalidProbability, errors.New("case starter sums to 1.2")))

		rec := serve(t, HandleReloadCatalog(mockSvc), http.MethodPost, "/api/v1/admin/catalog/reload", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		mockSvc.AssertNotCalled(t, "Invalidate")
	})
}
