package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/StarCase_Go/internal/catalog"
	"github.com/osse101/StarCase_Go/internal/logger"
)

// HandleListItems returns every catalog item
// @Summary List catalog items
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Item
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/catalog/items [get]
func HandleListItems(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListItems(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgListCatalogFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, items)
	}
}

// HandleListCases returns every case with its probability table
// @Summary List cases
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Case
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/cases [get]
func HandleListCases(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := svc.ListCases(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgListCatalogFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, cases)
	}
}

// HandleGetCase returns one case
// @Summary Get a case
// @Tags catalog
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} domain.Case
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/cases/{id} [get]
func HandleGetCase(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetCase(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, ErrMsgGetCaseFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

// HandleReloadCatalog re-reads the catalog file and seeds it into the store
// @Summary Reload the catalog
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} DataResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/catalog/reload [post]
func HandleReloadCatalog(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Reload(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgReloadCatalogFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgCatalogReload,
			"items", result.Items,
			"cases", result.Cases,
			"warnings", len(result.Warnings))

		respondJSON(w, http.StatusOK, DataResponse{Message: MsgCatalogReloaded, Data: result})
	}
}
