package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/actions"
	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/storage"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// vendorID reads the {vendorId} path parameter; managed-database vendor ids are UUIDs.
func vendorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "vendorId"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid vendor id")
		return "", false
	}
	return id.String(), true
}

func intQuery(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeResult(w http.ResponseWriter, res actions.Result) {
	if res.Success {
		respond.JSON(w, http.StatusOK, res.Message, res.Data)
		return
	}
	status := res.Status
	if status == 0 {
		status = http.StatusBadGateway
	}
	respond.Raw(w, status, res)
}

// writeFetchError maps a fetch-layer error onto a response.
func writeFetchError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, backend.ErrNotConfigured):
		respond.Error(w, http.StatusInternalServerError, "backend is not configured")
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "not found")
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		respond.Error(w, apiErr.Status, apiErr.Message)
	case errors.As(err, &apiErr):
		respond.Error(w, http.StatusBadGateway, apiErr.Message)
	default:
		logger.Error("fetch failed", zap.Error(err))
		respond.Error(w, http.StatusBadGateway, "upstream request failed")
	}
}
