package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremap/medifinder/internal/api/handlers"
	"github.com/caremap/medifinder/internal/domain/entities"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

func TestGetByPlaceID_Success(t *testing.T) {
	repo := &fakeProviderRepo{byPlaceID: facilityFixture("place-1")}
	handler := handlers.NewProviderHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/place-1", nil)
	req.SetPathValue("placeId", "place-1")
	w := httptest.NewRecorder()
	handler.GetByPlaceID(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Provider entities.Provider `json:"provider"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "place-1", body.Provider.PlaceID)
	assert.Equal(t, "General Hospital", body.Provider.Name)
}

func TestGetByPlaceID_NotFound(t *testing.T) {
	repo := &fakeProviderRepo{getErr: apperrors.NewNotFoundError("provider with place id missing not found")}
	handler := handlers.NewProviderHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/missing", nil)
	req.SetPathValue("placeId", "missing")
	w := httptest.NewRecorder()
	handler.GetByPlaceID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "not found")
}

func TestGetByPlaceID_MissingID(t *testing.T) {
	handler := handlers.NewProviderHandler(&fakeProviderRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/providers/", nil)
	w := httptest.NewRecorder()
	handler.GetByPlaceID(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
