package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caretap/staffing-platform/internal/directory"
	"github.com/caretap/staffing-platform/internal/pitch"
	"github.com/caretap/staffing-platform/internal/search"
)

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{pitch.ErrDuplicateActive, http.StatusConflict, "duplicate_active_application"},
		{pitch.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{pitch.ErrForbidden, http.StatusForbidden, "forbidden"},
		{pitch.ErrJobClosed, http.StatusConflict, "job_closed"},
		{pitch.ErrNotFound, http.StatusNotFound, "not_found"},
		{directory.ErrJobNotFound, http.StatusNotFound, "not_found"},
		{search.ErrLocationUnavailable, http.StatusUnprocessableEntity, "location_unavailable"},
		{directory.ErrMissingName, http.StatusBadRequest, "validation_error"},
		{pitch.ErrEmptyMessage, http.StatusBadRequest, "validation_error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		// Wrapped errors still map.
		{fmt.Errorf("store: %w", pitch.ErrDuplicateActive), http.StatusConflict, "duplicate_active_application"},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)

			var resp struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}
