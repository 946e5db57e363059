package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

func TestWriteWorkflowErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{workflow.ErrConflict, http.StatusConflict, "CONFLICT"},
		{workflow.ErrPreconditionFailed, http.StatusPreconditionFailed, "PRECONDITION_FAILED"},
		{workflow.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{workflow.ErrExpired, http.StatusGone, "EXPIRED"},
		{workflow.ErrExternalService, http.StatusBadGateway, "EXTERNAL_SERVICE_FAILURE"},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeWorkflowError(rec, fmt.Errorf("op failed: %w", tc.err))

		assert.Equal(t, tc.wantStatus, rec.Code)
		var body struct {
			Success bool `json:"success"`
			Error   struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, tc.wantCode, body.Error.Code)
	}
}
