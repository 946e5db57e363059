package handlers

import (
	"errors"
	"net/http"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// writeWorkflowError maps the workflow error taxonomy onto HTTP.
// Conflict asks the caller to refresh and pick again; PreconditionFailed
// signals a stale client view (refetch, then retry).
func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrConflict):
		utils.WriteErrorResponseWithCode(w, http.StatusConflict, "CONFLICT", err.Error(), "")
	case errors.Is(err, workflow.ErrPreconditionFailed):
		utils.WriteErrorResponseWithCode(w, http.StatusPreconditionFailed, "PRECONDITION_FAILED", err.Error(), "")
	case errors.Is(err, workflow.ErrNotFound):
		utils.WriteErrorResponseWithCode(w, http.StatusNotFound, "NOT_FOUND", err.Error(), "")
	case errors.Is(err, workflow.ErrExpired):
		utils.WriteErrorResponseWithCode(w, http.StatusGone, "EXPIRED", err.Error(), "")
	case errors.Is(err, workflow.ErrExternalService):
		utils.WriteErrorResponseWithCode(w, http.StatusBadGateway, "EXTERNAL_SERVICE_FAILURE", err.Error(), "")
	default:
		utils.WriteInternalServerErrorResponse(w, err.Error())
	}
}
