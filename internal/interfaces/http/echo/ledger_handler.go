package echo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	app "github.com/placementhq/identity-import/internal/application/importing"
)

type LedgerHandler struct {
	get      app.GetBatch
	list     app.ListBatches
	rollback app.RollbackBatch
}

type rollbackRequest struct {
	Reason string `json:"reason"`
}

func NewLedgerHandler(get app.GetBatch, list app.ListBatches, rollback app.RollbackBatch) *LedgerHandler {
	return &LedgerHandler{get: get, list: list, rollback: rollback}
}

func (h *LedgerHandler) GetBatch(c echo.Context) error {
	out, err := h.get.Execute(c.Request().Context(), app.GetBatchInput{
		BatchID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidBatchID) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_batch_id",
				Message: "id must be a valid UUID",
			}})
		}
		if errors.Is(err, app.ErrBatchNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "batch not found",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to get batch",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *LedgerHandler) ListBatches(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	out, err := h.list.Execute(c.Request().Context(), app.ListBatchesInput{Limit: limit})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to list batches",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *LedgerHandler) RollbackBatch(c echo.Context) error {
	var req rollbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.rollback.Execute(c.Request().Context(), app.RollbackBatchInput{
		BatchID: c.Param("id"),
		Actor:   c.Request().Header.Get(actorHeader),
		Reason:  req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidBatchID):
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_batch_id",
				Message: "id must be a valid UUID",
			}})
		case errors.Is(err, app.ErrMissingActor):
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "missing_actor",
				Message: "X-Actor header is required",
			}})
		case errors.Is(err, app.ErrMissingReason):
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "missing_reason",
				Message: "reason is required",
			}})
		case errors.Is(err, app.ErrBatchNotFound):
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "batch not found",
			}})
		case errors.Is(err, app.ErrRollbackConflict):
			return c.JSON(http.StatusConflict, apiResponse{Error: &errorBody{
				Code:    "conflict",
				Message: "batch already rolled back or has nothing to roll back",
			}})
		default:
			return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
				Code:    "internal_error",
				Message: "failed to roll back batch",
			}})
		}
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
