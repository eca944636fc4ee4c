package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/placementhq/identity-import/internal/application/importing"
	domain "github.com/placementhq/identity-import/internal/domain/identity"
)

const actorHeader = "X-Actor"

type ImportHandler struct {
	submit     app.SubmitBatch
	submitFile app.SubmitBatchFromFile
}

type submitBatchRequest struct {
	Origin string            `json:"origin"`
	Kind   string            `json:"kind"`
	Rows   []domain.BatchRow `json:"rows"`
}

type importFileRequest struct {
	SourcePath string `json:"source_path"`
	Kind       string `json:"kind"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func NewImportHandler(submit app.SubmitBatch, submitFile app.SubmitBatchFromFile) *ImportHandler {
	return &ImportHandler{submit: submit, submitFile: submitFile}
}

func (h *ImportHandler) SubmitBatch(c echo.Context) error {
	var req submitBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.submit.Execute(c.Request().Context(), app.SubmitBatchInput{
		Origin: req.Origin,
		Kind:   req.Kind,
		Actor:  c.Request().Header.Get(actorHeader),
		Rows:   req.Rows,
	})
	if err != nil {
		return submitErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) ImportFromFile(c echo.Context) error {
	var req importFileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.submitFile.Execute(c.Request().Context(), app.SubmitBatchFromFileInput{
		SourcePath: req.SourcePath,
		Kind:       req.Kind,
		Actor:      c.Request().Header.Get(actorHeader),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidImportSource) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_source",
				Message: "source_path must be a readable .json file",
			}})
		}
		return submitErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func submitErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, app.ErrMissingActor):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "missing_actor",
			Message: "X-Actor header is required",
		}})
	case errors.Is(err, app.ErrInvalidBatchKind):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "invalid_kind",
			Message: "kind must be student or staff",
		}})
	case errors.Is(err, app.ErrEmptyBatch):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "empty_batch",
			Message: "batch contains no rows",
		}})
	case errors.Is(err, app.ErrBatchTooLarge):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "batch_too_large",
			Message: err.Error(),
		}})
	default:
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to process batch",
		}})
	}
}
