package echo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	app "github.com/placementhq/identity-import/internal/application/importing"
	httpecho "github.com/placementhq/identity-import/internal/interfaces/http/echo"
)

type fakeGetBatch struct {
	out app.GetBatchOutput
	err error
}

func (f *fakeGetBatch) Execute(ctx context.Context, in app.GetBatchInput) (app.GetBatchOutput, error) {
	if f.err != nil {
		return app.GetBatchOutput{}, f.err
	}
	return f.out, nil
}

type fakeListBatches struct {
	out app.ListBatchesOutput
	err error
}

func (f *fakeListBatches) Execute(ctx context.Context, in app.ListBatchesInput) (app.ListBatchesOutput, error) {
	if f.err != nil {
		return app.ListBatchesOutput{}, f.err
	}
	return f.out, nil
}

type fakeRollbackBatch struct {
	out app.RollbackBatchOutput
	err error
}

func (f *fakeRollbackBatch) Execute(ctx context.Context, in app.RollbackBatchInput) (app.RollbackBatchOutput, error) {
	if f.err != nil {
		return app.RollbackBatchOutput{}, f.err
	}
	return f.out, nil
}

func newLedgerServer(get *fakeGetBatch, list *fakeListBatches, rollback *fakeRollbackBatch) *echo.Echo {
	e := echo.New()
	importHandler := httpecho.NewImportHandler(&fakeSubmitBatch{}, &fakeSubmitFile{})
	ledgerHandler := httpecho.NewLedgerHandler(get, list, rollback)
	httpecho.RegisterRoutes(e, importHandler, ledgerHandler)
	return e
}

const ledgerTestID = "a3f91a91-7fdd-43bf-bfd2-00bc02f6c53e"

func TestGetBatchHandlerSuccess(t *testing.T) {
	t.Parallel()

	e := newLedgerServer(&fakeGetBatch{out: app.GetBatchOutput{BatchID: ledgerTestID, Status: "completed"}}, &fakeListBatches{}, &fakeRollbackBatch{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/batches/"+ledgerTestID, nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	data := got["data"].(map[string]any)
	if data["batch_id"] != ledgerTestID {
		t.Fatalf("unexpected batch_id: %#v", data["batch_id"])
	}
}

func TestGetBatchHandlerNotFound(t *testing.T) {
	t.Parallel()

	e := newLedgerServer(&fakeGetBatch{err: app.ErrBatchNotFound}, &fakeListBatches{}, &fakeRollbackBatch{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/batches/"+ledgerTestID, nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetBatchHandlerInvalidID(t *testing.T) {
	t.Parallel()

	e := newLedgerServer(&fakeGetBatch{err: app.ErrInvalidBatchID}, &fakeListBatches{}, &fakeRollbackBatch{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/batches/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListBatchesHandler(t *testing.T) {
	t.Parallel()

	e := newLedgerServer(&fakeGetBatch{}, &fakeListBatches{out: app.ListBatchesOutput{
		Batches: []app.BatchSummary{{BatchID: ledgerTestID, Status: "completed"}},
	}}, &fakeRollbackBatch{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/batches?limit=5", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRollbackHandlerSuccess(t *testing.T) {
	t.Parallel()

	e := newLedgerServer(&fakeGetBatch{}, &fakeListBatches{}, &fakeRollbackBatch{out: app.RollbackBatchOutput{
		BatchID:      ledgerTestID,
		DeletedCount: 4,
		Status:       "rolled_back",
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/batches/"+ledgerTestID+"/rollback", bytes.NewReader([]byte(`{"reason":"bad source"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Actor", "admin")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	data := got["data"].(map[string]any)
	if data["deleted_count"] != float64(4) {
		t.Fatalf("unexpected deleted_count: %#v", data["deleted_count"])
	}
}

func TestRollbackHandlerConflict(t *testing.T) {
	t.Parallel()

	e := newLedgerServer(&fakeGetBatch{}, &fakeListBatches{}, &fakeRollbackBatch{err: app.ErrRollbackConflict})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/batches/"+ledgerTestID+"/rollback", bytes.NewReader([]byte(`{"reason":"again"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Actor", "admin")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRollbackHandlerMissingReason(t *testing.T) {
	t.Parallel()

	e := newLedgerServer(&fakeGetBatch{}, &fakeListBatches{}, &fakeRollbackBatch{err: app.ErrMissingReason})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/batches/"+ledgerTestID+"/rollback", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Actor", "admin")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
