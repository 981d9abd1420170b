package echo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ftsampaio/sales-import/internal/domain/importjob"
	httpecho "github.com/ftsampaio/sales-import/internal/interfaces/http/echo"
)

type fakeImportService struct {
	runID    string
	startErr error
	snapshot importjob.Snapshot
}

func (f *fakeImportService) Start(string) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	return f.runID, nil
}

func (f *fakeImportService) Status(string) importjob.Snapshot {
	return f.snapshot
}

func newServer(service httpecho.ImportService) *echo.Echo {
	e := echo.New()
	httpecho.RegisterRoutes(e, httpecho.NewImportHandler(service))
	return e
}

func TestStartImportAccepted(t *testing.T) {
	t.Parallel()

	e := newServer(&fakeImportService{runID: "run-1"})

	req := httptest.NewRequest(http.MethodPost, "/import/sales", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	if got["accepted"] != true {
		t.Fatalf("expected accepted=true, got %#v", got)
	}
	if got["job_id"] != "run-1" {
		t.Fatalf("unexpected job_id: %#v", got["job_id"])
	}
}

func TestStartImportAlreadyActive(t *testing.T) {
	t.Parallel()

	e := newServer(&fakeImportService{startErr: importjob.ErrAlreadyRunning})

	req := httptest.NewRequest(http.MethodPost, "/import/sales", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	if got["accepted"] != false {
		t.Fatalf("expected accepted=false, got %#v", got)
	}
	if got["reason"] != "already-active" {
		t.Fatalf("unexpected reason: %#v", got["reason"])
	}
}

func TestStartImportUnsupportedEntityType(t *testing.T) {
	t.Parallel()

	e := newServer(&fakeImportService{startErr: importjob.ErrUnsupportedEntityType})

	req := httptest.NewRequest(http.MethodPost, "/import/products", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportStatusBody(t *testing.T) {
	t.Parallel()

	e := newServer(&fakeImportService{snapshot: importjob.Snapshot{
		EntityType: "sales",
		State:      importjob.StateRunning,
		Total:      200,
		Processed:  100,
		Succeeded:  92,
		Failed:     8,
	}})

	req := httptest.NewRequest(http.MethodGet, "/import/sales/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got struct {
		Status    string `json:"status"`
		Ativo     bool   `json:"ativo"`
		Atual     int    `json:"atual"`
		Sucesso   int    `json:"sucesso"`
		Erros     int    `json:"erros"`
		Progresso int    `json:"progresso"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}

	if got.Status != "running" || !got.Ativo {
		t.Fatalf("unexpected status fields: %+v", got)
	}
	if got.Atual != 100 || got.Sucesso != 92 || got.Erros != 8 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.Atual != got.Sucesso+got.Erros {
		t.Fatalf("counter invariant broken: %+v", got)
	}
	if got.Progresso != 50 {
		t.Fatalf("expected 50%%, got %d", got.Progresso)
	}
}

func TestImportStatusIdleWhenNeverRan(t *testing.T) {
	t.Parallel()

	e := newServer(&fakeImportService{snapshot: importjob.Snapshot{
		EntityType: "sales",
		State:      importjob.StateIdle,
	}})

	req := httptest.NewRequest(http.MethodGet, "/import/sales/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	if got["status"] != "idle" || got["ativo"] != false {
		t.Fatalf("unexpected idle body: %#v", got)
	}
}
