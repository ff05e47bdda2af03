package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// --- Stubs ---

type stubMetricsService struct {
	snap          domain.MetricsSnapshot
	reconcileErr  error
	committed     []float64
	committedType domain.SaleType
}

func (s *stubMetricsService) Reconcile(context.Context) error { return s.reconcileErr }

func (s *stubMetricsService) CommitSale(_ context.Context, amount float64, saleType domain.SaleType) error {
	s.committed = append(s.committed, amount)
	s.committedType = saleType
	return nil
}

func (s *stubMetricsService) Start(context.Context) error { return nil }

func (s *stubMetricsService) Stop() {}

func (s *stubMetricsService) Snapshot() domain.MetricsSnapshot { return s.snap }

func TestMetricsHandler_Snapshot(t *testing.T) {
	e := echo.New()
	stub := &stubMetricsService{snap: domain.MetricsSnapshot{Revenue: 1234.5, Checkins: 42, PendingTickets: 7, Occupancy: 18}}
	handler := NewMetricsHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/snapshot", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Snapshot(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap domain.MetricsSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if snap != stub.snap {
		t.Fatalf("snapshot = %+v, want %+v", snap, stub.snap)
	}
}

func TestMetricsHandler_ReconcileFailureMapsToBadGateway(t *testing.T) {
	e := echo.New()
	stub := &stubMetricsService{reconcileErr: errors.New("backend down")}
	handler := NewMetricsHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/reconcile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Reconcile(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestMetricsHandler_CommitSale(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubMetricsService{}
	handler := NewMetricsHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/sales", `{"amount":85,"type":"DIRECT"}`)

	if err := handler.CommitSale(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(stub.committed) != 1 || stub.committed[0] != 85 {
		t.Fatalf("committed = %v, want [85]", stub.committed)
	}
	if stub.committedType != domain.SaleTypeDirect {
		t.Fatalf("type = %s, want DIRECT", stub.committedType)
	}
}

func TestMetricsHandler_CommitSaleRejectsUnknownType(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubMetricsService{}
	handler := NewMetricsHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/sales", `{"amount":85,"type":"REFUND"}`)

	if err := handler.CommitSale(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(stub.committed) != 0 {
		t.Fatalf("no sale should be committed, got %v", stub.committed)
	}
}
