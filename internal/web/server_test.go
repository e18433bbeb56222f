package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/assettracker/internal/domain"
	"github.com/vbonduro/assettracker/internal/store"
)

// stubRepo returns err from every call, or canned values when err is nil.
type stubRepo struct {
	err     error
	created domain.NewAsset
	updated domain.AssetUpdate
	deleted bool
}

func (s *stubRepo) GetAll(context.Context) ([]*domain.Asset, error) {
	return []*domain.Asset{}, s.err
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Asset{ID: id}, nil
}

func (s *stubRepo) Create(_ context.Context, in domain.NewAsset) (*domain.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = in
	return &domain.Asset{ID: 1, Name: in.Name, Amount: in.Amount, Quantity: in.QuantityOrDefault(), Category: in.Category}, nil
}

func (s *stubRepo) Update(_ context.Context, id int64, in domain.AssetUpdate) (*domain.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = in
	return &domain.Asset{ID: id}, nil
}

func (s *stubRepo) Delete(context.Context, int64) (bool, error) {
	return s.deleted, s.err
}

func (s *stubRepo) GetSummary(context.Context) (*domain.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Summary{TotalAmount: decimal.RequireFromString("1.5"), CategorySummary: []*domain.CategorySummary{}}, nil
}

func serve(t *testing.T, repo assetRepository, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	s := NewServer(repo, Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestBackendErrorsPassThroughAs500(t *testing.T) {
	repo := &stubRepo{err: errors.New("connection refused")}

	cases := []struct{ method, path, body string }{
		{http.MethodGet, "/api/assets", ""},
		{http.MethodGet, "/api/assets/1", ""},
		{http.MethodPost, "/api/assets", `{"name":"a","amount":1,"category":"c"}`},
		{http.MethodPut, "/api/assets/1", `{"name":"b"}`},
		{http.MethodDelete, "/api/assets/1", ""},
		{http.MethodGet, "/api/assets/summary", ""},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := serve(t, repo, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"connection refused"}`, rec.Body.String())
		})
	}
}

func TestNotFoundFromRepository(t *testing.T) {
	repo := &stubRepo{err: store.ErrNotFound}

	rec := serve(t, repo, http.MethodPut, "/api/assets/99999", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"asset not found"}`, rec.Body.String())
}

func TestDeleteMissingIs404(t *testing.T) {
	rec := serve(t, &stubRepo{deleted: false}, http.MethodDelete, "/api/assets/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, &stubRepo{deleted: true}, http.MethodDelete, "/api/assets/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"asset deleted"}`, rec.Body.String())
}

func TestCreateParsesAmountAsDecimal(t *testing.T) {
	repo := &stubRepo{}
	rec := serve(t, repo, http.MethodPost, "/api/assets", `{"name":"Gold","amount":"1234.56","category":"metal","quantity":2,"extra":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "1234.56", repo.created.Amount.String())
	require.NotNil(t, repo.created.Quantity)
	assert.Equal(t, int64(2), *repo.created.Quantity)
	assert.Contains(t, rec.Body.String(), `"amount":1234.56`)
}

func TestCreateRejectsZeroAmount(t *testing.T) {
	for _, amount := range []string{`0`, `"0.00"`, `null`} {
		t.Run(amount, func(t *testing.T) {
			repo := &stubRepo{}
			rec := serve(t, repo, http.MethodPost, "/api/assets", `{"name":"Empty wallet","amount":`+amount+`,"category":"cash"}`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"name, amount and category are required"}`, rec.Body.String())
			assert.Empty(t, repo.created.Name, "repository should not be called")
		})
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	rec := serve(t, &stubRepo{}, http.MethodPost, "/api/assets", `{"name":"","amount":5,"category":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"name, amount and category are required"}`, rec.Body.String())
}

func TestUpdateOnlyForwardsPresentFields(t *testing.T) {
	repo := &stubRepo{}
	rec := serve(t, repo, http.MethodPut, "/api/assets/3", `{"amount":150000,"unknown":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NotNil(t, repo.updated.Amount)
	assert.Equal(t, "150000", repo.updated.Amount.String())
	assert.Nil(t, repo.updated.Name)
	assert.Nil(t, repo.updated.Quantity)
	assert.Nil(t, repo.updated.Description)
	assert.Nil(t, repo.updated.Category)
}

func TestSummaryEncodesNumbers(t *testing.T) {
	rec := serve(t, &stubRepo{}, http.MethodGet, "/api/assets/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_amount":1.5,"category_summary":[]}`, rec.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	rec := serve(t, &stubRepo{}, http.MethodGet, "/api/assets", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestEnableMetrics(t *testing.T) {
	s := NewServer(&stubRepo{}, Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	metrics := s.EnableMetrics()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	metrics.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "assettracker_")
}
