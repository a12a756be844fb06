package billing

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puredent/clinic-api/internal/middleware"
	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/repository"
	billingsvc "github.com/puredent/clinic-api/internal/service/billing"
)

type stubTransactionRepo struct {
	repository.TransactionRepository
	byID      map[uuid.UUID]*model.TransactionDetail
	listCalls int
}

func (s *stubTransactionRepo) Get(ctx context.Context, id uuid.UUID) (*model.TransactionDetail, error) {
	txn, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return txn, nil
}

func (s *stubTransactionRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.TransactionDetail, error) {
	s.listCalls++
	var out []*model.TransactionDetail
	for _, txn := range s.byID {
		if txn.PatientID == patientID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func newTransaction(patientID uuid.UUID) *model.TransactionDetail {
	return &model.TransactionDetail{
		Transaction: model.Transaction{
			ID:            uuid.New(),
			AppointmentID: uuid.New(),
			PatientID:     patientID,
			ServiceID:     uuid.New(),
			Amount:        decimal.RequireFromString("1200.00"),
			PaidAt:        time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		},
		PatientName: "Juan Dela Cruz",
		ServiceName: "Oral Prophylaxis",
	}
}

func billingRouter(repo *stubTransactionRepo, principal uuid.UUID, ptype model.PrincipalType) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextPrincipalID, principal.String())
		c.Set(middleware.ContextPrincipalType, string(ptype))
	})
	NewHandler(billingsvc.NewService(repo)).RegisterRoutes(r.Group(""))
	return r
}

func TestListPatientTransactionsRejectsForeignPatient(t *testing.T) {
	owner := uuid.New()
	txn := newTransaction(owner)
	repo := &stubTransactionRepo{byID: map[uuid.UUID]*model.TransactionDetail{txn.ID: txn}}
	r := billingRouter(repo, uuid.New(), model.PrincipalPatient)

	w := httptest.NewRecorder()
	target := "/patients/" + owner.String() + "/transactions"
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, repo.listCalls)
}

func TestListPatientTransactionsAllowsOwner(t *testing.T) {
	owner := uuid.New()
	txn := newTransaction(owner)
	repo := &stubTransactionRepo{byID: map[uuid.UUID]*model.TransactionDetail{txn.ID: txn}}
	r := billingRouter(repo, owner, model.PrincipalPatient)

	w := httptest.NewRecorder()
	target := "/patients/" + owner.String() + "/transactions"
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), txn.ID.String())
}

func TestGetReceiptRejectsForeignTransaction(t *testing.T) {
	txn := newTransaction(uuid.New())
	repo := &stubTransactionRepo{byID: map[uuid.UUID]*model.TransactionDetail{txn.ID: txn}}
	r := billingRouter(repo, uuid.New(), model.PrincipalPatient)

	w := httptest.NewRecorder()
	target := "/transactions/" + txn.ID.String() + "/receipt"
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "1200.00")
}

func TestGetReceiptAllowsOwnerAndStaff(t *testing.T) {
	owner := uuid.New()
	txn := newTransaction(owner)
	repo := &stubTransactionRepo{byID: map[uuid.UUID]*model.TransactionDetail{txn.ID: txn}}

	for name, tc := range map[string]struct {
		principal uuid.UUID
		ptype     model.PrincipalType
	}{
		"owner": {owner, model.PrincipalPatient},
		"staff": {uuid.New(), model.PrincipalStaff},
	} {
		t.Run(name, func(t *testing.T) {
			r := billingRouter(repo, tc.principal, tc.ptype)

			w := httptest.NewRecorder()
			target := "/transactions/" + txn.ID.String() + "/receipt"
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), owner.String())
			assert.Contains(t, w.Body.String(), "1200.00")
		})
	}
}
