package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"memorial/internal/domain"
	"memorial/internal/repository"
)

var (
	conditionalUpdate = regexp.QuoteMeta("UPDATE orders") + `(?s).*` + regexp.QuoteMeta("WHERE id = $3 AND status = $4")
	orderExists       = regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)")
)

func newMockOrderRepository(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewOrderRepository(db), mock
}

func TestUpdateStatusIfPending_Applied(t *testing.T) {
	repo, mock := newMockOrderRepository(t)

	mock.ExpectExec(conditionalUpdate).
		WithArgs("paid", "pf-1", "order-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.UpdateStatusIfPending(context.Background(), "order-1", domain.OrderStatusPaid, "pf-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Error("expected the transition to apply")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateStatusIfPending_AlreadySettled(t *testing.T) {
	repo, mock := newMockOrderRepository(t)

	mock.ExpectExec(conditionalUpdate).
		WithArgs("failed", "", "order-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(orderExists).
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	applied, err := repo.UpdateStatusIfPending(context.Background(), "order-1", domain.OrderStatusFailed, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Error("expected a settled order not to transition again")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateStatusIfPending_UnknownOrder(t *testing.T) {
	repo, mock := newMockOrderRepository(t)

	mock.ExpectExec(conditionalUpdate).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(orderExists).
		WithArgs("order-404").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.UpdateStatusIfPending(context.Background(), "order-404", domain.OrderStatusPaid, "pf-1")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateStatusIfPending_ExecError(t *testing.T) {
	repo, mock := newMockOrderRepository(t)

	dbErr := errors.New("connection reset")
	mock.ExpectExec(conditionalUpdate).WillReturnError(dbErr)

	_, err := repo.UpdateStatusIfPending(context.Background(), "order-1", domain.OrderStatusPaid, "pf-1")
	if !errors.Is(err, dbErr) {
		t.Errorf("expected %v, got %v", dbErr, err)
	}
}
