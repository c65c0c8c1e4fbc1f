package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspire/backend/internal/domain"
)

const (
	productExistsQuery = `SELECT EXISTS(SELECT 1 FROM products WHERE model = $1)`
	reviewExistsQuery  = `SELECT EXISTS(SELECT 1 FROM reviews WHERE model = $1 AND reviewer = $2)`
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func existsRow(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}

func TestReviewRepository_Create_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WithArgs("M1", "U1", 5, "2024-01-01", "great").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.Review{
		Model:   "M1",
		User:    "U1",
		Score:   5,
		Date:    "2024-01-01",
		Comment: "great",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_ProductNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("ghost").
		WillReturnRows(existsRow(false))

	err := repo.Create(context.Background(), &domain.Review{
		Model: "ghost",
		User:  "U1",
		Score: 3,
		Date:  "2024-01-01",
	})

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	// No insert may happen when the product is missing
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_ExistingReview(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WithArgs("M1", "U1", 4, "2024-01-02", "again").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repo.Create(context.Background(), &domain.Review{
		Model:   "M1",
		User:    "U1",
		Score:   4,
		Date:    "2024-01-02",
		Comment: "again",
	})

	assert.ErrorIs(t, err, domain.ErrExistingReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_ExistenceCheckFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	infraErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnError(infraErr)

	err := repo.Create(context.Background(), &domain.Review{Model: "M1", User: "U1"})

	assert.True(t, domain.IsStoreError(err))
	assert.ErrorIs(t, err, infraErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_InsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	infraErr := errors.New("disk full")
	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WillReturnError(infraErr)

	err := repo.Create(context.Background(), &domain.Review{Model: "M1", User: "U1", Date: "2024-01-01"})

	assert.True(t, domain.IsStoreError(err))
	assert.NotErrorIs(t, err, domain.ErrExistingReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByModel_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(`SELECT model, reviewer, score`).
		WithArgs("M1").
		WillReturnRows(sqlmock.NewRows([]string{"model", "reviewer", "score", "review_date", "comment", "created_at"}).
			AddRow("M1", "U1", 5, "2024-01-01", "great", now).
			AddRow("M1", "U2", 2, "2024-01-03", "meh", now.Add(time.Minute)))

	reviews, err := repo.GetByModel(context.Background(), "M1")

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, &domain.Review{Model: "M1", User: "U1", Score: 5, Date: "2024-01-01", Comment: "great", CreatedAt: now}, reviews[0])
	assert.Equal(t, "U2", reviews[1].User)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByModel_ProductNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("ghost").
		WillReturnRows(existsRow(false))

	reviews, err := repo.GetByModel(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Nil(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByModel_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(`SELECT model, reviewer, score`).
		WithArgs("M1").
		WillReturnRows(sqlmock.NewRows([]string{"model", "reviewer", "score", "review_date", "comment", "created_at"}))

	reviews, err := repo.GetByModel(context.Background(), "M1")

	assert.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(reviewExistsQuery)).
		WithArgs("M1", "U1").
		WillReturnRows(existsRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews WHERE model = $1 AND reviewer = $2`)).
		WithArgs("M1", "U1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "M1", "U1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_ProductNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("ghost").
		WillReturnRows(existsRow(false))

	err := repo.Delete(context.Background(), "ghost", "U1")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NoReviewForProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(reviewExistsQuery)).
		WithArgs("M1", "U2").
		WillReturnRows(existsRow(false))

	err := repo.Delete(context.Background(), "M1", "U2")

	assert.ErrorIs(t, err, domain.ErrNoReviewForProduct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_DeleteByModel_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews WHERE model = $1`)).
		WithArgs("M1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteByModel(context.Background(), "M1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_DeleteByModel_NoReviewsIsSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("M1").
		WillReturnRows(existsRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews WHERE model = $1`)).
		WithArgs("M1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByModel(context.Background(), "M1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_DeleteByModel_ProductNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(productExistsQuery)).
		WithArgs("ghost").
		WillReturnRows(existsRow(false))

	err := repo.DeleteByModel(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_DeleteAll_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews`)).
		WillReturnResult(sqlmock.NewResult(0, 42))

	err := repo.DeleteAll(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_DeleteAll_StoreError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	infraErr := errors.New("connection refused")
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews`)).
		WillReturnError(infraErr)

	err := repo.DeleteAll(context.Background())

	assert.True(t, domain.IsStoreError(err))
	assert.ErrorIs(t, err, infraErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
