package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"corkboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestStore_TransactionCommitsBothWrites(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "boards" SET "post_count"=post_count + 1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Transaction(context.Background(), func(tx Store) error {
		if err := tx.Posts().Create(context.Background(), &models.Post{Title: "t", Content: "c", UserID: 1, BoardID: 2}); err != nil {
			return err
		}
		return tx.Boards().IncrementPostCount(context.Background(), 2, time.Now())
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TransactionRollsBackOnCounterFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "boards" SET "post_count"=post_count + 1`)).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	err := store.Transaction(context.Background(), func(tx Store) error {
		if err := tx.Posts().Create(context.Background(), &models.Post{Title: "t", Content: "c", UserID: 1, BoardID: 2}); err != nil {
			return err
		}
		return tx.Boards().IncrementPostCount(context.Background(), 2, time.Now())
	})
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: boards.name")))
}
