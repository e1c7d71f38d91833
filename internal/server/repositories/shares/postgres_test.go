package shares

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+shares\s*\(token,\s*owner_id,\s*filename,\s*storage_key,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at$`
	findQ   = `(?s)^SELECT\s+token,\s*owner_id,\s*filename,\s*storage_key,\s*expires_at,\s*created_at\s+FROM\s+shares\s+WHERE\s+token\s*=\s*\$1$`
)

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	created := exp.Add(-24 * time.Hour)
	mock.ExpectQuery(insertQ).
		WithArgs("tok", "u1", "a.txt", "users/alice/k", exp).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	s := &models.Share{Token: "tok", OwnerID: "u1", Filename: "a.txt", StorageKey: "users/alice/k", ExpiresAt: exp}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.Equal(t, created, s.CreatedAt)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("boom"))
	assert.Error(t, repo.Create(context.Background(), s))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(findQ).WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"token", "owner_id", "filename", "storage_key", "expires_at", "created_at"}).
			AddRow("tok", "u1", "a.txt", "users/alice/k", exp, exp.Add(-time.Hour)))
	mock.ExpectQuery(findQ).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(findQ).WithArgs("err").WillReturnError(errors.New("boom"))

	s, err := repo.FindByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "users/alice/k", s.StorageKey)
	assert.Equal(t, exp, s.ExpiresAt)

	_, err = repo.FindByToken(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.FindByToken(context.Background(), "err")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
