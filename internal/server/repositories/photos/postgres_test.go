package photos

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/contactform/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	putQuery = `(?s)^INSERT\s+INTO\s+user_photos\s*\(user_id,\s*photo\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(user_id\)\s*DO\s+UPDATE\s+SET\s+photo\s*=\s*EXCLUDED\.photo\s*$`
	getQuery = `(?s)^SELECT\s+photo\s+FROM\s+user_photos\s+WHERE\s+user_id\s*=\s*\$1\s*$`
)

func TestPut_Upserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(putQuery).WithArgs(int64(1), "aGVsbG8=").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Put(context.Background(), 1, "aGVsbG8="); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPut_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(putQuery).WillReturnError(errors.New("db down"))

	err := repo.Put(context.Background(), 1, "x")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQuery).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"photo"}).AddRow("cGhvdG8="))

	got, err := repo.Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != "cGhvdG8=" {
		t.Fatalf("unexpected photo %q", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQuery).WithArgs(int64(2)).WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), 2); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
