package category

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestExistAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// all ids found, duplicates collapse to one
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	ok, err := repo.ExistAll([]int{1, 2, 2})
	if err != nil {
		t.Fatalf("ExistAll failed: %v", err)
	}
	if !ok {
		t.Fatal("expected all ids to exist")
	}

	// one id missing
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	ok, err = repo.ExistAll([]int{1, 9})
	if err != nil {
		t.Fatalf("ExistAll failed: %v", err)
	}
	if ok {
		t.Fatal("expected a missing id to be reported")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestExistAll_EmptyInput(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	// no ids means nothing to check, no query issued
	ok, err := NewPostgresRepository(db).ExistAll(nil)
	if err != nil || !ok {
		t.Fatalf("expected trivially true, ok=%v err=%v", ok, err)
	}
}
