package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func sampleFeedback() Feedback {
	return Feedback{
		ResumeID:      3,
		UserID:        1,
		ParentContent: "## Review",
		MatchingRate:  0,
		Contents: []Content{
			{Division: CategoryWellDone, Result: "Clear stack."},
			{Division: CategoryRequiredFix, Result: "Quantify results."},
		},
	}
}

func TestPGRepoCreateCommitsParentAndChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO resume_feedbacks").
		WillReturnRows(sqlmock.NewRows([]string{"feedback_id"}).AddRow(int64(11)))
	mock.ExpectExec("INSERT INTO feedback_contents").
		WithArgs(int64(11), CategoryWellDone, "Clear stack.").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO feedback_contents").
		WithArgs(int64(11), CategoryRequiredFix, "Quantify results.").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	id, err := repo.Create(context.Background(), sampleFeedback())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 11 {
		t.Fatalf("expected id 11, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRollsBackWhenContentInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO resume_feedbacks").
		WillReturnRows(sqlmock.NewRows([]string{"feedback_id"}).AddRow(int64(11)))
	mock.ExpectExec("INSERT INTO feedback_contents").
		WithArgs(int64(11), CategoryWellDone, "Clear stack.").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO feedback_contents").
		WithArgs(int64(11), CategoryRequiredFix, "Quantify results.").
		WillReturnError(errors.New("value too long"))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	if _, err := repo.Create(context.Background(), sampleFeedback()); err == nil {
		t.Fatal("expected create to fail")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetWithContentsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT feedback_id, resume_id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"feedback_id"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetWithContents(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
