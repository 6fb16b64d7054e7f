package resumes

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateRollsBackWhenChildInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO resumes").
		WillReturnRows(sqlmock.NewRows([]string{"resume_id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO experiences").
		WillReturnError(errors.New("column overflow"))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	resume := Resume{
		UserID:          1,
		ResumeType:      TypeUserAuthored,
		Title:           "Backend Engineer Resume",
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Gender:          "2",
		Phone:           "010-1234-5678",
		MilitaryService: "6",
		Experiences: []Experience{{
			JobTitle:         "Engineer",
			Department:       "Platform",
			EmploymentStatus: true,
			StartDate:        NewDate(2020, 3, 1),
		}},
	}

	if _, err := repo.Create(context.Background(), resume, nil); err == nil {
		t.Fatal("expected create to fail")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRunsAttachInsideTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO resumes").
		WillReturnRows(sqlmock.NewRows([]string{"resume_id"}).AddRow(int64(9)))
	mock.ExpectExec("INSERT INTO files").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	resume := Resume{
		UserID:          1,
		ResumeType:      TypeStandardRevision,
		Title:           "Revised Resume",
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Gender:          "2",
		Phone:           "010-1234-5678",
		MilitaryService: "6",
	}

	var attachedID int64
	id, err := repo.Create(context.Background(), resume, func(ctx context.Context, tx *sql.Tx, resumeID int64) error {
		attachedID = resumeID
		_, err := tx.ExecContext(ctx, "INSERT INTO files (fileable_id) VALUES ($1)", resumeID)
		return err
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 9 || attachedID != 9 {
		t.Fatalf("expected attach to see id 9, got id=%d attached=%d", id, attachedID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSoftDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE resumes SET is_active").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.SoftDelete(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
