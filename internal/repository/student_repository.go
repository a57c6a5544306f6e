package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hallguardian/hallguardian-api/internal/models"
)

const studentColumns = `id, school_id, school_id_no, full_name, grade, qr_value, card_uid, created_at, updated_at`

// StudentRepository resolves student records for the scan path. Students are
// owned by the administrative domain and never mutated here.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByQR resolves a student by QR credential within a school. Returns
// sql.ErrNoRows when no student carries the value.
func (r *StudentRepository) FindByQR(ctx context.Context, schoolID, qrValue string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE school_id = $1 AND qr_value = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, schoolID, qrValue); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByCardUID resolves a student by NFC card UID within a school. Returns
// sql.ErrNoRows when no student carries the UID.
func (r *StudentRepository) FindByCardUID(ctx context.Context, schoolID, cardUID string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE school_id = $1 AND card_uid = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, schoolID, cardUID); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByID fetches a student by primary key. Returns sql.ErrNoRows when
// absent.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}
