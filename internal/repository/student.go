package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rosterd/rosterd/internal/model"
)

// ErrStudentNotFound indicates no student row matched the given ID.
var ErrStudentNotFound = errors.New("student not found")

// CreateStudent inserts a new student record.
func (r *Repository) CreateStudent(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (id, name, email, dob, gender, student_no, dept, year, phone, address, gpa, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		student.ID,
		student.Name,
		student.Email,
		student.DOB,
		student.Gender,
		student.StudentNo,
		student.Dept,
		student.Year,
		student.Phone,
		student.Address,
		student.GPA,
		student.CreatedAt,
		student.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetStudentByID retrieves a student by its ID.
func (r *Repository) GetStudentByID(ctx context.Context, id string) (*model.Student, error) {
	query := `
		SELECT id, name, email, dob, gender, student_no, dept, year, phone, address, gpa, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	student, err := scanStudent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// ListStudents returns all student records ordered by creation time.
func (r *Repository) ListStudents(ctx context.Context) ([]*model.Student, error) {
	query := `
		SELECT id, name, email, dob, gender, student_no, dept, year, phone, address, gpa, created_at, updated_at
		FROM students
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]*model.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, nil
}

// UpdateStudent replaces all mutable fields of a student record.
func (r *Repository) UpdateStudent(ctx context.Context, student *model.Student) error {
	query := `
		UPDATE students
		SET name = $2, email = $3, dob = $4, gender = $5, student_no = $6,
		    dept = $7, year = $8, phone = $9, address = $10, gpa = $11, updated_at = $12
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		student.ID,
		student.Name,
		student.Email,
		student.DOB,
		student.Gender,
		student.StudentNo,
		student.Dept,
		student.Year,
		student.Phone,
		student.Address,
		student.GPA,
		student.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}

	return nil
}

// DeleteStudent removes a student record.
func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}

	return nil
}

// scanStudent scans a student from a row.
func scanStudent(row pgx.Row) (*model.Student, error) {
	var student model.Student
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.DOB,
		&student.Gender,
		&student.StudentNo,
		&student.Dept,
		&student.Year,
		&student.Phone,
		&student.Address,
		&student.GPA,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}
