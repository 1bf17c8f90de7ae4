package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/rosterapp/roster"
)

// Compile-time interface check
var _ roster.StudentService = (*StudentService)(nil)

// StudentService implements roster.StudentService on a relational students
// table. Unlike the DynamoDB implementation, attribute names need no
// placeholder substitution here; the patch semantics are preserved with a
// COALESCE on the avatar column.
type StudentService struct {
	db *DB
}

// FindStudents retrieves students matching the filter criteria.
func (s *StudentService) FindStudents(ctx context.Context, filter roster.StudentFilter) ([]*roster.Student, error) {
	query := `SELECT id, name, dob, gender, avatar FROM students`

	var conds []string
	var args []any
	if filter.ID != nil {
		args = append(args, *filter.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.Gender != nil {
		args = append(args, *filter.Gender)
		conds = append(conds, fmt.Sprintf("gender = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, roster.Internal("Failed to read student records", err)
	}
	defer rows.Close()

	students := []*roster.Student{}
	for rows.Next() {
		var student roster.Student
		var avatar *string
		if err := rows.Scan(&student.ID, &student.Name, &student.DOB, &student.Gender, &avatar); err != nil {
			return nil, roster.Internal("Failed to decode student records", err)
		}
		if avatar != nil {
			student.Avatar = *avatar
		}
		students = append(students, &student)
	}
	if err := rows.Err(); err != nil {
		return nil, roster.Internal("Failed to read student records", err)
	}
	return students, nil
}

// CreateStudent inserts or fully replaces the record at student.ID.
func (s *StudentService) CreateStudent(ctx context.Context, student *roster.Student) error {
	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO students (id, name, dob, gender, avatar)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			dob = EXCLUDED.dob,
			gender = EXCLUDED.gender,
			avatar = EXCLUDED.avatar`,
		student.ID, student.Name, student.DOB, student.Gender, student.Avatar)
	if err != nil {
		return roster.Internal("Failed to write student record", err)
	}
	return nil
}

// UpdateStudent applies a partial update and returns the new record.
// A nil upd.Avatar leaves the stored avatar column untouched.
func (s *StudentService) UpdateStudent(ctx context.Context, id string, upd roster.StudentUpdate) (*roster.Student, error) {
	var student roster.Student
	var avatar *string
	err := s.db.pool.QueryRow(ctx, `
		UPDATE students SET
			name = $2,
			dob = $3,
			gender = $4,
			avatar = COALESCE($5, avatar)
		WHERE id = $1
		RETURNING id, name, dob, gender, avatar`,
		id, upd.Name, upd.DOB, upd.Gender, upd.Avatar).
		Scan(&student.ID, &student.Name, &student.DOB, &student.Gender, &avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, roster.NotFound("Student %q not found", id)
	}
	if err != nil {
		return nil, roster.Internal("Failed to update student record", err)
	}
	if avatar != nil {
		student.Avatar = *avatar
	}
	return &student, nil
}

// DeleteStudent removes a record. Deleting a missing id is not an error.
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	if _, err := s.db.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return roster.Internal("Failed to delete student record", err)
	}
	return nil
}

// DeleteStudents dispatches one delete per id concurrently and waits for
// all of them to settle. The pool is safe for concurrent use.
func (s *StudentService) DeleteStudents(ctx context.Context, ids []string) ([]roster.DeleteResult, error) {
	results := make([]roster.DeleteResult, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = roster.DeleteResult{ID: id, Err: s.DeleteStudent(ctx, id)}
		}(i, id)
	}
	wg.Wait()

	return results, roster.BatchDeleteError(results)
}
