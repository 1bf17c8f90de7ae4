// Package mock provides hand-written mocks of the domain service interfaces.
package mock

import (
	"context"

	"github.com/rosterapp/roster"
)

// Compile-time interface check
var _ roster.StudentService = (*StudentService)(nil)

// StudentService is a mock implementation of roster.StudentService.
type StudentService struct {
	FindStudentsFn   func(ctx context.Context, filter roster.StudentFilter) ([]*roster.Student, error)
	CreateStudentFn  func(ctx context.Context, student *roster.Student) error
	UpdateStudentFn  func(ctx context.Context, id string, upd roster.StudentUpdate) (*roster.Student, error)
	DeleteStudentFn  func(ctx context.Context, id string) error
	DeleteStudentsFn func(ctx context.Context, ids []string) ([]roster.DeleteResult, error)
}

func (s *StudentService) FindStudents(ctx context.Context, filter roster.StudentFilter) ([]*roster.Student, error) {
	if s.FindStudentsFn != nil {
		return s.FindStudentsFn(ctx, filter)
	}
	return []*roster.Student{}, nil
}

func (s *StudentService) CreateStudent(ctx context.Context, student *roster.Student) error {
	if s.CreateStudentFn != nil {
		return s.CreateStudentFn(ctx, student)
	}
	return nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, id string, upd roster.StudentUpdate) (*roster.Student, error) {
	if s.UpdateStudentFn != nil {
		return s.UpdateStudentFn(ctx, id, upd)
	}
	return nil, roster.NotFound("Student not found")
}

func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	if s.DeleteStudentFn != nil {
		return s.DeleteStudentFn(ctx, id)
	}
	return nil
}

func (s *StudentService) DeleteStudents(ctx context.Context, ids []string) ([]roster.DeleteResult, error) {
	if s.DeleteStudentsFn != nil {
		return s.DeleteStudentsFn(ctx, ids)
	}
	results := make([]roster.DeleteResult, len(ids))
	for i, id := range ids {
		results[i] = roster.DeleteResult{ID: id}
	}
	return results, nil
}
