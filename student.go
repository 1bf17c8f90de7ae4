package roster

import (
	"context"
	"fmt"
)

// Student represents a single student record.
//
// IDs are supplied by the client and used as the primary key of the record
// store. Duplicate IDs silently overwrite on create (last writer wins).
// Gender is a two-category boolean: true for "male", false for anything else;
// the coercion from form input happens at the transport layer.
type Student struct {
	ID     string `json:"id" dynamodbav:"id"`
	Name   string `json:"name" dynamodbav:"name"`
	DOB    string `json:"dob" dynamodbav:"dob"`
	Gender bool   `json:"gender" dynamodbav:"gender"`
	Avatar string `json:"avatar,omitempty" dynamodbav:"avatar,omitempty"`
}

// StudentFilter defines equality criteria for finding students.
// Nil fields are not filtered on. Filters are evaluated server-side as part
// of a full scan, not an index lookup.
type StudentFilter struct {
	ID     *string
	Gender *bool
}

// StudentUpdate defines the patch applied to an existing student.
// Name, DOB and Gender are always written. Avatar is written only when
// non-nil, so an edit without a new image leaves the stored avatar untouched.
type StudentUpdate struct {
	Name   string
	DOB    string
	Gender bool
	Avatar *string
}

// DeleteResult is the outcome of one delete within a batch.
type DeleteResult struct {
	ID  string
	Err error
}

// StudentService defines operations for managing student records.
type StudentService interface {
	// FindStudents retrieves students matching the filter criteria.
	// An empty filter returns every record.
	FindStudents(ctx context.Context, filter StudentFilter) ([]*Student, error)

	// CreateStudent inserts or fully replaces the record at student.ID.
	// There is no concurrency check; last writer wins.
	CreateStudent(ctx context.Context, student *Student) error

	// UpdateStudent applies a partial update and returns the new record.
	UpdateStudent(ctx context.Context, id string, upd StudentUpdate) (*Student, error)

	// DeleteStudent removes a record. Deleting a missing ID is not an error.
	DeleteStudent(ctx context.Context, id string) error

	// DeleteStudents removes a set of records as independent concurrent
	// deletes. The call returns after every delete has settled; failure of
	// one does not roll back the others. The returned error is non-nil when
	// any single delete failed, alongside the per-ID outcomes.
	DeleteStudents(ctx context.Context, ids []string) ([]DeleteResult, error)
}

// BatchDeleteError aggregates the failed outcomes of a batch delete.
func BatchDeleteError(results []DeleteResult) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return Errorf(EINTERNAL, "failed to delete %d of %d students", failed, len(results))
}

// String implements fmt.Stringer for log output.
func (s *Student) String() string {
	return fmt.Sprintf("Student<%s %q>", s.ID, s.Name)
}
