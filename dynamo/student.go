package dynamo

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/rosterapp/roster"
)

// Compile-time interface check
var _ roster.StudentService = (*StudentService)(nil)

// StudentService implements roster.StudentService on a DynamoDB table
// keyed by the student id.
type StudentService struct {
	client API
	table  string
}

// FindStudents scans the table, optionally with a server-side equality
// filter. The filter does not use an index, so cost is proportional to
// table size regardless of selectivity.
func (s *StudentService) FindStudents(ctx context.Context, filter roster.StudentFilter) ([]*roster.Student, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	}

	if cond, ok := filterCondition(filter); ok {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, roster.Internal("Failed to build student filter", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, roster.Internal("Failed to read student records", err)
	}

	students := []*roster.Student{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &students); err != nil {
		return nil, roster.Internal("Failed to decode student records", err)
	}
	return students, nil
}

// CreateStudent inserts or fully replaces the record at student.ID.
func (s *StudentService) CreateStudent(ctx context.Context, student *roster.Student) error {
	item, err := attributevalue.MarshalMap(student)
	if err != nil {
		return roster.Internal("Failed to encode student record", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return roster.Internal("Failed to write student record", err)
	}
	return nil
}

// UpdateStudent applies a partial update and returns the record as stored
// after the write. Attributes absent from the update are left untouched.
// The expression builder substitutes placeholder attribute names, which
// keeps "name" (a DynamoDB reserved word) legal in the update expression.
func (s *StudentService) UpdateStudent(ctx context.Context, id string, upd roster.StudentUpdate) (*roster.Student, error) {
	update := expression.
		Set(expression.Name("name"), expression.Value(upd.Name)).
		Set(expression.Name("dob"), expression.Value(upd.DOB)).
		Set(expression.Name("gender"), expression.Value(upd.Gender))
	if upd.Avatar != nil {
		update = update.Set(expression.Name("avatar"), expression.Value(*upd.Avatar))
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return nil, roster.Internal("Failed to build student update", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       studentKey(id),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, roster.Internal("Failed to update student record", err)
	}

	var student roster.Student
	if err := attributevalue.UnmarshalMap(out.Attributes, &student); err != nil {
		return nil, roster.Internal("Failed to decode student record", err)
	}
	return &student, nil
}

// DeleteStudent removes a record. DynamoDB deletes are idempotent: deleting
// a missing id succeeds.
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       studentKey(id),
	})
	if err != nil {
		return roster.Internal("Failed to delete student record", err)
	}
	return nil
}

// DeleteStudents dispatches one delete per id concurrently and waits for
// all of them to settle. Failures do not roll back the deletes that
// succeeded; the per-id outcomes report which ones failed.
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

func studentKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func filterCondition(filter roster.StudentFilter) (expression.ConditionBuilder, bool) {
	var conds []expression.ConditionBuilder
	if filter.ID != nil {
		conds = append(conds, expression.Name("id").Equal(expression.Value(*filter.ID)))
	}
	if filter.Gender != nil {
		conds = append(conds, expression.Name("gender").Equal(expression.Value(*filter.Gender)))
	}

	switch len(conds) {
	case 0:
		return expression.ConditionBuilder{}, false
	case 1:
		return conds[0], true
	default:
		return expression.And(conds[0], conds[1], conds[2:]...), true
	}
}
