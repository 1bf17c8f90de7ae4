package dynamo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterapp/roster"
)

// fakeClient is a function-field fake of the DynamoDB API subset.
type fakeClient struct {
	ScanFn       func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItemFn    func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItemFn func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItemFn func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

func (f *fakeClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return f.ScanFn(ctx, params, optFns...)
}

func (f *fakeClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return f.PutItemFn(ctx, params, optFns...)
}

func (f *fakeClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return f.UpdateItemFn(ctx, params, optFns...)
}

func (f *fakeClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return f.DeleteItemFn(ctx, params, optFns...)
}

func studentItem(id, name string, gender bool) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: id},
		"name":   &types.AttributeValueMemberS{Value: name},
		"dob":    &types.AttributeValueMemberS{Value: "2000-01-01"},
		"gender": &types.AttributeValueMemberBOOL{Value: gender},
		"avatar": &types.AttributeValueMemberS{Value: "https://bucket.s3.us-east-1.amazonaws.com/" + id + "_1.jpg"},
	}
}

func TestFindStudents_All(t *testing.T) {
	client := &fakeClient{
		ScanFn: func(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			assert.Equal(t, "students", *params.TableName)
			assert.Nil(t, params.FilterExpression, "unfiltered scan must not carry a filter expression")
			return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{
				studentItem("1", "Alice", false),
				studentItem("2", "Bob", true),
			}}, nil
		},
	}
	svc := &StudentService{client: client, table: "students"}

	students, err := svc.FindStudents(context.Background(), roster.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Alice", students[0].Name)
	assert.True(t, students[1].Gender)
}

func TestFindStudents_FilterByGender(t *testing.T) {
	gender := true
	client := &fakeClient{
		ScanFn: func(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			require.NotNil(t, params.FilterExpression)
			assert.Contains(t, attributeNames(params.ExpressionAttributeNames), "gender")
			return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{
				studentItem("2", "Bob", true),
			}}, nil
		},
	}
	svc := &StudentService{client: client, table: "students"}

	students, err := svc.FindStudents(context.Background(), roster.StudentFilter{Gender: &gender})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "2", students[0].ID)
}

func TestFindStudents_FilterByID(t *testing.T) {
	id := "1"
	client := &fakeClient{
		ScanFn: func(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			require.NotNil(t, params.FilterExpression)
			assert.Contains(t, attributeNames(params.ExpressionAttributeNames), "id")
			return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{
				studentItem("1", "Alice", false),
			}}, nil
		},
	}
	svc := &StudentService{client: client, table: "students"}

	students, err := svc.FindStudents(context.Background(), roster.StudentFilter{ID: &id})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Alice", students[0].Name)
}

func TestFindStudents_ScanError(t *testing.T) {
	client := &fakeClient{
		ScanFn: func(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			return nil, errors.New("throughput exceeded")
		},
	}
	svc := &StudentService{client: client, table: "students"}

	_, err := svc.FindStudents(context.Background(), roster.StudentFilter{})
	require.Error(t, err)
	assert.Equal(t, roster.EINTERNAL, roster.ErrorCode(err))
}

func TestCreateStudent(t *testing.T) {
	var got map[string]types.AttributeValue
	client := &fakeClient{
		PutItemFn: func(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			got = params.Item
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	svc := &StudentService{client: client, table: "students"}

	err := svc.CreateStudent(context.Background(), &roster.Student{
		ID:     "1",
		Name:   "Alice",
		DOB:    "2000-01-01",
		Gender: true,
		Avatar: "https://example.com/1_1.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, &types.AttributeValueMemberS{Value: "1"}, got["id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Alice"}, got["name"])
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: true}, got["gender"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "https://example.com/1_1.jpg"}, got["avatar"])
}

func TestUpdateStudent_WithoutAvatar(t *testing.T) {
	client := &fakeClient{
		UpdateItemFn: func(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			assert.Equal(t, &types.AttributeValueMemberS{Value: "1"}, params.Key["id"])
			assert.Equal(t, types.ReturnValueAllNew, params.ReturnValues)

			names := attributeNames(params.ExpressionAttributeNames)
			assert.Contains(t, names, "name")
			assert.Contains(t, names, "dob")
			assert.Contains(t, names, "gender")
			assert.NotContains(t, names, "avatar", "patch without a new image must not touch the avatar")

			return &dynamodb.UpdateItemOutput{Attributes: studentItem("1", "Alice", false)}, nil
		},
	}
	svc := &StudentService{client: client, table: "students"}

	student, err := svc.UpdateStudent(context.Background(), "1", roster.StudentUpdate{
		Name:   "Alice",
		DOB:    "2000-01-01",
		Gender: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "1", student.ID)
	assert.False(t, student.Gender)
	assert.NotEmpty(t, student.Avatar, "previously stored avatar survives the patch")
}

func TestUpdateStudent_WithAvatar(t *testing.T) {
	avatar := "https://example.com/1_2.jpg"
	client := &fakeClient{
		UpdateItemFn: func(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			assert.Contains(t, attributeNames(params.ExpressionAttributeNames), "avatar")

			item := studentItem("1", "Alice", true)
			item["avatar"] = &types.AttributeValueMemberS{Value: avatar}
			return &dynamodb.UpdateItemOutput{Attributes: item}, nil
		},
	}
	svc := &StudentService{client: client, table: "students"}

	student, err := svc.UpdateStudent(context.Background(), "1", roster.StudentUpdate{
		Name:   "Alice",
		DOB:    "2000-01-01",
		Gender: true,
		Avatar: &avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, avatar, student.Avatar)
}

func TestDeleteStudents_PartialFailure(t *testing.T) {
	var mu sync.Mutex
	deleted := []string{}
	client := &fakeClient{
		DeleteItemFn: func(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
			id := params.Key["id"].(*types.AttributeValueMemberS).Value
			if id == "B" {
				return nil, errors.New("conditional check failed")
			}
			mu.Lock()
			deleted = append(deleted, id)
			mu.Unlock()
			return &dynamodb.DeleteItemOutput{}, nil
		},
	}
	svc := &StudentService{client: client, table: "students"}

	results, err := svc.DeleteStudents(context.Background(), []string{"A", "B", "C"})
	require.Error(t, err, "aggregate error reported when any sub-delete fails")
	require.Len(t, results, 3)

	byID := map[string]error{}
	for _, r := range results {
		byID[r.ID] = r.Err
	}
	assert.NoError(t, byID["A"])
	assert.Error(t, byID["B"])
	assert.NoError(t, byID["C"])
	assert.ElementsMatch(t, []string{"A", "C"}, deleted, "independent deletes proceed despite the failure")
}

func TestDeleteStudents_Empty(t *testing.T) {
	svc := &StudentService{client: &fakeClient{}, table: "students"}

	results, err := svc.DeleteStudents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// attributeNames returns the substituted attribute names of an expression,
// e.g. {"#0": "name"} -> ["name"].
func attributeNames(names map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, v := range names {
		out = append(out, v)
	}
	return out
}
