// Package dynamo provides DynamoDB implementations of domain service interfaces.
package dynamo

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/rosterapp/roster"
)

// API is the subset of the DynamoDB client this package uses.
// Narrowing the client to an interface lets tests substitute a fake.
type API interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DB wraps the DynamoDB client and exposes domain services.
type DB struct {
	client API

	StudentService roster.StudentService
}

// NewDB creates a new database wrapper with all services initialized.
func NewDB(client API, table string) *DB {
	return &DB{
		client:         client,
		StudentService: &StudentService{client: client, table: table},
	}
}

// NewClient constructs a DynamoDB client from the ambient AWS configuration.
// Credentials come from the environment or shared config, per the SDK's
// default chain.
func NewClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}
