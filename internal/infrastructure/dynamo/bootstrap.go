package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-office-api/internal/config"
)

type tableCreator interface {
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Bootstrap creates the tables and their GSIs when missing.
// Existing tables are left untouched.
func Bootstrap(ctx context.Context, client tableCreator, tables config.DynamoTables) {
	for _, in := range tableDefinitions(tables) {
		createTable(ctx, client, in)
	}
}

func tableDefinitions(tables config.DynamoTables) []*dynamodb.CreateTableInput {
	return []*dynamodb.CreateTableInput{
		{
			TableName:   aws.String(tables.Users),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				attr(fieldUserID), attr("email"), attr(fieldRole), attr(fieldManagerID),
			},
			KeySchema: hashKey(fieldUserID),
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				gsi(indexUsersEmail, "email", ""),
				gsi(indexUsersRole, fieldRole, ""),
				gsi(indexUsersManager, fieldManagerID, ""),
			},
		},
		{
			TableName:   aws.String(tables.Sessions),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				attr("session_id"), attr(fieldUserID), attr(fieldRefreshToken),
			},
			KeySchema: hashKey("session_id"),
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				gsi(indexSessionsUser, fieldUserID, ""),
				gsi(indexSessionsRefresh, fieldRefreshToken, ""),
			},
		},
		{
			TableName:   aws.String(tables.Leaves),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				attr("leave_id"), attr("requester_id"), attr("requested_at"),
				attr(fieldManagerID), attr(fieldStatus), attr("manager_approved_at"),
			},
			KeySchema: hashKey("leave_id"),
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				gsi(indexLeavesRequester, "requester_id", "requested_at"),
				gsi(indexLeavesManager, fieldManagerID, "requested_at"),
				gsi(indexLeavesStatus, fieldStatus, "manager_approved_at"),
			},
		},
		{
			TableName:   aws.String(tables.Notifications),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				attr("notification_id"), attr(fieldUserID), attr("created_at"),
			},
			KeySchema: hashKey("notification_id"),
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				gsi(indexNotificationsInbox, fieldUserID, "created_at"),
			},
		},
	}
}

func attr(name string) types.AttributeDefinition {
	return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
}

func hashKey(name string) []types.KeySchemaElement {
	return []types.KeySchemaElement{{AttributeName: aws.String(name), KeyType: types.KeyTypeHash}}
}

// gsi builds a GSI descriptor. If sortKey is empty, only a hash key is added.
func gsi(indexName, hashKey, sortKey string) types.GlobalSecondaryIndex {
	ks := []types.KeySchemaElement{
		{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
	}
	if sortKey != "" {
		ks = append(ks, types.KeySchemaElement{
			AttributeName: aws.String(sortKey), KeyType: types.KeyTypeRange,
		})
	}
	return types.GlobalSecondaryIndex{
		IndexName:  aws.String(indexName),
		KeySchema:  ks,
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func createTable(ctx context.Context, client tableCreator, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException: already there.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			slog.Warn("could not create table", "table", *input.TableName, "err", err)
		}
		return
	}
	slog.Info("created table", "table", *input.TableName)
}
