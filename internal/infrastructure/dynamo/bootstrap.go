package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-portal-api/internal/config"
)

// Bootstrap creates all DynamoDB tables and GSIs if they don't already exist.
// Tables that already exist are skipped, so it runs on every startup.
func Bootstrap(ctx context.Context, client *dynamodb.Client, tables config.DynamoTables) {
	createTable(ctx, client, table(tables.Admins, "admin_id",
		gsi("username-index", "username", ""),
		gsi("email-index", "email", ""),
	))
	createTable(ctx, client, table(tables.Sessions, "session_id",
		gsi("admin_id-index", "admin_id", ""),
	))
	createTable(ctx, client, table(tables.Files, "file_id"))

	createTable(ctx, client, table(tables.OTPs, "email"))
	enableTTL(ctx, client, tables.OTPs, "ttl")

	createTable(ctx, client, table(tables.Applications, "application_id",
		gsi("email-index", "email", ""),
		gsi("reg-index", "reg", ""),
	))
	createTable(ctx, client, table(tables.Candidates, "candidate_id"))
	createTable(ctx, client, table(tables.Facilities, "facility_id",
		gsi("name-index", "name", ""),
	))
	createTable(ctx, client, table(tables.Bookings, "booking_id",
		gsi("facility_id-index", "facility_id", ""),
	))
	createTable(ctx, client, table(tables.Leaves, "leave_id",
		gsi("kind-index", "kind", ""),
	))
	createTable(ctx, client, table(tables.Complaints, "complaint_id"))
	createTable(ctx, client, table(tables.Budgets, "budget_id"))
	createTable(ctx, client, table(tables.Cheaters, "student_id"))
}

// table builds a pay-per-request table keyed by a string hash key. Every
// GSI key attribute is declared as a string.
func table(name, hashKey string, indexes ...types.GlobalSecondaryIndex) *dynamodb.CreateTableInput {
	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String(hashKey), AttributeType: types.ScalarAttributeTypeS},
	}
	seen := map[string]bool{hashKey: true}
	for _, idx := range indexes {
		for _, k := range idx.KeySchema {
			if seen[*k.AttributeName] {
				continue
			}
			seen[*k.AttributeName] = true
			attrs = append(attrs, types.AttributeDefinition{AttributeName: k.AttributeName, AttributeType: types.ScalarAttributeTypeS})
		}
	}
	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(name),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
	}
	if len(indexes) > 0 {
		input.GlobalSecondaryIndexes = indexes
	}
	return input
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

func createTable(ctx context.Context, client *dynamodb.Client, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException means the table already exists.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			slog.Warn("could not create table", "table", *input.TableName, "err", err)
		}
	} else {
		slog.Info("created table", "table", *input.TableName)
	}
}

func enableTTL(ctx context.Context, client *dynamodb.Client, tableName, ttlAttr string) {
	_, err := client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       aws.Bool(true),
			AttributeName: aws.String(ttlAttr),
		},
	})
	if err != nil {
		slog.Warn("could not enable TTL", "table", tableName, "err", err)
	}
}
