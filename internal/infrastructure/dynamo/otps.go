package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-portal-api/internal/domain"
)

// OTPRepo stores one OTP record per email.
// PK: email. The ttl attribute drives native expiry.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

func (r *OTPRepo) Put(ctx context.Context, rec *domain.OTPRecord) error {
	return putItem(ctx, r.client, r.tableName, rec)
}

func (r *OTPRepo) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	rec, err := getItem[domain.OTPRecord](ctx, r.client, r.tableName, "email", email)
	if err != nil {
		return nil, fmt.Errorf("get otp record: %w", err)
	}
	return rec, nil
}

// MarkConsumed flips consumed and attaches the grant in one conditional write.
func (r *OTPRepo) MarkConsumed(ctx context.Context, email, codeHash string, now time.Time, grant domain.VerificationGrant) (bool, error) {
	expiresAt := grant.ExpiresAt.Unix()
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("email", email),
		ConditionExpression: aws.String("attribute_exists(email) AND consumed = :f AND code_hash = :h AND expires_at >= :now"),
		UpdateExpression: aws.String("SET consumed = :t, consumed_at = :now, grant_hash = :g, " +
			"grant_expires_at = :gexp, grant_used = :f, #ttl = :ttl"),
		ExpressionAttributeNames: map[string]string{"#ttl": "ttl"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":    &types.AttributeValueMemberBOOL{Value: true},
			":f":    &types.AttributeValueMemberBOOL{Value: false},
			":h":    &types.AttributeValueMemberS{Value: codeHash},
			":now":  unixAttr(now.Unix()),
			":g":    &types.AttributeValueMemberS{Value: grant.Hash},
			":gexp": unixAttr(expiresAt),
			":ttl":  unixAttr(expiresAt + int64(time.Hour/time.Second)),
		},
	})
	if isConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RedeemGrant marks the grant used if it matches, is unused and unexpired.
func (r *OTPRepo) RedeemGrant(ctx context.Context, email, grantHash string, now time.Time) (bool, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("email", email),
		ConditionExpression: aws.String("attribute_exists(email) AND grant_hash = :g AND grant_used = :f AND grant_expires_at >= :now"),
		UpdateExpression:    aws.String("SET grant_used = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":   &types.AttributeValueMemberBOOL{Value: true},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
			":g":   &types.AttributeValueMemberS{Value: grantHash},
			":now": unixAttr(now.Unix()),
		},
	})
	if isConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func unixAttr(sec int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(sec, 10)}
}
