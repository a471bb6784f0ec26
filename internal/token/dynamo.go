package token

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/dripstore/fulfillment/internal/awsx"
)

// tokenRecordKey is the fixed partition key: one token record per deployment,
// not per user.
const tokenRecordKey = "supplier-access-token"

type dynamoRecord struct {
	CacheKey    string `dynamodbav:"cache_key"` // PK
	AccessToken string `dynamodbav:"access_token"`
	ExpiryDate  string `dynamodbav:"expiry_date"`
	CreatedAt   string `dynamodbav:"created_at"`
}

// DynamoStore keeps the token record in a DynamoDB table, for deployments
// where instances do not share a filesystem. Plain PutItem: last writer wins.
type DynamoStore struct {
	client    awsx.DynamoDBAPI
	tableName string
}

// NewDynamoStore returns a store bound to a table name.
func NewDynamoStore(client awsx.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

func (s *DynamoStore) Read(ctx context.Context) (*CachedToken, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"cache_key": &types.AttributeValueMemberS{Value: tokenRecordKey},
		},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
			log.Printf("[token] table %s not found, treating cache as absent", s.tableName)
			return nil, nil
		}
		return nil, fmt.Errorf("get token item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var rec dynamoRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		log.Printf("[token] discarding unreadable record in %s: %v", s.tableName, err)
		return nil, nil
	}
	tok, err := rec.toToken()
	if err != nil {
		log.Printf("[token] discarding malformed record in %s: %v", s.tableName, err)
		return nil, nil
	}
	return tok, nil
}

func (s *DynamoStore) Write(ctx context.Context, tok *CachedToken) error {
	rec := dynamoRecord{
		CacheKey:    tokenRecordKey,
		AccessToken: tok.AccessToken,
		ExpiryDate:  tok.ExpiryDate.Format(time.RFC3339),
		CreatedAt:   tok.CreatedAt.Format(time.RFC3339),
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal token record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put token item: %w", err)
	}
	return nil
}

func (r dynamoRecord) toToken() (*CachedToken, error) {
	if r.AccessToken == "" {
		return nil, errors.New("empty access token")
	}
	expiry, err := time.Parse(time.RFC3339, r.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("parse expiry: %w", err)
	}
	created, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &CachedToken{
		AccessToken: r.AccessToken,
		ExpiryDate:  expiry,
		CreatedAt:   created,
	}, nil
}
