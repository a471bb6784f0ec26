package token

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestDynamoStore_WriteRead(t *testing.T) {
	mock := newSimpleMock()
	s := NewDynamoStore(mock, "token-table")
	ctx := context.Background()

	expiry := time.Now().Add(12 * time.Hour).UTC().Truncate(time.Second)
	created := time.Now().UTC().Truncate(time.Second)
	in := &CachedToken{AccessToken: "tok-dyn", ExpiryDate: expiry, CreatedAt: created}

	if err := s.Write(ctx, in); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if mock.putCalls != 1 {
		t.Fatalf("expected 1 put, got %d", mock.putCalls)
	}

	out, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if out == nil {
		t.Fatalf("expected token, got nil")
	}
	if out.AccessToken != "tok-dyn" {
		t.Fatalf("token mismatch: %s", out.AccessToken)
	}
	if !out.ExpiryDate.Equal(expiry) {
		t.Fatalf("expiry mismatch: got %s want %s", out.ExpiryDate, expiry)
	}
}

func TestDynamoStore_ReadAbsent(t *testing.T) {
	s := NewDynamoStore(newSimpleMock(), "token-table")

	tok, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if tok != nil {
		t.Fatalf("expected nil token, got %+v", tok)
	}
}

func TestDynamoStore_MalformedRecordTreatedAsAbsent(t *testing.T) {
	mock := newSimpleMock()
	mock.table[tokenRecordKey] = map[string]types.AttributeValue{
		"cache_key":    &types.AttributeValueMemberS{Value: tokenRecordKey},
		"access_token": &types.AttributeValueMemberS{Value: "tok"},
		"expiry_date":  &types.AttributeValueMemberS{Value: "not-a-date"},
		"created_at":   &types.AttributeValueMemberS{Value: "also-not-a-date"},
	}
	s := NewDynamoStore(mock, "token-table")

	tok, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("expected soft failure, got error: %v", err)
	}
	if tok != nil {
		t.Fatalf("expected nil token for malformed record, got %+v", tok)
	}
}

func TestDynamoStore_LastWriterWins(t *testing.T) {
	mock := newSimpleMock()
	s := NewDynamoStore(mock, "token-table")
	ctx := context.Background()

	_ = s.Write(ctx, &CachedToken{AccessToken: "tok-1", ExpiryDate: time.Now().Add(time.Hour), CreatedAt: time.Now()})
	_ = s.Write(ctx, &CachedToken{AccessToken: "tok-2", ExpiryDate: time.Now().Add(time.Hour), CreatedAt: time.Now()})

	out, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if out.AccessToken != "tok-2" {
		t.Fatalf("expected tok-2, got %s", out.AccessToken)
	}
}
