package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

type countingMetrics struct {
	reviews int
}

func (c *countingMetrics) RecordManualReview(ctx context.Context) { c.reviews++ }

func TestHandle_ProcessesNotices(t *testing.T) {
	metrics := &countingMetrics{}
	p := NewProcessor(metrics)

	ev := events.SQSEvent{
		Records: []events.SQSMessage{
			{Body: `{"order_number":"sess_1","reason":"supplier_rejected","message":"Invalid variant"}`},
			{Body: `{"order_number":"sess_2","reason":"transport_failed","message":"timeout","unresolved_product_ids":["p1"]}`},
		},
	}

	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if metrics.reviews != 2 {
		t.Fatalf("expected 2 review metrics, got %d", metrics.reviews)
	}
}

func TestHandle_RejectsMalformedBody(t *testing.T) {
	p := NewProcessor(nil)

	ev := events.SQSEvent{
		Records: []events.SQSMessage{{Body: `not json`}},
	}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}

func TestHandle_RejectsNoticeWithoutOrderNumber(t *testing.T) {
	p := NewProcessor(nil)

	ev := events.SQSEvent{
		Records: []events.SQSMessage{{Body: `{"reason":"supplier_rejected"}`}},
	}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for notice without order number")
	}
}
