package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/dripstore/fulfillment/internal/fulfillment"
)

// Metrics is the slice of awsx.Metrics the worker needs.
type Metrics interface {
	RecordManualReview(ctx context.Context)
}

// Processor consumes the manual-review queue. It does not retry orders —
// failed fulfillment is an operator problem by design. It surfaces each
// notice in the logs the ops dashboard tails and counts it.
type Processor struct {
	metrics Metrics // optional
}

func NewProcessor(metrics Metrics) *Processor {
	return &Processor{metrics: metrics}
}

// Handle receives an SQS batch event and processes each notice.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	log.Printf("[opsworker] received %d notices", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processRecord(ctx, rec); err != nil {
			// Return error: the runtime redelivers, and poison messages end
			// up in the DLQ.
			log.Printf("[opsworker] error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processRecord(ctx context.Context, rec events.SQSMessage) error {
	var notice fulfillment.FailureNotice
	if err := json.Unmarshal([]byte(rec.Body), &notice); err != nil {
		return fmt.Errorf("invalid notice body: %w", err)
	}
	if notice.OrderNumber == "" {
		return fmt.Errorf("notice without order number: %s", rec.Body)
	}

	line := fmt.Sprintf("[opsworker] MANUAL REVIEW order=%s reason=%s msg=%q",
		notice.OrderNumber, notice.Reason, notice.Message)
	if notice.CustomerEmail != "" {
		line += " customer=" + notice.CustomerEmail
	}
	if len(notice.UnresolvedProductIDs) > 0 {
		line += " unresolved=" + strings.Join(notice.UnresolvedProductIDs, ",")
	}
	if notice.CorrelationID != "" {
		line += " corr=" + notice.CorrelationID
	}
	log.Print(line)

	if p.metrics != nil {
		p.metrics.RecordManualReview(ctx)
	}
	return nil
}
