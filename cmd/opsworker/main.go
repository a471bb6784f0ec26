package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/dripstore/fulfillment/internal/awsx"
)

func main() {
	ctx := context.Background()

	var metrics Metrics
	if ns := os.Getenv("METRICS_NAMESPACE"); ns != "" {
		clients, err := awsx.NewAWSClients(ctx)
		if err != nil {
			log.Fatalf("failed to init aws clients: %v", err)
		}
		metrics = awsx.NewMetrics(clients.CloudWatch, ns)
	}

	p := NewProcessor(metrics)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_number":"local-order-1","reason":"supplier_rejected","message":"Invalid variant"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
