package awsx

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics emits fulfillment outcome counters to CloudWatch.
// Emission is best effort: a metrics failure must never fail a fulfillment.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{CloudWatch: client, Namespace: namespace}
}

// RecordFulfillment increments FulfillmentSucceeded or FulfillmentFailed.
func (m *Metrics) RecordFulfillment(ctx context.Context, success bool) {
	name := "FulfillmentFailed"
	if success {
		name = "FulfillmentSucceeded"
	}
	m.putCount(ctx, name)
}

// RecordManualReview increments ManualReviewQueued.
func (m *Metrics) RecordManualReview(ctx context.Context) {
	m.putCount(ctx, "ManualReviewQueued")
}

func (m *Metrics) putCount(ctx context.Context, name string) {
	value := 1.0
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Value:      &value,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	})
	if err != nil {
		log.Printf("[metrics] put %s failed: %v", name, err)
	}
}
