package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/dripstore/fulfillment/internal/catalog"
	"github.com/dripstore/fulfillment/internal/supplier"
	"github.com/dripstore/fulfillment/internal/token"
)

type fakeSubmitter struct {
	requests []supplier.CreateOrderRequest
	resp     *supplier.CreateOrderResponse
	err      error
}

func (f *fakeSubmitter) CreateOrder(ctx context.Context, order supplier.CreateOrderRequest) (*supplier.CreateOrderResponse, error) {
	f.requests = append(f.requests, order)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeQueue struct {
	bodies []string
	attrs  []map[string]string
}

func (f *fakeQueue) Publish(ctx context.Context, body string, attrs map[string]string) error {
	f.bodies = append(f.bodies, body)
	f.attrs = append(f.attrs, attrs)
	return nil
}

type fakeMetrics struct {
	successes int
	failures  int
}

func (f *fakeMetrics) RecordFulfillment(ctx context.Context, success bool) {
	if success {
		f.successes++
	} else {
		f.failures++
	}
}

func okResponse() *supplier.CreateOrderResponse {
	return &supplier.CreateOrderResponse{
		Code:   200,
		Result: true,
		Data:   supplier.OrderData{OrderID: "ord-1", OrderNum: "num-1", OrderStatus: "CREATED"},
	}
}

func testEvent() PaymentEvent {
	return PaymentEvent{
		Reference: "sess_abc",
		Items:     []LineItem{{ProductID: "body-sculptant-premium", Quantity: 1, Size: "M"}},
		Shipping:  Shipping{Name: "Marie Dupont", Address: "1 Rue de Rivoli", City: "Paris", Zip: "75001", CountryCode: "FR"},
	}
}

func newTestOrchestrator(sub Submitter) *Orchestrator {
	return NewOrchestrator(
		catalog.NewResolver(catalog.DefaultMappings()),
		NewBuilder(DefaultBuilderConfig()),
		sub,
	)
}

func TestFulfill_Success(t *testing.T) {
	sub := &fakeSubmitter{resp: okResponse()}
	metrics := &fakeMetrics{}
	o := newTestOrchestrator(sub).WithMetrics(metrics)

	res := o.Fulfill(context.Background(), testEvent())
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.OrderNumber != "sess_abc" {
		t.Fatalf("order number mismatch: %s", res.OrderNumber)
	}
	if res.SupplierOrderID != "num-1" || res.Status != "CREATED" {
		t.Fatalf("supplier id/status mismatch: %s/%s", res.SupplierOrderID, res.Status)
	}
	if metrics.successes != 1 || metrics.failures != 0 {
		t.Fatalf("metrics mismatch: %+v", metrics)
	}
}

func TestFulfill_ValidationFailsFast(t *testing.T) {
	sub := &fakeSubmitter{resp: okResponse()}
	o := newTestOrchestrator(sub)

	cases := []struct {
		name  string
		event PaymentEvent
	}{
		{"missing reference", PaymentEvent{Items: testEvent().Items, Shipping: testEvent().Shipping}},
		{"no line items", PaymentEvent{Reference: "sess_1", Shipping: testEvent().Shipping}},
		{"no shipping", PaymentEvent{Reference: "sess_1", Items: testEvent().Items}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := o.Fulfill(context.Background(), tc.event)
			if res.Success || res.Reason != ReasonValidation {
				t.Fatalf("expected validation failure, got %+v", res)
			}
		})
	}
	if len(sub.requests) != 0 {
		t.Fatalf("validation failures must not reach the supplier, got %d calls", len(sub.requests))
	}
}

func TestFulfill_PartialResolution(t *testing.T) {
	sub := &fakeSubmitter{resp: okResponse()}
	o := newTestOrchestrator(sub)

	ev := testEvent()
	ev.Items = []LineItem{
		{ProductID: "body-sculptant-premium", Quantity: 1, Size: "M"},
		{ProductID: "body-sculptant-premium", Quantity: 2, Size: "L"},
		{ProductID: "portable-blender-usb", Quantity: 1}, // pending supplier match
	}

	res := o.Fulfill(context.Background(), ev)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(sub.requests) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(sub.requests))
	}
	if got := len(sub.requests[0].Products); got != 2 {
		t.Fatalf("expected 2 products in payload, got %d", got)
	}
	if len(res.UnresolvedProductIDs) != 1 || res.UnresolvedProductIDs[0] != "portable-blender-usb" {
		t.Fatalf("unresolved ids mismatch: %v", res.UnresolvedProductIDs)
	}
}

func TestFulfill_ZeroResolvedItems(t *testing.T) {
	sub := &fakeSubmitter{resp: okResponse()}
	queue := &fakeQueue{}
	o := newTestOrchestrator(sub).WithFailureQueue(queue)

	ev := testEvent()
	ev.Items = []LineItem{{ProductID: "portable-blender-usb", Quantity: 1}}

	res := o.Fulfill(context.Background(), ev)
	if res.Success || res.Reason != ReasonNoValidProducts {
		t.Fatalf("expected no-valid-products failure, got %+v", res)
	}
	if !res.RequiresManualProcessing {
		t.Fatalf("a paid but unfulfillable order must go to manual processing")
	}
	if len(sub.requests) != 0 {
		t.Fatalf("must not call the supplier with an empty order")
	}
	if len(queue.bodies) != 1 {
		t.Fatalf("expected 1 manual-review notice, got %d", len(queue.bodies))
	}
}

func TestFulfill_IdempotentOrderNumbers(t *testing.T) {
	sub := &fakeSubmitter{resp: okResponse()}
	o := newTestOrchestrator(sub)

	ev := testEvent()
	o.Fulfill(context.Background(), ev)
	o.Fulfill(context.Background(), ev)

	if len(sub.requests) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(sub.requests))
	}
	if sub.requests[0].OrderNumber != sub.requests[1].OrderNumber {
		t.Fatalf("order numbers differ across redelivery: %s vs %s",
			sub.requests[0].OrderNumber, sub.requests[1].OrderNumber)
	}
	if sub.requests[0].OrderNumber != "sess_abc" {
		t.Fatalf("order number must be the payment reference, got %s", sub.requests[0].OrderNumber)
	}
}

func TestFulfill_SupplierRejectionSurfacesMessage(t *testing.T) {
	sub := &fakeSubmitter{resp: &supplier.CreateOrderResponse{Result: false, Message: "Invalid variant"}}
	queue := &fakeQueue{}
	metrics := &fakeMetrics{}
	o := newTestOrchestrator(sub).WithFailureQueue(queue).WithMetrics(metrics)

	res := o.Fulfill(context.Background(), testEvent())
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Reason != ReasonSupplierReject || res.Message != "Invalid variant" {
		t.Fatalf("rejection not surfaced: %+v", res)
	}
	if !res.RequiresManualProcessing {
		t.Fatalf("supplier rejection must be flagged for manual processing")
	}
	if metrics.failures != 1 {
		t.Fatalf("expected failure metric, got %+v", metrics)
	}

	if len(queue.bodies) != 1 {
		t.Fatalf("expected manual-review notice")
	}
	var notice FailureNotice
	if err := json.Unmarshal([]byte(queue.bodies[0]), &notice); err != nil {
		t.Fatalf("notice not JSON: %v", err)
	}
	if notice.OrderNumber != "sess_abc" || notice.Reason != ReasonSupplierReject {
		t.Fatalf("notice mismatch: %+v", notice)
	}
	if queue.attrs[0]["order_number"] != "sess_abc" {
		t.Fatalf("attrs mismatch: %v", queue.attrs[0])
	}
}

func TestFulfill_TransportFailure(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("connection reset")}
	o := newTestOrchestrator(sub)

	res := o.Fulfill(context.Background(), testEvent())
	if res.Success || res.Reason != ReasonTransport {
		t.Fatalf("expected transport failure, got %+v", res)
	}
	if !res.RequiresManualProcessing {
		t.Fatalf("transport failure must be flagged for manual processing")
	}
}

func TestFulfill_AuthFailure(t *testing.T) {
	sub := &fakeSubmitter{err: fmt.Errorf("acquire token: %w", token.ErrAuth)}
	o := newTestOrchestrator(sub)

	res := o.Fulfill(context.Background(), testEvent())
	if res.Success || res.Reason != ReasonAuth {
		t.Fatalf("expected auth failure, got %+v", res)
	}
	if !res.RequiresManualProcessing {
		t.Fatalf("auth failure must be flagged for manual processing")
	}
}
