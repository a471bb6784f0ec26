package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/dripstore/fulfillment/internal/catalog"
	"github.com/dripstore/fulfillment/internal/supplier"
	"github.com/dripstore/fulfillment/internal/token"
)

// Submitter is the slice of the supplier client the orchestrator needs.
type Submitter interface {
	CreateOrder(ctx context.Context, order supplier.CreateOrderRequest) (*supplier.CreateOrderResponse, error)
}

// FailurePublisher posts failed attempts to the manual-review queue.
type FailurePublisher interface {
	Publish(ctx context.Context, messageBody string, attributes map[string]string) error
}

// MetricsRecorder counts fulfillment outcomes.
type MetricsRecorder interface {
	RecordFulfillment(ctx context.Context, success bool)
}

// Orchestrator is the single entry point invoked on a payment-completed
// event: resolve variants, build one consolidated order, submit it, report
// the outcome. Safe to invoke more than once per event — the order number is
// the payment reference, so the supplier deduplicates redeliveries.
type Orchestrator struct {
	resolver  *catalog.Resolver
	builder   *Builder
	submitter Submitter
	queue     FailurePublisher // optional
	metrics   MetricsRecorder  // optional
}

func NewOrchestrator(resolver *catalog.Resolver, builder *Builder, submitter Submitter) *Orchestrator {
	return &Orchestrator{
		resolver:  resolver,
		builder:   builder,
		submitter: submitter,
	}
}

// WithFailureQueue attaches the manual-review queue publisher.
func (o *Orchestrator) WithFailureQueue(q FailurePublisher) *Orchestrator {
	o.queue = q
	return o
}

// WithMetrics attaches the outcome metrics recorder.
func (o *Orchestrator) WithMetrics(m MetricsRecorder) *Orchestrator {
	o.metrics = m
	return o
}

// Fulfill runs one fulfillment attempt to completion and returns the outcome.
// It never returns an error: every failure mode becomes a Result the webhook
// caller can acknowledge and, where flagged, hand to manual processing.
func (o *Orchestrator) Fulfill(ctx context.Context, ev PaymentEvent) Result {
	if msg := validate(ev); msg != "" {
		// Fail fast, no supplier call. Not flagged for manual processing:
		// a malformed event carries nothing an operator could fulfill.
		return o.report(ctx, ev, Result{
			Reason:  ReasonValidation,
			Message: msg,
		})
	}

	resolved, unresolved := o.resolveItems(ev)
	if len(resolved) == 0 {
		return o.report(ctx, ev, Result{
			OrderNumber:              ev.Reference,
			Reason:                   ReasonNoValidProducts,
			Message:                  "no valid products for fulfillment",
			RequiresManualProcessing: true,
			UnresolvedProductIDs:     unresolved,
		})
	}

	order := o.builder.Build(ev.Reference, ev.Shipping, resolved)
	log.Printf("[fulfillment] submitting order %s: %d products, %d dropped",
		ev.Reference, len(order.Products), len(unresolved))

	resp, err := o.submitter.CreateOrder(ctx, order)
	if err != nil {
		reason := ReasonTransport
		if errors.Is(err, token.ErrAuth) {
			reason = ReasonAuth
		}
		log.Printf("[fulfillment] order %s submission failed (%s): %v", ev.Reference, reason, err)
		return o.report(ctx, ev, Result{
			OrderNumber:              ev.Reference,
			Reason:                   reason,
			Message:                  err.Error(),
			RequiresManualProcessing: true,
			UnresolvedProductIDs:     unresolved,
		})
	}

	if !resp.Result {
		log.Printf("[fulfillment] supplier rejected order %s: %s", ev.Reference, resp.Message)
		return o.report(ctx, ev, Result{
			OrderNumber:              ev.Reference,
			Reason:                   ReasonSupplierReject,
			Message:                  resp.Message,
			RequiresManualProcessing: true,
			UnresolvedProductIDs:     unresolved,
		})
	}

	return o.report(ctx, ev, Result{
		Success:              true,
		OrderNumber:          ev.Reference,
		SupplierOrderID:      resp.Data.Reference(),
		Status:               resp.Data.OrderStatus,
		UnresolvedProductIDs: unresolved,
	})
}

// resolveItems maps every line item to a supplier variant. Unresolved items
// are collected, not fatal: the order proceeds with whatever resolved.
func (o *Orchestrator) resolveItems(ev PaymentEvent) (resolved []ResolvedItem, unresolved []string) {
	for _, item := range ev.Items {
		variant, ok := o.resolver.Resolve(item.ProductID, item.Size, item.Color)
		if !ok {
			log.Printf("[fulfillment] order %s: no supplier variant for %s (size=%q color=%q)",
				ev.Reference, item.ProductID, item.Size, item.Color)
			unresolved = append(unresolved, item.ProductID)
			continue
		}
		resolved = append(resolved, ResolvedItem{
			ProductID: item.ProductID,
			Variant:   variant,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}
	return resolved, unresolved
}

// report emits metrics and, for manual-processing failures, publishes a
// notice to the review queue. Both are best effort.
func (o *Orchestrator) report(ctx context.Context, ev PaymentEvent, res Result) Result {
	if o.metrics != nil {
		o.metrics.RecordFulfillment(ctx, res.Success)
	}
	if o.queue != nil && res.RequiresManualProcessing {
		notice := FailureNotice{
			OrderNumber:          res.OrderNumber,
			Reason:               res.Reason,
			Message:              res.Message,
			CorrelationID:        ev.CorrelationID,
			CustomerEmail:        ev.CustomerEmail,
			UnresolvedProductIDs: res.UnresolvedProductIDs,
		}
		body, _ := json.Marshal(notice)
		attrs := map[string]string{
			"order_number": res.OrderNumber,
			"reason":       res.Reason,
		}
		if ev.CorrelationID != "" {
			attrs["correlation_id"] = ev.CorrelationID
		}
		if err := o.queue.Publish(ctx, string(body), attrs); err != nil {
			log.Printf("[fulfillment] publishing manual-review notice for %s failed: %v",
				res.OrderNumber, err)
		}
	}
	return res
}

func validate(ev PaymentEvent) string {
	switch {
	case ev.Reference == "":
		return "missing payment reference"
	case len(ev.Items) == 0:
		return "no line items"
	case ev.Shipping.Name == "" || ev.Shipping.Address == "" ||
		ev.Shipping.City == "" || ev.Shipping.Zip == "":
		return "incomplete shipping destination"
	}
	return ""
}
