package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dripstore/fulfillment/internal/fulfillment"
	"github.com/dripstore/fulfillment/internal/supplier"
	"github.com/dripstore/fulfillment/internal/validation"
)

// HandlerConfig groups dependencies for the fulfillment routes.
type HandlerConfig struct {
	Orchestrator *fulfillment.Orchestrator
	Supplier     *supplier.Client
}

// RegisterFulfillmentRoutes registers the fulfillment entry point and the
// read-only supplier lookups used by the catalog sync tooling.
func RegisterFulfillmentRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	// POST /fulfillment is invoked by the payment webhook handler once the
	// payment-completed event is verified. A fulfillment failure never blocks
	// acknowledging the payment: the caller gets a structured failure body
	// and the attempt is queued for manual review upstream of this response.
	r.POST("/fulfillment", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.FulfillmentRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		correlationID := c.GetHeader("X-Request-Id")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		res := cfg.Orchestrator.Fulfill(ctx, toPaymentEvent(req, correlationID))
		if !res.Success {
			c.JSON(statusFor(res.Reason), gin.H{
				"error":          res.Reason,
				"message":        res.Message,
				"order_number":   res.OrderNumber,
				"queued":         res.RequiresManualProcessing,
				"unresolved_ids": res.UnresolvedProductIDs,
				"correlation_id": correlationID,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"fulfillment": gin.H{
				"provider":          "cj_dropshipping",
				"order_number":      res.OrderNumber,
				"supplier_order_id": res.SupplierOrderID,
				"status":            res.Status,
			},
			"unresolved_ids": res.UnresolvedProductIDs,
			"correlation_id": correlationID,
		})
	})

	// GET /fulfillment/:orderId proxies the supplier's order detail for the
	// post-purchase status page.
	r.GET("/fulfillment/:orderId", func(c *gin.Context) {
		resp, err := cfg.Supplier.OrderDetail(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "supplier_lookup_failed", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp.Data})
	})

	// Read-only supplier lookups for the catalog sync tooling.
	r.GET("/supplier/products", func(c *gin.Context) {
		pageNum, _ := strconv.Atoi(c.Query("page"))
		pageSize, _ := strconv.Atoi(c.Query("pageSize"))
		resp, err := cfg.Supplier.SearchProducts(c.Request.Context(), c.Query("name"), pageNum, pageSize)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "supplier_lookup_failed", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp.Data})
	})

	r.GET("/supplier/product", func(c *gin.Context) {
		pid := c.Query("pid")
		if pid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_pid"})
			return
		}
		resp, err := cfg.Supplier.QueryProduct(c.Request.Context(), pid)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "supplier_lookup_failed", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp.Data})
	})

	// GET /supplier/tracking surfaces the carrier's tracking info for the
	// post-purchase status page, keyed by the supplier order number.
	r.GET("/supplier/tracking", func(c *gin.Context) {
		orderNum := c.Query("orderNum")
		if orderNum == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_order_num"})
			return
		}
		resp, err := cfg.Supplier.Tracking(c.Request.Context(), orderNum)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "supplier_lookup_failed", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp.Data})
	})

	// GET /supplier/freight quotes shipping for a single variant; the sync
	// tooling uses it when pricing new catalog candidates.
	r.GET("/supplier/freight", func(c *gin.Context) {
		vid := c.Query("vid")
		if vid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_vid"})
			return
		}
		quantity, _ := strconv.Atoi(c.Query("quantity"))
		if quantity < 1 {
			quantity = 1
		}
		start := c.DefaultQuery("start", "CN")
		end := c.Query("end")
		if end == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_end_country"})
			return
		}
		resp, err := cfg.Supplier.FreightCalculate(c.Request.Context(), start, end,
			[]supplier.OrderItem{{VID: vid, Quantity: quantity}})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "supplier_lookup_failed", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp.Data})
	})

	r.GET("/supplier/variant", func(c *gin.Context) {
		sku := c.Query("sku")
		if sku == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_sku"})
			return
		}
		resp, err := cfg.Supplier.QueryVariant(c.Request.Context(), sku)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "supplier_lookup_failed", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp.Data})
	})
}

func toPaymentEvent(req validation.FulfillmentRequest, correlationID string) fulfillment.PaymentEvent {
	items := make([]fulfillment.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, fulfillment.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
		})
	}
	return fulfillment.PaymentEvent{
		Reference:     req.OrderID,
		CustomerEmail: req.Shipping.Email,
		Items:         items,
		Shipping: fulfillment.Shipping{
			Name:        req.Shipping.Name,
			Email:       req.Shipping.Email,
			Phone:       req.Shipping.Phone,
			Address:     req.Shipping.Address,
			Address2:    req.Shipping.Address2,
			Province:    req.Shipping.Province,
			City:        req.Shipping.City,
			Zip:         req.Shipping.Zip,
			Country:     req.Shipping.Country,
			CountryCode: req.Shipping.CountryCode,
		},
		CorrelationID: correlationID,
	}
}

func statusFor(reason string) int {
	switch reason {
	case fulfillment.ReasonValidation, fulfillment.ReasonNoValidProducts:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
