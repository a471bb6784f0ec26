package fulfillment

import (
	"strings"

	"github.com/dripstore/fulfillment/internal/supplier"
)

// BuilderConfig holds the fixed defaults applied to every order payload.
type BuilderConfig struct {
	DefaultCountryCode string // applied when the checkout gave no country code
	DefaultCountry     string
	FromCountryCode    string // supplier warehouse region, never derived from input
	LogisticName       string // default carrier service tier
	StoreRemark        string // store identifier on every supplier order
	NamePlaceholder    string // surname substitute; the supplier schema requires both names
}

// DefaultBuilderConfig returns the store's production defaults.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		DefaultCountryCode: "FR",
		DefaultCountry:     "France",
		FromCountryCode:    "CN",
		LogisticName:       "CJPacket Ordinary",
		StoreRemark:        "DRIP. Order",
		NamePlaceholder:    "Customer",
	}
}

// Builder transforms a generic order into the supplier's schema.
type Builder struct {
	cfg BuilderConfig
}

func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build assembles the supplier payload from already-resolved line items.
// Callers drop unresolved items before this point.
func (b *Builder) Build(orderNumber string, shipping Shipping, items []ResolvedItem) supplier.CreateOrderRequest {
	countryCode := shipping.CountryCode
	if countryCode == "" {
		countryCode = b.cfg.DefaultCountryCode
	}
	country := shipping.Country
	if country == "" {
		country = b.cfg.DefaultCountry
	}

	first, last := splitName(shipping.Name, b.cfg.NamePlaceholder)

	products := make([]supplier.OrderItem, 0, len(items))
	for _, it := range items {
		products = append(products, supplier.OrderItem{
			VID:      it.Variant.VID,
			Quantity: it.Quantity,
		})
	}

	return supplier.CreateOrderRequest{
		OrderNumber:          orderNumber,
		ShippingCountryCode:  countryCode,
		ShippingCountry:      country,
		ShippingProvince:     shipping.Province,
		ShippingCity:         shipping.City,
		ShippingAddress:      shipping.Address,
		ShippingAddress2:     shipping.Address2,
		ShippingCustomerName: first + " " + last,
		ShippingZip:          shipping.Zip,
		ShippingPhone:        shipping.Phone,
		CountryCode:          countryCode,
		FromCountryCode:      b.cfg.FromCountryCode,
		LogisticName:         b.cfg.LogisticName,
		Products:             products,
		Remark:               b.remark(items),
	}
}

// remark carries the store identifier; single-item orders also get the
// selected size/color so support can trace variant complaints.
func (b *Builder) remark(items []ResolvedItem) string {
	remark := b.cfg.StoreRemark
	if len(items) != 1 {
		return remark
	}
	it := items[0]
	switch {
	case it.Size != "" && it.Color != "":
		remark += " - " + it.Size + "/" + it.Color
	case it.Size != "":
		remark += " - " + it.Size
	case it.Color != "":
		remark += " - " + it.Color
	}
	return remark
}

// splitName breaks a full name at the first whitespace boundary. A missing
// half is replaced by the placeholder; the supplier rejects empty name fields.
func splitName(full, placeholder string) (first, last string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return placeholder, placeholder
	case 1:
		return fields[0], placeholder
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
