package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for FulfillmentRequest to catch
	// country codes the supplier would bounce.
	v.RegisterStructValidation(fulfillmentStructValidation, FulfillmentRequest{})

	return v
}

// fulfillmentStructValidation checks that a supplied country code is a
// two-letter ISO code. Absent is fine; the builder applies the store default.
func fulfillmentStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(FulfillmentRequest)

	cc := req.Shipping.CountryCode
	if cc != "" && len(cc) != 2 {
		sl.ReportError(req.Shipping.CountryCode, "shipping.countryCode", "CountryCode", "iso_country_code", "")
	}
}
