package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate decodes the JSON body into out and validates it. On any
// failure it writes the 400 response itself and returns a non-nil error, so
// the fulfillment handler only has to bail out: a rejected request must never
// reach the orchestrator.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "malformed_fulfillment_request",
			"msg":   err.Error(),
		})
		return err
	}

	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": fieldErrors(err),
		})
		return err
	}
	return nil
}

// fieldErrors flattens validator output into field→message pairs the
// storefront can surface next to the checkout form.
func fieldErrors(err error) map[string]string {
	fields := map[string]string{}
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		fields["error"] = err.Error()
		return fields
	}
	for _, fe := range ve {
		fields[fe.StructNamespace()] = fe.Error()
	}
	return fields
}
