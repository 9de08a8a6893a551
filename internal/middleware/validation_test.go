package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Mirrors the shape of the cart mutation payloads
type testCartPayload struct {
	SessionID string `json:"sessionId" validate:"omitempty,uuid"`
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=999"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeProductField bool, includeSessionField bool) bool {
			reqMap := make(map[string]interface{})

			if includeProductField {
				reqMap["productId"] = uuid.New().String()
			}
			if includeSessionField {
				reqMap["sessionId"] = uuid.New().String()
			}
			reqMap["quantity"] = 1

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload testCartPayload
			err := DecodeAndValidate(req, &payload)

			// Only the product id is required; the session id is optional
			if includeProductField {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that validation errors are properly formatted
func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func() bool {
			reqMap := map[string]interface{}{
				"sessionId": uuid.New().String(),
				"productId": "not-a-uuid",
				"quantity":  1,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload testCartPayload
			err := DecodeAndValidate(req, &payload)

			if err == nil {
				return false // Should have validation error
			}

			validationErrors := FormatValidationErrors(err)

			if len(validationErrors) == 0 {
				return false
			}

			// Each error should have a field and message
			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}

			return true
		},
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that valid requests pass validation
func TestProperty_ValidRequestsPassValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid requests pass validation", prop.ForAll(
		func(quantity int) bool {
			reqMap := map[string]interface{}{
				"sessionId": uuid.New().String(),
				"productId": uuid.New().String(),
				"quantity":  quantity,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload testCartPayload
			err := DecodeAndValidate(req, &payload)

			return err == nil
		},
		gen.IntRange(0, 999),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test quantity range validation
func TestProperty_QuantityRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantity outside valid range is rejected", prop.ForAll(
		func(quantity int) bool {
			reqMap := map[string]interface{}{
				"productId": uuid.New().String(),
				"quantity":  quantity,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload testCartPayload
			err := DecodeAndValidate(req, &payload)

			if quantity >= 0 && quantity <= 999 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-100, 2000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
