package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type addToCartRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cart payloads need a positive product id and quantity >= 1", prop.ForAll(
		func(productID int, quantity int) bool {
			body, _ := json.Marshal(map[string]int{
				"productId": productID,
				"quantity":  quantity,
			})
			req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			var decoded addToCartRequest
			err := DecodeAndValidate(req, &decoded)

			valid := productID > 0 && quantity >= 1
			return (err == nil) == valid
		},
		gen.IntRange(-5, 5),
		gen.IntRange(-5, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader([]byte("{not json")))

	var decoded addToCartRequest
	if err := DecodeAndValidate(req, &decoded); err == nil {
		t.Error("malformed JSON body was accepted")
	}
}

func TestFormatValidationErrorsNamesFields(t *testing.T) {
	body, _ := json.Marshal(map[string]int{"productId": 0, "quantity": 0})
	req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(body))

	var decoded addToCartRequest
	err := DecodeAndValidate(req, &decoded)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	formatted := FormatValidationErrors(err)
	if len(formatted) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(formatted))
	}
	for _, fieldErr := range formatted {
		if fieldErr.Field == "" || fieldErr.Message == "" {
			t.Errorf("field error missing content: %+v", fieldErr)
		}
	}
}
