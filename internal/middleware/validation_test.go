package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

type variantRequest struct {
	Name  string          `json:"name" validate:"required,max=100"`
	SKU   string          `json:"sku" validate:"required,max=100"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	Kind  string          `json:"kind" validate:"omitempty,oneof=IN OUT"`
}

func decodeBody(body string) error {
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	var v variantRequest
	return DecodeAndValidate(req, &v)
}

func TestProperty_RequiredFieldsAreEnforced(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a body missing a required field is rejected", prop.ForAll(
		func(withName, withSKU bool) bool {
			body := map[string]interface{}{"price": "9.99"}
			if withName {
				body["name"] = "Large"
			}
			if withSKU {
				body["sku"] = "SKU-0000CAFE"
			}
			raw, _ := json.Marshal(body)

			req := httptest.NewRequest("POST", "/", bytes.NewReader(raw))
			var v variantRequest
			err := DecodeAndValidate(req, &v)
			if withName && withSKU {
				return err == nil
			}
			return err != nil && len(FormatValidationErrors(err)) > 0
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_DecimalBoundsAreChecked(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("negative prices fail validation", prop.ForAll(
		func(cents int64) bool {
			price := decimal.New(cents, -2)
			err := ValidateRequest(&variantRequest{Name: "n", SKU: "s", Price: price})
			if cents < 0 {
				return err != nil
			}
			return err == nil
		},
		gen.Int64Range(-100000, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	err := decodeBody(`{"name":"","sku":"x","price":"-1","kind":"SIDEWAYS"}`)
	fields := map[string]string{}
	for _, e := range FormatValidationErrors(err) {
		fields[e.Field] = e.Message
	}

	for _, want := range []string{"name", "price", "kind"} {
		if fields[want] == "" {
			t.Errorf("expected an error for %s, got %v", want, fields)
		}
	}
	if !strings.HasPrefix(fields["kind"], "Value must be one of") {
		t.Errorf("unexpected oneof message %q", fields["kind"])
	}
}

func TestDecodeAndValidate_BadBodies(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "malformed": "{", "wrong type": `{"name": 5}`} {
		errs := FormatValidationErrors(decodeBody(body))
		if len(errs) != 1 || errs[0].Field != "body" {
			t.Errorf("%s: expected a single body error, got %+v", name, errs)
		}
	}
}

type moneyRequest struct {
	Price    *decimal.Decimal `json:"price" validate:"required,gte=0,decimal2"`
	OldPrice *decimal.Decimal `json:"old_price" validate:"omitempty,gte=0,decimal2"`
}

func TestDecimal2_RejectsExtraPlaces(t *testing.T) {
	tests := []struct {
		body  string
		field string
	}{
		{`{"price":"12.35"}`, ""},
		{`{"price":12.3}`, ""},
		{`{"price":"0"}`, ""},
		{`{"price":"12.30","old_price":"9.5"}`, ""},
		{`{"price":12.345}`, "price"},
		{`{"price":"5.555"}`, "price"},
		{`{"price":"1.00","old_price":"0.001"}`, "old_price"},
		{`{}`, "price"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
		var v moneyRequest
		errs := FormatValidationErrors(DecodeAndValidate(req, &v))
		if tt.field == "" {
			if len(errs) != 0 {
				t.Errorf("%s: expected no errors, got %+v", tt.body, errs)
			}
			continue
		}
		if len(errs) != 1 || errs[0].Field != tt.field {
			t.Errorf("%s: expected one error on %s, got %+v", tt.body, tt.field, errs)
		}
	}

	errs := FormatValidationErrors(ValidateRequest(&moneyRequest{Price: ptrDecimal("2.999")}))
	if len(errs) != 1 || errs[0].Message != "Value must have at most 2 decimal places" {
		t.Errorf("unexpected decimal2 message: %+v", errs)
	}
}

func TestProperty_CentAmountsPassDecimal2(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("whole cents are accepted", prop.ForAll(
		func(cents int64) bool {
			price := decimal.New(cents, -2)
			return ValidateRequest(&moneyRequest{Price: &price}) == nil
		},
		gen.Int64Range(0, 99999999),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func ptrDecimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
