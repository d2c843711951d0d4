package handlers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"panelestimator/services"
)

var errNotANumber = errors.New("must be a number")

// positive rejects zero and negatives. Built-in threshold rules skip zero
// values, so this is written as an inline rule.
var positive = validation.By(func(value any) error {
	if f, _ := value.(float64); f <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
})

// numericRules holds the edit constraints for each numeric row field.
var numericRules = map[services.NumericField][]validation.Rule{
	services.FieldQty:             {positive},
	services.FieldFactor:          {positive},
	services.FieldDiscountPercent: {validation.Min(0.0), validation.Max(100.0)},
	services.FieldManHour:         {validation.Min(0.0)},
}

// parseNumber parses a form value, tolerating thousands separators.
// Non-finite values are rejected.
func parseNumber(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotANumber
	}
	return v, nil
}

// numericForm collects the numeric row fields present in a form. Missing
// fields are left out of the result; malformed or out-of-range fields are
// reported in the returned validation.Errors.
func numericForm(formValue func(string) string, has func(string) bool) (map[services.NumericField]float64, error) {
	values := make(map[services.NumericField]float64)
	errs := validation.Errors{}
	for _, f := range services.NumericFields {
		name := string(f)
		if !has(name) {
			continue
		}
		v, err := parseNumber(formValue(name))
		if err != nil {
			errs[name] = err
			continue
		}
		if err := validation.Validate(v, numericRules[f]...); err != nil {
			errs[name] = err
			continue
		}
		values[f] = v
	}
	return values, errs.Filter()
}

// costForm collects additional costs from a form. Known categories are read
// from fields of the same name; any other category comes from a "cost_<key>"
// field. Blank fields are skipped. Every amount must be a non-negative number.
func costForm(form map[string][]string) (map[string]float64, error) {
	costs := make(map[string]float64)
	errs := validation.Errors{}

	read := func(field, key string) {
		vals, ok := form[field]
		if !ok || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return
		}
		v, err := parseNumber(vals[0])
		if err == nil {
			err = validation.Validate(v, validation.Min(0.0))
		}
		if err != nil {
			errs[field] = err
			return
		}
		costs[key] = v
	}

	known := make(map[string]bool, len(services.AdditionalCostCategories))
	for _, c := range services.AdditionalCostCategories {
		known[c] = true
		read(c, c)
	}
	for field := range form {
		key, ok := strings.CutPrefix(field, "cost_")
		if !ok || key == "" {
			continue
		}
		if known[key] {
			errs[field] = validation.NewError("validation_cost_duplicate", "use the "+key+" field instead")
			continue
		}
		if err := validation.Validate(key, validation.Length(1, 64)); err != nil {
			errs[field] = err
			continue
		}
		read(field, key)
	}

	return costs, errs.Filter()
}
