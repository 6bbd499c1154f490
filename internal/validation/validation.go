// Package validation enforces the product request contract before any store
// access. Rules are expressed as go-playground/validator tags; failures are
// reported as apperrors.InvalidArgumentError with stable messages.
package validation

import (
	"errors"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"mercearia/internal/apperrors"
	"mercearia/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	fieldName  = "nome"
	fieldPrice = "preco_venda"
	fieldStock = "qtd_estoque"
)

// messages maps a field and the failed tag to the reported message.
var messages = map[string]map[string]string{
	fieldName: {
		"required": "name must not be empty",
		"min":      "name must not be empty",
		"max":      "name must be at most 100 characters",
	},
	fieldPrice: {
		"required":           "price is required",
		"positive_decimal":   "price must be positive",
		"max_decimal_places": "price must have at most 2 decimal places",
		"decimal_lt":         "price must be less than 100000000",
	},
	fieldStock: {
		"required": "stock quantity is required",
		"gte":      "stock quantity must be non-negative",
		"lte":      "stock quantity must be at most 2147483647",
	},
}

var nullMessages = map[string]string{
	fieldName:  "name must not be null",
	fieldPrice: "price must not be null",
	fieldStock: "stock quantity must not be null",
}

type productCreate struct {
	Name          string           `json:"nome" validate:"required,max=100"`
	SalePrice     *decimal.Decimal `json:"preco_venda" validate:"required,positive_decimal,max_decimal_places=2,decimal_lt=100000000"`
	StockQuantity *int             `json:"qtd_estoque" validate:"required,gte=0,lte=2147483647"`
}

type productUpdate struct {
	Name          *string          `json:"nome" validate:"omitnil,min=1,max=100"`
	SalePrice     *decimal.Decimal `json:"preco_venda" validate:"omitnil,positive_decimal,max_decimal_places=2,decimal_lt=100000000"`
	StockQuantity *int             `json:"qtd_estoque" validate:"omitnil,gte=0,lte=2147483647"`
}

// Validator checks product requests.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the decimal rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Decimals are validated on their canonical string form, never on a float.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return canonicalDecimal(d)
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "positive_decimal", positiveDecimal)
	mustRegister(v, "max_decimal_places", maxDecimalPlaces)
	mustRegister(v, "decimal_lt", decimalLessThan)

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ValidateCreate normalizes req in place and checks it.
func (v *Validator) ValidateCreate(req *models.CreateProductRequest) error {
	req.Normalize()
	return v.check(productCreate{
		Name:          req.Name,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
	}, nil)
}

// ValidateUpdate normalizes req in place and checks the present fields.
func (v *Validator) ValidateUpdate(req *models.UpdateProductRequest) error {
	req.Normalize()

	var nulls []apperrors.Violation
	for field, set := range map[string]bool{
		fieldName:  req.Name.Null,
		fieldPrice: req.SalePrice.Null,
		fieldStock: req.StockQuantity.Null,
	} {
		if set {
			nulls = append(nulls, apperrors.Violation{Field: field, Message: nullMessages[field]})
		}
	}

	return v.check(productUpdate{
		Name:          req.Name.Ptr(),
		SalePrice:     req.SalePrice.Ptr(),
		StockQuantity: req.StockQuantity.Ptr(),
	}, nulls)
}

func (v *Validator) check(s interface{}, violations []apperrors.Violation) error {
	if err := v.validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			violations = append(violations, apperrors.Violation{
				Field:   fe.Field(),
				Message: message(fe),
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	sortViolations(violations)
	return &apperrors.InvalidArgumentError{Violations: violations}
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()][fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

// sortViolations orders violations by field declaration order.
func sortViolations(vs []apperrors.Violation) {
	rank := map[string]int{fieldName: 0, fieldPrice: 1, fieldStock: 2}
	sort.SliceStable(vs, func(i, j int) bool {
		return rank[vs[i].Field] < rank[vs[j].Field]
	})
}

// maxExponent bounds the exponents canonicalDecimal renders exactly.
// Rendering cost grows with the exponent, and any value outside the bound
// fails the price rules anyway.
const maxExponent = 64

// canonicalDecimal returns d.String() when the exponent is small. Otherwise
// trailing zeros are stripped from the coefficient and, if the exponent is
// still out of range, a stand-in with the same sign is returned: one that is
// too large for a huge value, or one with too many decimal places for a
// value with a long fraction.
func canonicalDecimal(d decimal.Decimal) string {
	exp := d.Exponent()
	if exp >= -maxExponent && exp <= maxExponent {
		return d.String()
	}

	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return "0"
	}
	sign := ""
	if coef.Sign() < 0 {
		sign = "-"
	}
	digits := new(big.Int).Abs(coef).String()
	trimmed := strings.TrimRight(digits, "0")
	stripped := int64(exp) + int64(len(digits)-len(trimmed))

	switch {
	case stripped >= -maxExponent && stripped <= maxExponent:
		n, _ := new(big.Int).SetString(sign+trimmed, 10)
		return decimal.NewFromBigInt(n, int32(stripped)).String()
	case stripped > maxExponent:
		return sign + "100000000"
	case int64(len(trimmed))+stripped > 8:
		return sign + "100000000.001"
	default:
		return sign + "0.001"
	}
}

func positiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func maxDecimalPlaces(fl validator.FieldLevel) bool {
	places, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	s := fl.Field().String()
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return true
	}
	return len(s)-dot-1 <= places
}

func decimalLessThan(fl validator.FieldLevel) bool {
	limit, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.LessThan(limit)
}
