package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/inventory"
)

// maxMoney límite de NUMERIC(10,2): 8 dígitos enteros.
var maxMoney = inventory.MaxAmount

// Validator validación de DTOs de entrada con etiquetas `validate`.
type Validator struct {
	v *validator.Validate
}

// NewValidator registra las reglas propias: money, positive, product_state y notblank.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	// decimal.Decimal y NullDecimal se validan por su representación textual.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			return d.String()
		case decimal.NullDecimal:
			if d.Valid {
				return d.Decimal.String()
			}
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{})

	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("positive", validatePositive)
	_ = v.RegisterValidation("product_state", validateProductState)
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator{v: v}
}

// Struct valida s y traduce el primer fallo a *domain.ValidationError.
func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}
	fe := verrs[0]
	return domain.NewValidationError(fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "positive":
		return field + " must be > 0"
	case "money":
		return field + " must have at most 2 decimals and 8 integer digits"
	case "product_state":
		return field + " must be ACTIVE, INACTIVE or OUT_OF_STOCK"
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

func decimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func validateMoney(fl validator.FieldLevel) bool {
	d, ok := decimalField(fl)
	if !ok {
		return false
	}
	return d.Equal(d.Round(2)) && d.Abs().LessThan(maxMoney)
}

func validatePositive(fl validator.FieldLevel) bool {
	d, ok := decimalField(fl)
	return ok && d.IsPositive()
}

func validateProductState(fl validator.FieldLevel) bool {
	return entity.ProductState(fl.Field().String()).Valid()
}
