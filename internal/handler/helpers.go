package handler

import (
	"errors"
	"net/http"
	"reflect"

	"lojalink/internal/apierror"
	"lojalink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps the service sentinel errors onto the HTTP
// taxonomy. Anything unmapped is a 500 with a generic message so internal
// details never leak.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	detail := "Erro interno"

	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrPaymentMethodNotFound):
		status, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidImportRow):
		status, detail = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrTransitionDenied):
		status, detail = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSKUTaken),
		errors.Is(err, service.ErrCategoryTaken):
		status, detail = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		status, detail = http.StatusUnauthorized, err.Error()
	}

	c.JSON(status, apierror.New(detail))
}
