package handler

import (
	"net/http"
	"reflect"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQueryAndValidate is the query-string counterpart of bindAndValidate.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError maps a service error to its HTTP status. Unclassified errors
// surface as 500 through the ErrorHandler middleware, never with their
// internal message.
func writeError(c *gin.Context, err error) {
	status := apierror.Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, apierror.New("Internal server error"))
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

// idParam parses the named path parameter as a UUID, writing the 400
// response itself on failure.
func idParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// actor returns the authenticated username driving the request, used as the
// audit identity on every mutation.
func actor(c *gin.Context) string {
	if v, ok := c.Get(middleware.ClaimsKey); ok {
		if claims, ok := v.(*middleware.JWTClaims); ok && claims.Username != "" {
			return claims.Username
		}
	}
	return "system"
}
