package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	payoutdomain "github.com/smallbiznis/estate/internal/payout/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorPayload struct {
	Type    string            `json:"type"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrNotFound       = apperr.New(apperr.KindNotFound, "route_not_found", "not found")
	ErrInvalidRequest = apperr.New(apperr.KindValidation, "invalid_request", "invalid request")
	ErrInvalidActor   = apperr.New(apperr.KindValidation, "invalid_actor", "X-Actor-ID must be a numeric id")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidParam(field string) error {
	return apperr.New(apperr.KindValidation, "invalid_"+field, "invalid "+field)
}

func mapError(err error) (int, errorPayload) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    string(apperr.KindValidation),
			Code:    ErrInvalidRequest.Code,
			Message: "validation error",
			Errors:  fieldErrors(fieldErrs),
		}
	}

	kind := apperr.KindOf(err)
	payload := errorPayload{
		Type:    string(kind),
		Code:    apperr.CodeOf(err),
		Message: apperr.MessageOf(err),
	}
	return statusFor(err, kind), payload
}

func statusFor(err error, kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindNotEligible, apperr.KindAmountMismatch:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyPaid:
		// bill_already_paid stays 400
		if errors.Is(err, payoutdomain.ErrAlreadyRecorded) || errors.Is(err, paymentdomain.ErrPaymentInProgress) {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fieldErrors(errs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		out = append(out, ValidationError{
			Field:   field,
			Code:    fe.Tag(),
			Message: field + " failed " + fe.Tag(),
		})
	}
	return out
}

// fieldName reports validation failures under the request's json or form key.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

var fieldNamesOnce sync.Once

func registerFieldNames() {
	fieldNamesOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldName)
		}
	})
}

// classifyErrorForLog feeds the request logger.
func classifyErrorForLog(err error) (string, string) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return string(apperr.KindValidation), ErrInvalidRequest.Code
	}
	return string(apperr.KindOf(err)), apperr.CodeOf(err)
}

// bindError keeps field-level validator failures and folds malformed bodies
// into invalid_request.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return ErrInvalidRequest
}
