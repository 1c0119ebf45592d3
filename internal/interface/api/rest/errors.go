package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "user-directory-api/internal/domain/user"
	"user-directory-api/internal/interface/api/rest/dto/user"
	"user-directory-api/pkg/userschema"
)

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeEmailAlreadyExists  = "EMAIL_ALREADY_EXISTS"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

var ErrInvalidBody = errors.New("invalid request body")

// ErrorReporter renders the last error a handler attached with c.Error.
// It is the only place where errors become HTTP statuses.
func ErrorReporter(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := errorResponse(err)
		if status == http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.Error(err),
			)
		}

		c.JSON(status, body)
	}
}

func errorResponse(err error) (int, user.ErrorResponse) {
	var ve userschema.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest, user.ErrorResponse{
			Status:  user.StatusFail,
			Message: "Validation error",
			Code:    CodeValidation,
			Errors:  ve,
		}
	}

	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return http.StatusConflict, user.ErrorResponse{
			Status:  user.StatusError,
			Message: domain.ErrEmailAlreadyExists.Error(),
			Code:    CodeEmailAlreadyExists,
		}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoUsers):
		return http.StatusNotFound, errorBody(err)
	case errors.Is(err, domain.ErrInvalidIdentifier),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest, errorBody(err)
	case errors.Is(err, domain.ErrProfileTooLarge):
		return http.StatusRequestEntityTooLarge, errorBody(err)
	case errors.Is(err, domain.ErrProfileNotImage):
		return http.StatusUnsupportedMediaType, errorBody(err)
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, errorBody(domain.ErrUnavailable)
	default:
		return http.StatusInternalServerError, user.ErrorResponse{
			Status:  user.StatusError,
			Message: "internal server error",
			Code:    CodeInternalServerError,
		}
	}
}

func errorBody(err error) user.ErrorResponse {
	return user.ErrorResponse{Status: user.StatusError, Message: err.Error()}
}
