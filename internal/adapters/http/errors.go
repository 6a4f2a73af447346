package http

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/dto"
	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/logging"
)

// HeaderRetryAfter carries the seconds until a rate-limited caller may retry.
const HeaderRetryAfter = "Retry-After"

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *dto.ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, dto.NewErrorResponse(
			dto.ErrorCodeUnauthorized,
			"unauthorized",
		)

	case domain.IsRateLimited(err):
		return http.StatusTooManyRequests, dto.NewErrorResponse(
			dto.ErrorCodeRateLimited,
			err.Error(),
		)

	case domain.IsForbidden(err):
		return http.StatusForbidden, dto.NewErrorResponse(
			dto.ErrorCodeForbidden,
			err.Error(),
		)

	case domain.IsValidation(err):
		resp := dto.NewErrorResponse(dto.ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsNotFound(err):
		return http.StatusNotFound, dto.NewErrorResponse(
			dto.ErrorCodeNotFound,
			err.Error(),
		)

	case domain.IsUnavailable(err):
		// Store addresses and driver messages stay in the logs.
		return http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.ErrorCodeUnavailable,
			"a required dependency is unavailable",
		)

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.NewErrorResponse(
			dto.ErrorCodeTimeout,
			"request timeout exceeded",
		)

	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(
			dto.ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// RespondWithError writes the error response for err and aborts the chain.
func RespondWithError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status, errResp := MapDomainError(err)
	errResp.TraceID = dto.TraceID(ctx)

	var rateErr *domain.RateLimitError
	if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
		c.Header(HeaderRetryAfter, strconv.Itoa(int(math.Ceil(rateErr.RetryAfter.Seconds()))))
	}

	logger := logging.FromContext(ctx)

	switch {
	case status >= http.StatusInternalServerError:
		logger.ErrorContext(ctx, "request failed",
			slog.Int("status", status),
			slog.Any("error", err),
		)
	case status != http.StatusNotFound:
		logger.DebugContext(ctx, "request rejected",
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(status, errResp)
}

// ErrorHandler renders the last error attached with c.Error once the chain returns.
// Nothing is written if a handler already produced a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		RespondWithError(c, c.Errors.Last().Err)
	}
}
