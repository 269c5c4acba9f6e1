package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusFor maps a fault kind to its one HTTP status.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch fault.KindOf(err) {
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindInvalid:
		return http.StatusBadRequest
	case fault.KindBusy, fault.KindConflict:
		return http.StatusConflict
	case fault.KindExtractionFailed:
		return http.StatusUnprocessableEntity
	case fault.KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	kind := fault.KindOf(err)
	if kind == "" {
		kind = "INTERNAL"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = "TIMEOUT"
	}
	c.AbortWithStatusJSON(statusFor(err), errorBody{Error: errorDetail{
		Kind:    string(kind),
		Message: err.Error(),
	}})
}
