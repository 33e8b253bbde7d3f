package utils

import (
	"github.com/gin-gonic/gin"
)

// Failure codes carried in ToolFailure.Code.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal"

	// transport-level failures, never produced by a tool itself
	CodeUnauthorized = "unauthorized"
	CodeRateLimited  = "rate_limited"
)

type ToolFailure struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// RespondOK writes a success result: the payload keys plus "ok": true.
func RespondOK(c *gin.Context, code int, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

func RespondFailure(c *gin.Context, code int, failure string, err error) {
	c.JSON(code, ToolFailure{
		OK:    false,
		Code:  failure,
		Error: err.Error(),
	})
}
