// Package response writes the uniform API envelope:
// {ok, data, errors, message}. Status is derived from the fault kind
// for failures, 200 for successes unless overridden.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub/internal/pkg/fault"
)

type Envelope struct {
	OK      bool     `json:"ok"`
	Data    any      `json:"data"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

func write(c *gin.Context, status int, ok bool, data any, errs []string, message string) {
	if data == nil {
		data = gin.H{}
	}
	if errs == nil {
		errs = []string{}
	}
	c.JSON(status, Envelope{OK: ok, Data: data, Errors: errs, Message: message})
}

func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, true, data, nil, "")
}

func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, true, data, nil, "")
}

func Message(c *gin.Context, message string) {
	write(c, http.StatusOK, true, gin.H{"success": true}, nil, message)
}

// Fail writes a failure with an explicit status.
func Fail(c *gin.Context, status int, errs ...string) {
	write(c, status, false, nil, errs, "")
}

// Error maps err through the fault taxonomy. Unexpected errors become a
// generic 500 so internal detail is never surfaced.
func Error(c *gin.Context, err error) {
	status := fault.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError && fault.KindOf(err) == fault.KindUnknown {
		message = "Operation failed"
	}
	write(c, status, false, nil, []string{message}, "")
}

// AbortError is Error plus request abortion, for middleware use.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
