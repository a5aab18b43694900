package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondAPIError renders err through the apierr taxonomy. Server-side causes
// are attached to the gin context for the request logger and never sent to
// the client.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.Internal("Internal server error", nil)
	}
	status := ae.HTTPStatusCode()
	if status >= http.StatusInternalServerError {
		if cause := apierr.Cause(err); cause != nil {
			_ = c.Error(cause)
		}
	}
	RespondError(c, status, ae.Code, ae)
}

func AbortAPIError(c *gin.Context, err error) {
	RespondAPIError(c, err)
	c.Abort()
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
