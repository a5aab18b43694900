package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
)

// bindJSON decodes the request body, mapping oversize bodies to 413 and
// anything else to 400.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apierr.PayloadTooLarge("Request body too large")
		}
		return apierr.BadRequest("Invalid request body")
	}
	return nil
}
