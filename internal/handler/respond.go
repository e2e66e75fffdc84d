package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"minuteshub/internal/fault"
)

// respondError maps the fault taxonomy onto HTTP statuses: not-found -> 404,
// validation -> 400 with field detail, everything else -> 500 with a message.
func respondError(c *gin.Context, err error) {
	var f *fault.Fault
	if !errors.As(err, &f) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch f.Kind {
	case fault.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": f.Msg})
	case fault.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": f.Msg, "fields": f.Fields})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": f.Error(), "kind": string(f.Kind)})
	}
}
