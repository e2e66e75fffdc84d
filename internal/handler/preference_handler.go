package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"minuteshub/internal/service"
)

type PreferenceHandler struct {
	prefs *service.PreferenceService
}

func NewPreferenceHandler(prefs *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

func (h *PreferenceHandler) All(c *gin.Context) {
	prefs, err := h.prefs.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Set handles PUT /api/preferences/:key with the raw JSON value as body.
func (h *PreferenceHandler) Set(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be valid JSON"})
		return
	}

	key := c.Param("key")
	if err := h.prefs.Set(c.Request.Context(), key, json.RawMessage(body)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "status": "saved"})
}

func (h *PreferenceHandler) Delete(c *gin.Context) {
	removed, err := h.prefs.Delete(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "preference not set"})
		return
	}
	c.Status(http.StatusNoContent)
}
