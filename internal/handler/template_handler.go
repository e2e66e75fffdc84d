package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"minuteshub/internal/service"
)

type TemplateHandler struct {
	templates *service.TemplateService
}

func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) Get(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}

	t, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var in service.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.templates.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}

	var in service.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.templates.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}

	removed, err := h.templates.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Render handles POST /api/templates/:id/render, merging the template with
// the meeting named in the body.
func (h *TemplateHandler) Render(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}

	var req struct {
		MeetingID int `json:"meetingId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	subject, body, err := h.templates.Render(c.Request.Context(), id, req.MeetingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subject": subject, "body": body})
}

func templateID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id", "fields": gin.H{"id": "must be an integer"}})
		return 0, false
	}
	return id, true
}
