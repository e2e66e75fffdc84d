package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"minuteshub/internal/service"
)

type MeetingHandler struct {
	meetings *service.MeetingService
}

func NewMeetingHandler(meetings *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

// List handles GET /api/meetings with optional ?q= search and ?tag= filter.
func (h *MeetingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if q := c.Query("q"); q != "" {
		meetings, err := h.meetings.Search(ctx, q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, meetings)
		return
	}

	if tag := c.Query("tag"); tag != "" {
		meetings, err := h.meetings.ByTag(ctx, tag)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, meetings)
		return
	}

	meetings, err := h.meetings.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meetings)
}

// Get handles GET /api/meetings/:id.
func (h *MeetingHandler) Get(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	m, err := h.meetings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Create handles POST /api/meetings (title + tags + notes only; everything
// else is filled in by the pipeline).
func (h *MeetingHandler) Create(c *gin.Context) {
	var in service.CreateMeetingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	m, err := h.meetings.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Patch handles PATCH /api/meetings/:id with shallow-merge semantics.
func (h *MeetingHandler) Patch(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	var patch service.MeetingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	m, err := h.meetings.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /api/meetings/:id.
func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	removed, err := h.meetings.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// AddActionItem handles POST /api/meetings/:id/actions.
func (h *MeetingHandler) AddActionItem(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	var req struct {
		Text     string `json:"text"`
		Assignee string `json:"assignee"`
		DueDate  string `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.meetings.AddActionItem(c.Request.Context(), id, req.Text, req.Assignee, req.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ToggleActionItem handles POST /api/meetings/:id/actions/:itemID/toggle.
func (h *MeetingHandler) ToggleActionItem(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	item, err := h.meetings.ToggleActionItem(c.Request.Context(), id, c.Param("itemID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func meetingID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id", "fields": gin.H{"id": "must be an integer"}})
		return 0, false
	}
	return id, true
}
