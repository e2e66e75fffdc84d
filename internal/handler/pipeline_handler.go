package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"minuteshub/internal/service"
)

// 50 MB cap on uploaded audio.
const maxAudioBytes = 50 << 20

type PipelineHandler struct {
	pipeline *service.PipelineService
}

func NewPipelineHandler(pipeline *service.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipeline: pipeline}
}

// RunText handles POST /api/pipeline/text: full pipeline over typed text.
func (h *PipelineHandler) RunText(c *gin.Context) {
	var in service.TextInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	m, err := h.pipeline.RunText(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// RunAudio handles POST /api/pipeline/audio: multipart upload, full pipeline.
func (h *PipelineHandler) RunAudio(c *gin.Context) {
	audio, filename, ok := readAudio(c)
	if !ok {
		return
	}

	in := service.AudioInput{
		Title:    c.PostForm("title"),
		Audio:    audio,
		Filename: filename,
	}
	if tags := c.PostForm("tags"); tags != "" {
		in.Tags = splitTags(tags)
	}
	if idStr := c.PostForm("meetingId"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meetingId", "fields": gin.H{"meetingId": "must be an integer"}})
			return
		}
		in.MeetingID = id
	}

	m, err := h.pipeline.RunAudio(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// AttachAudio handles POST /api/meetings/:id/audio: transcribe and attach
// transcript + duration to an existing meeting.
func (h *PipelineHandler) AttachAudio(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	audio, filename, ok := readAudio(c)
	if !ok {
		return
	}

	m, err := h.pipeline.AttachAudio(c.Request.Context(), id, audio, filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// RegenerateSummary handles POST /api/meetings/:id/summary/regenerate.
func (h *PipelineHandler) RegenerateSummary(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	m, err := h.pipeline.RegenerateSummary(c.Request.Context(), id, c.Query("style"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// RegenerateActionItems handles POST /api/meetings/:id/actions/regenerate.
func (h *PipelineHandler) RegenerateActionItems(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	m, err := h.pipeline.RegenerateActionItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func readAudio(c *gin.Context) (audio []byte, filename string, ok bool) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing audio file", "fields": gin.H{"audio": "multipart field 'audio' is required"}})
		return nil, "", false
	}
	defer file.Close()

	audio, err = io.ReadAll(io.LimitReader(file, maxAudioBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read audio file"})
		return nil, "", false
	}
	if len(audio) > maxAudioBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file too large", "fields": gin.H{"audio": "max 50MB"}})
		return nil, "", false
	}

	return audio, header.Filename, true
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
