package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minuteshub/internal/mailer"
	"minuteshub/internal/service"
)

type EmailHandler struct {
	emails *service.EmailService
}

func NewEmailHandler(emails *service.EmailService) *EmailHandler {
	return &EmailHandler{emails: emails}
}

// Send handles POST /api/email/send.
func (h *EmailHandler) Send(c *gin.Context) {
	var in service.SendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	messageID, err := h.emails.Send(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "messageId": messageID})
}

// Test handles POST /api/email/test: credential verification without sending.
func (h *EmailHandler) Test(c *gin.Context) {
	var creds mailer.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.emails.TestConnection(c.Request.Context(), creds); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
