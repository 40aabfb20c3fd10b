package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"healthsync/authentication"
	"healthsync/configuration"
	"healthsync/models"

	"github.com/gin-gonic/gin"
)

// ChatHistory returns the requesting user's chat exchanges.
func ChatHistory(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var chats []models.ChatMessage
	if err := configuration.DB.Where("user_id = ?", account.User.UserID).Order("created_at").Find(&chats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat history"})
		return
	}
	c.JSON(http.StatusOK, chats)
}

// SendChatMessage stores a message with its canned response. A keyword match
// picks a specialist referral; anything else gets a generic referral echoing
// the input.
func SendChatMessage(c *gin.Context) {
	account := authentication.CurrentAccount(c)

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	response := fmt.Sprintf("I understand you're asking about '%s'. As a virtual assistant, I recommend booking an appointment with one of our specialists for a detailed diagnosis.", req.Message)
	if strings.Contains(strings.ToLower(req.Message), "headache") {
		response = "For headaches, it's best to consult a General Physician or a Neurologist. Ensure you're staying hydrated."
	}

	chat := models.ChatMessage{
		UserID:   account.User.UserID,
		Message:  req.Message,
		Response: response,
	}
	if err := configuration.DB.Create(&chat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save chat"})
		return
	}

	c.JSON(http.StatusCreated, chat)
}
