package dispatch

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskreminder/config"
	"taskreminder/model"
	"taskreminder/services"
)

func TestNotificationController(router *gin.Engine, notifier services.Notifier, cfg *config.Config) {
	router.POST("/api/test-notification", func(c *gin.Context) {
		Testnotification(c, notifier, cfg)
	})
}

// Testnotification sends a throwaway message to the configured recipient
// so a deployment's provider credentials can be verified end to end.
func Testnotification(c *gin.Context, notifier services.Notifier, cfg *config.Config) {
	recipient := cfg.Notifier.Recipient
	if recipient == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Default recipient not configured"})
		return
	}

	testTask := model.Task{
		Title:    "Test Reminder",
		Priority: model.PriorityMedium,
		DueTime:  time.Now().UTC().Add(time.Hour),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.NotifierTimeout())
	defer cancel()

	messageID, err := notifier.Send(ctx, recipient, services.ReminderMessage(testTask), testTask.Priority)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Test notification sent successfully",
		"message_id": messageID,
		"to":         recipient,
	})
}
