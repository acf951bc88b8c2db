package task

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskreminder/config"
	"taskreminder/dto"
	"taskreminder/services"
	"taskreminder/storage"
)

func UpdateDueTimeController(router *gin.Engine, store storage.Store, cfg *config.Config) {
	router.PATCH("/api/tasks/:id/due-time", func(c *gin.Context) {
		Updateduetime(c, store, cfg)
	})
}

// Updateduetime edits a task's due time. Reminders that were never
// dispatched are invalidated and regenerated from the new due time;
// already-sent reminders keep their dispatch records.
func Updateduetime(c *gin.Context, store storage.Store, cfg *config.Config) {
	taskID := c.Param("id")

	var req dto.UpdateDueTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	dueTime, err := time.Parse(time.RFC3339, req.DueTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_time format"})
		return
	}
	if !dueTime.After(time.Now().UTC()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_time must be in the future"})
		return
	}

	existing, err := store.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	hoursBefore := 0
	if existing.HoursBefore != nil {
		hoursBefore = *existing.HoursBefore
	}
	reminderTimes, err := services.DeriveReminderTimes(dueTime, existing.SingleReminder, hoursBefore, cfg.DefaultOffsets())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminders, err := store.UpdateDueTime(c.Request.Context(), taskID, dueTime, reminderTimes)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update due time"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Due time updated and reminders regenerated",
		"reminders": reminders,
	})
}
