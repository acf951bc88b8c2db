package task

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskreminder/storage"
)

func CompleteTaskController(router *gin.Engine, store storage.Store) {
	router.PATCH("/api/tasks/:id/complete", func(c *gin.Context) {
		Completetask(c, store)
	})
}

func Completetask(c *gin.Context, store storage.Store) {
	taskID := c.Param("id")

	err := store.CompleteTask(c.Request.Context(), taskID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task marked as completed"})
}
