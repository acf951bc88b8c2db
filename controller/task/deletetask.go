package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskreminder/storage"
)

func DeleteTaskController(router *gin.Engine, store storage.Store) {
	router.DELETE("/api/tasks/:id", func(c *gin.Context) {
		Deletetask(c, store)
	})
}

func Deletetask(c *gin.Context, store storage.Store) {
	taskID := c.Param("id")

	err := store.DeleteTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task and associated reminders deleted successfully"})
}
