package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskreminder/storage"
)

// completedTasksLimit caps the completed-task history returned to the
// frontend.
const completedTasksLimit = 10

func GetTasksController(router *gin.Engine, store storage.Store) {
	router.GET("/api/tasks", func(c *gin.Context) {
		Gettasks(c, store)
	})
}

func Gettasks(c *gin.Context, store storage.Store) {
	incomplete, completed, err := store.ListTasks(c.Request.Context(), completedTasksLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"incomplete_tasks": incomplete,
		"completed_tasks":  completed,
	})
}
