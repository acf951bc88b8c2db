package task

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskreminder/config"
	"taskreminder/dto"
	"taskreminder/model"
	"taskreminder/services"
	"taskreminder/storage"
)

func CreateTaskController(router *gin.Engine, store storage.Store, cfg *config.Config) {
	router.POST("/api/tasks", func(c *gin.Context) {
		Createtask(c, store, cfg)
	})
}

func Createtask(c *gin.Context, store storage.Store, cfg *config.Config) {
	var taskReq dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	dueTime, err := time.Parse(time.RFC3339, taskReq.DueTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_time format"})
		return
	}
	if !dueTime.After(time.Now().UTC()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_time must be in the future"})
		return
	}
	if !model.ValidPriority(taskReq.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be Low, Medium or High"})
		return
	}

	hoursBefore := 0
	if taskReq.HoursBefore != nil {
		hoursBefore = *taskReq.HoursBefore
	}
	reminderTimes, err := services.DeriveReminderTimes(dueTime, taskReq.SingleReminder, hoursBefore, cfg.DefaultOffsets())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	newtask := model.Task{
		TaskID:         uuid.New().String(),
		Title:          taskReq.Title,
		DueTime:        dueTime,
		Priority:       taskReq.Priority,
		SingleReminder: taskReq.SingleReminder,
		HoursBefore:    taskReq.HoursBefore,
		PhoneNumber:    taskReq.PhoneNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, reminders, err := store.CreateTaskWithReminders(c.Request.Context(), newtask, reminderTimes)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Task created successfully",
		"task":      created,
		"reminders": reminders,
	})
}
