package connection

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskreminder/config"
	dispatchcontroller "taskreminder/controller/dispatch"
	taskcontroller "taskreminder/controller/task"
	"taskreminder/services"
	"taskreminder/storage/postgres"
)

func StartServer(cfg *config.Config) {
	router := gin.Default()

	ctx := context.Background()
	pool, err := DBConnection(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize Postgres client: %v", err)
	}
	store := postgres.NewStore(pool)
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	notifier, err := services.NewNotifier(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.FrontendURL, "http://localhost:3000", "http://localhost:3001"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":               "ok",
			"message":              "Task Reminder API is running",
			"notifier_provider":    cfg.Notifier.Provider,
			"recipient_configured": cfg.Notifier.Recipient != "",
		})
	})

	taskcontroller.CreateTaskController(router, store, cfg)
	taskcontroller.GetTasksController(router, store)
	taskcontroller.CompleteTaskController(router, store)
	taskcontroller.UpdateDueTimeController(router, store, cfg)
	taskcontroller.DeleteTaskController(router, store)
	dispatchcontroller.DispatchController(router, store, notifier, cfg)
	dispatchcontroller.TestNotificationController(router, notifier, cfg)

	router.Run(":" + cfg.Server.Port)
}
