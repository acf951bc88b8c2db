package dispatch

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskreminder/config"
	"taskreminder/middleware"
	"taskreminder/services"
	"taskreminder/storage"
)

func DispatchController(router *gin.Engine, store storage.Store, notifier services.Notifier, cfg *config.Config) {
	router.POST("/api/dispatch", middleware.CronKeyMiddleware(cfg.Server.CronSecret), func(c *gin.Context) {
		Rundispatch(c, store, notifier, cfg)
	})
}

// Rundispatch executes one dispatch pass on behalf of the external cron
// caller. Invoking it twice within the same window is safe: dispatch
// records keep the replay idempotent.
func Rundispatch(c *gin.Context, store storage.Store, notifier services.Notifier, cfg *config.Config) {
	now := time.Now().UTC()

	summary, err := services.RunPass(c.Request.Context(), store, notifier, services.PassOptions{
		Lookback:         cfg.Lookback(),
		MaxAttempts:      cfg.Dispatch.MaxAttempts,
		SendTimeout:      cfg.NotifierTimeout(),
		DefaultRecipient: cfg.Notifier.Recipient,
	}, now)
	if err != nil {
		log.Printf("[dispatch] pass failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "summary": summary})
		return
	}

	log.Printf("[dispatch] pass done: evaluated=%d sent=%d skipped=%d errored=%d abandoned=%d",
		summary.Evaluated, summary.Sent, summary.Skipped, summary.Errored, summary.Abandoned)
	c.JSON(http.StatusOK, gin.H{
		"message": "Dispatch pass completed",
		"summary": summary,
	})
}
