package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"taskreminder/config"
	"taskreminder/connection"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	connection.StartServer(cfg)
}
