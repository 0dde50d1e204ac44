package main

import (
	"log"

	"github.com/GrainArc/ScenarioMap/config"
	"github.com/GrainArc/ScenarioMap/models"
	"github.com/GrainArc/ScenarioMap/routers"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := models.InitDatabase(); err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	if err := models.InitJournalDB(); err != nil {
		log.Printf("journal init failed, edits will not be journaled: %v", err)
	}

	r := gin.Default()
	routers.UrbanRouters(r)
	if err := r.Run(config.MainRouter); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
