package methods

import (
	"encoding/json"
	"log"
	"time"

	"github.com/GrainArc/ScenarioMap/models"
	"github.com/google/uuid"
)

// Journal writes are best effort: a failed journal entry is logged and
// dropped, it never aborts the edit it describes.

func NewEditSession(scenarioID int64, userID string) string {
	sessionID := uuid.New().String()
	if models.JournalDB == nil {
		return sessionID
	}
	session := models.EditSession{
		SessionID:  sessionID,
		ScenarioID: scenarioID,
		UserID:     userID,
		CreatedAt:  time.Now().Format("2006-01-02 15:04:05"),
		Status:     "active",
	}
	if err := models.JournalDB.Create(&session).Error; err != nil {
		log.Printf("edit session not journaled: %v", err)
	}
	return sessionID
}

func CloseEditSession(sessionID string, status string) {
	if models.JournalDB == nil {
		return
	}
	err := models.JournalDB.Model(&models.EditSession{}).
		Where("session_id = ?", sessionID).
		Update("status", status).Error
	if err != nil {
		log.Printf("edit session not closed: %v", err)
	}
}

func JournalEdit(sessionID string, scenarioID int64, userID string, entityKind string, entityID int64, action string, oldState interface{}, newState interface{}) {
	if models.JournalDB == nil {
		return
	}
	record := models.ScenarioEditRecord{
		ScenarioID: scenarioID,
		EntityKind: entityKind,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		SessionID:  sessionID,
		Date:       time.Now().Format("2006-01-02 15:04:05"),
	}
	if oldState != nil {
		if raw, err := json.Marshal(oldState); err == nil {
			record.OldState = raw
		}
	}
	if newState != nil {
		if raw, err := json.Marshal(newState); err == nil {
			record.NewState = raw
		}
	}
	if err := models.JournalDB.Create(&record).Error; err != nil {
		log.Printf("edit not journaled: %v", err)
	}
}
