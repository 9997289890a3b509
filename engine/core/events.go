package core

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/store"
)

// recordEvent appends one structured event row inside the current
// transaction and mirrors it to the log. Every mutating operation records
// exactly one event on success.
func (e *Engine) recordEvent(tx *gorm.DB, kind, actor, subject string, attrs map[string]any) error {
	var raw []byte
	if len(attrs) > 0 {
		encoded, err := json.Marshal(attrs)
		if err != nil {
			return err
		}
		raw = encoded
	}

	event := store.EngineEvent{
		Kind:       kind,
		Actor:      actor,
		Subject:    subject,
		Attributes: raw,
	}
	if err := tx.Create(&event).Error; err != nil {
		return err
	}

	e.log.Info().
		Str("event", kind).
		Str("actor", actor).
		Str("subject", subject).
		RawJSON("attributes", orEmptyJSON(raw)).
		Msg("event recorded")
	return nil
}

func orEmptyJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return raw
}

// Events returns the recorded event log, newest last.
func (e *Engine) Events() ([]store.EngineEvent, error) {
	var events []store.EngineEvent
	err := e.read(func(tx *gorm.DB) error {
		return tx.Order("id").Find(&events).Error
	})
	return events, err
}
