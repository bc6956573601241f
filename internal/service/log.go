package service

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

func newUUID() string {
	return uuid.NewString()
}

// logEvent writes one JSON log line to the standard logger, matching the
// format used by the request logger middleware and the migration runner.
func logEvent(level string, data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	data["level"] = level

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal log event: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
