package task

import (
	"SwiftShare/internal/mq"
	"SwiftShare/internal/service"
	"context"
	"encoding/json"
	"log"
)

// ReclaimMessage is the payload sent to the reclaim worker.
type ReclaimMessage struct {
	UUID    string `json:"uuid"`
	Attempt int    `json:"attempt"`
}

// PublishReclaim enqueues eager cleanup for an expired file. Failures are
// logged and swallowed: the sweep reclaims anything the queue misses.
func PublishReclaim(ctx context.Context, fileUUID string) {
	msg := ReclaimMessage{UUID: fileUUID, Attempt: 0}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("reclaim publish %s: marshal failed: %v", fileUUID, err)
		return
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		log.Printf("reclaim publish %s: no publisher: %v", fileUUID, err)
		return
	}
	if err := publisher.PublishTask(ctx, body); err != nil {
		log.Printf("reclaim publish %s failed: %v", fileUUID, err)
	}
}

// ProcessReclaim executes one reclaim task.
func ProcessReclaim(ctx context.Context, fileUUID string) error {
	return service.ReclaimFileByUUID(ctx, fileUUID)
}
