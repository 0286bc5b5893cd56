package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/codechella/console-backend/utils"
)

// StartKafkaConsumer drains the notification topic and lands each
// event as a stored in-app notification. No-op when Kafka is disabled.
func StartKafkaConsumer(ctx context.Context, svc Service) {
	if !utils.IsKafkaEnabled() {
		return
	}

	reader := utils.NewNotificationReader("console-notifications")
	log.Println("📥 Kafka notification consumer started")

	go func() {
		defer reader.Close()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("⚠️ Kafka read error: %v", err)
				continue
			}

			var ev Event
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				log.Printf("⚠️ Dropping malformed notification event: %v", err)
				continue
			}

			if err := svc.CreateInAppNotification(ctx, ev.UserID, ev.Title, ev.Message, ev.Category); err != nil {
				log.Printf("⚠️ Failed to store notification for user %d: %v", ev.UserID, err)
			}
		}
	}()
}
