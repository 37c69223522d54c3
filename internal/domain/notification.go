package domain

import "time"

const RelatedEntityLeave = "Leave"

// Notification is a per-recipient record; only Read changes after creation.
type Notification struct {
	NotificationID    string    `json:"id" dynamodbav:"notification_id"`
	UserID            string    `json:"user_id" dynamodbav:"user_id"`
	Message           string    `json:"message" dynamodbav:"message"`
	Read              bool      `json:"read" dynamodbav:"read"`
	RelatedEntityType string    `json:"related_entity_type,omitempty" dynamodbav:"related_entity_type,omitempty"`
	RelatedEntityID   string    `json:"related_entity_id,omitempty" dynamodbav:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created" dynamodbav:"created_at"`
}
