package amqp

import (
	"encoding/json"
	"time"
)

// NotificationMessage is the payload published for a due alarm.
type NotificationMessage struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

func NewNotificationMessage(title, body string) NotificationMessage {
	return NotificationMessage{
		Title:     title,
		Body:      body,
		Timestamp: time.Now().UTC(),
	}
}

func (m NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func NotificationMessageFromJSON(data []byte) (NotificationMessage, error) {
	var m NotificationMessage
	err := json.Unmarshal(data, &m)
	return m, err
}
