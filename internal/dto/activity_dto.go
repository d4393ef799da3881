package dto

import "time"

// PublishStudyActivityMessage travels over the in-process bus from the
// generating service to the activity consumer.
type PublishStudyActivityMessage struct {
	UserId     string `json:"user_id"`
	Action     string `json:"action"`
	ClassLevel string `json:"class_level,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Topic      string `json:"topic,omitempty"`
}

type StudyActivityResponse struct {
	Id         string    `json:"id"`
	Action     string    `json:"action"`
	ClassLevel string    `json:"class_level,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Topic      string    `json:"topic,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
