package model

import (
	"time"

	"github.com/google/uuid"
)

type StudyActivity struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     string    `gorm:"type:varchar(64);not null;index"`
	Action     string    `gorm:"type:varchar(50);not null"`
	ClassLevel string    `gorm:"type:varchar(10)"`
	Subject    string    `gorm:"type:varchar(100)"`
	Topic      string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (StudyActivity) TableName() string {
	return "study_activities"
}
