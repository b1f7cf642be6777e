package entity

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	UserId        uuid.UUID
	Rating        string
	Comment       string
	CreatedAt     time.Time
}
