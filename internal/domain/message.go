package domain

import "time"

// ComplaintMessage is a single message on a complaint thread. Internal
// messages are visible to staff only.
type ComplaintMessage struct {
	ID          string
	ComplaintID string
	SenderID    string
	Text        string
	IsInternal  bool
	CreatedAt   time.Time
}
