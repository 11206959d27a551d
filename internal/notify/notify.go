// Package notify implements role/department-targeted broadcast notifications.
// Messages are broadcast rows, not per-recipient: recipients filter with
// Visible, and read/unread state lives client-side as a last-read timestamp.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Target roles a notification may address.
const (
	TargetStudents = "student"
	TargetFaculty  = "faculty"
	TargetAll      = "all"
)

// ErrNotFound indicates a delete against a missing or foreign notification.
var ErrNotFound = errors.New("notify: notification not found")

// Notification is one broadcast message.
type Notification struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	SenderID   string    `json:"sender_id"`
	SenderRole string    `json:"sender_role"`
	TargetRole string    `json:"target_role"`
	TargetDept string    `json:"target_dept"`
	Timestamp  time.Time `json:"timestamp"`
}

// Visible reports whether a notification addresses the given role and
// department. The department check is the recipient-side filter the broad
// role query cannot express.
func Visible(n Notification, role, dept string) bool {
	if n.TargetRole != role && n.TargetRole != TargetAll {
		return false
	}
	if n.TargetDept != "" && n.TargetDept != "ALL" && n.TargetDept != dept {
		return false
	}
	return true
}

// FilterVisible keeps the notifications addressed to role and dept.
func FilterVisible(all []Notification, role, dept string) []Notification {
	var out []Notification
	for _, n := range all {
		if Visible(n, role, dept) {
			out = append(out, n)
		}
	}
	return out
}

// Store persists notifications.
type Store interface {
	Insert(ctx context.Context, n Notification) (Notification, error)
	ListForRole(ctx context.Context, role string, limit int) ([]Notification, error)
	DeleteBySender(ctx context.Context, id, senderID string) error
}

// Service broadcasts notifications and pushes them on Redis for live
// dropdowns. The Redis publish is best-effort; the row is the record.
type Service struct {
	store Store
	rdb   *redis.Client
}

// NewService creates the broadcast service. rdb may be nil in tests.
func NewService(store Store, rdb *redis.Client) *Service {
	return &Service{store: store, rdb: rdb}
}

// Broadcast persists a notification and publishes it on the role channel.
func (s *Service) Broadcast(ctx context.Context, n Notification) (Notification, error) {
	saved, err := s.store.Insert(ctx, n)
	if err != nil {
		return Notification{}, err
	}
	if s.rdb != nil {
		payload, err := json.Marshal(saved)
		if err == nil {
			if err := s.rdb.Publish(ctx, "notify:"+saved.TargetRole, payload).Err(); err != nil {
				log.Printf("notify publish failed: %v", err)
			}
		}
	}
	return saved, nil
}

// Recent returns the latest notifications a role could see; the caller
// applies FilterVisible with the requester's department.
func (s *Service) Recent(ctx context.Context, role string, limit int) ([]Notification, error) {
	return s.store.ListForRole(ctx, role, limit)
}

// Delete removes a notification; only its sender may do so.
func (s *Service) Delete(ctx context.Context, id, senderID string) error {
	return s.store.DeleteBySender(ctx, id, senderID)
}
