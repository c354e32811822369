package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/noah-isme/student-registry-api/internal/dto"
	"github.com/noah-isme/student-registry-api/internal/models"
)

// Lifecycle actions carried by student events.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// StudentEvent describes a committed change to a student.
type StudentEvent struct {
	ID         string              `json:"id"`
	Action     string              `json:"action"`
	Student    dto.StudentResponse `json:"student"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// NewStudentEvent stamps a new event for the given action.
func NewStudentEvent(action string, student models.Student) StudentEvent {
	return StudentEvent{
		ID:         uuid.NewString(),
		Action:     action,
		Student:    dto.NewStudentResponse(student),
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher delivers student events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event StudentEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, StudentEvent) error { return nil }

// NATSPublisher publishes events on "<subject>.<action>".
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher constructs a publisher; dots and colons in subject both act as separators.
func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	subject = strings.Trim(strings.ReplaceAll(subject, ":", "."), ".")
	if subject == "" {
		subject = "students"
	}
	return &NATSPublisher{conn: conn, subject: subject}
}

// Subject returns the subject an action is published on.
func (p *NATSPublisher) Subject(action string) string {
	return p.subject + "." + action
}

// Publish implements EventPublisher.
func (p *NATSPublisher) Publish(_ context.Context, event StudentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.conn.Publish(p.Subject(event.Action), payload)
}
