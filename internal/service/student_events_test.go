package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-registry-api/internal/models"
)

func TestNATSPublisherSubjects(t *testing.T) {
	require.Equal(t, "registry.students.created", NewNATSPublisher(nil, "registry:students").Subject(EventCreated))
	require.Equal(t, "students.deleted", NewNATSPublisher(nil, "").Subject(EventDeleted))
	require.Equal(t, "students.updated", NewNATSPublisher(nil, "students.").Subject(EventUpdated))
}

func TestNewStudentEvent(t *testing.T) {
	event := NewStudentEvent(EventCreated, models.Student{ID: 7, Code: "12345678901"})
	require.NotEmpty(t, event.ID)
	require.Equal(t, EventCreated, event.Action)
	require.Equal(t, 7, event.Student.ID)
	require.False(t, event.OccurredAt.IsZero())

	require.NoError(t, NopPublisher{}.Publish(context.Background(), event))
}
