package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/student-registry-api/internal/dto"
	"github.com/noah-isme/student-registry-api/internal/models"
	"github.com/noah-isme/student-registry-api/internal/observability"
	"github.com/noah-isme/student-registry-api/internal/repository"
)

var (
	// ErrStudentNotFound indicates no student matches the lookup.
	ErrStudentNotFound = errors.New("student not found")
	// ErrStudentIDInUse indicates a create collided with an existing id.
	ErrStudentIDInUse = errors.New("id is already in use")
	// ErrStudentCodeInUse indicates a create collided with an existing code.
	ErrStudentCodeInUse = errors.New("code is already in use")
	// ErrStudentCodeInUseByOther indicates an update tried to take another student's code.
	ErrStudentCodeInUseByOther = errors.New("code is already in use by another student")
)

// StudentService orchestrates the student registry use cases.
//
// Uniqueness of id and code is checked with lookups before writing and is not wrapped in a
// transaction, so two concurrent writers may both pass the check. The unique index on code
// rejects the losing insert at the storage layer.
type StudentService interface {
	Create(ctx context.Context, payload dto.StudentPayload) (dto.StudentResponse, error)
	Update(ctx context.Context, payload dto.StudentPayload) (dto.StudentResponse, error)
	Delete(ctx context.Context, lookup dto.StudentLookup) error
	List(ctx context.Context, query dto.StudentListQuery) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id int) (dto.StudentResponse, error)
}

type studentService struct {
	repo      repository.StudentRepository
	publisher EventPublisher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewStudentService constructs the student service. A nil publisher disables lifecycle events.
func NewStudentService(repo repository.StudentRepository, publisher EventPublisher, logger zerolog.Logger) StudentService {
	if publisher == nil {
		publisher = NopPublisher{}
	}

	return &studentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "student_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/student-registry-api/internal/service/student"),
	}
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentPayload) (dto.StudentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "students.create", trace.WithAttributes(attribute.Int("student.id", payload.ID)))
	defer span.End()

	byCode, err := s.repo.GetOne(ctx, repository.StudentFilter{Code: &payload.Code})
	if err != nil {
		span.RecordError(err)
		return dto.StudentResponse{}, err
	}

	byID, err := s.repo.GetOne(ctx, repository.StudentFilter{ID: &payload.ID})
	if err != nil {
		span.RecordError(err)
		return dto.StudentResponse{}, err
	}

	if byID != nil {
		return dto.StudentResponse{}, ErrStudentIDInUse
	}
	if byCode != nil {
		return dto.StudentResponse{}, ErrStudentCodeInUse
	}

	created, err := s.repo.Create(ctx, payload.Model())
	if err != nil {
		span.RecordError(err)
		return dto.StudentResponse{}, err
	}

	observability.StudentMutations().WithLabelValues(EventCreated).Inc()
	s.emit(ctx, EventCreated, created)
	s.logger.Info().Int("student_id", created.ID).Msg("student created")

	return dto.NewStudentResponse(created), nil
}

func (s *studentService) Update(ctx context.Context, payload dto.StudentPayload) (dto.StudentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "students.update", trace.WithAttributes(attribute.Int("student.id", payload.ID)))
	defer span.End()

	existing, err := s.repo.GetOne(ctx, repository.StudentFilter{ID: &payload.ID})
	if err != nil {
		span.RecordError(err)
		return dto.StudentResponse{}, err
	}
	if existing == nil {
		return dto.StudentResponse{}, ErrStudentNotFound
	}

	holder, err := s.repo.GetOne(ctx, repository.StudentFilter{Code: &payload.Code})
	if err != nil {
		span.RecordError(err)
		return dto.StudentResponse{}, err
	}
	if holder != nil && holder.ID != payload.ID {
		return dto.StudentResponse{}, ErrStudentCodeInUseByOther
	}

	updated, err := s.repo.Update(ctx, payload.Model())
	if err != nil {
		span.RecordError(err)
		return dto.StudentResponse{}, err
	}

	observability.StudentMutations().WithLabelValues(EventUpdated).Inc()
	s.emit(ctx, EventUpdated, updated)
	s.logger.Info().Int("student_id", updated.ID).Msg("student updated")

	return dto.NewStudentResponse(updated), nil
}

func (s *studentService) Delete(ctx context.Context, lookup dto.StudentLookup) error {
	ctx, span := s.tracer.Start(ctx, "students.delete")
	defer span.End()

	student, err := s.repo.GetOne(ctx, repository.StudentFilter{ID: lookup.ID, Code: lookup.Code})
	if err != nil {
		span.RecordError(err)
		return err
	}
	if student == nil {
		return ErrStudentNotFound
	}

	if err := s.repo.Delete(ctx, student.ID); err != nil {
		span.RecordError(err)
		return err
	}

	observability.StudentMutations().WithLabelValues(EventDeleted).Inc()
	s.emit(ctx, EventDeleted, *student)
	s.logger.Info().Int("student_id", student.ID).Msg("student deleted")

	return nil
}

func (s *studentService) List(ctx context.Context, query dto.StudentListQuery) ([]dto.StudentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "students.list")
	defer span.End()

	students, err := s.repo.Find(ctx, repository.StudentFilter{
		SchoolID: query.SchoolID,
		ClassID:  query.ClassID,
		Score:    query.Score,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Get(ctx context.Context, id int) (dto.StudentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "students.get", trace.WithAttributes(attribute.Int("student.id", id)))
	defer span.End()

	student, err := s.repo.GetOne(ctx, repository.StudentFilter{ID: &id})
	if err != nil {
		span.RecordError(err)
		return dto.StudentResponse{}, err
	}
	if student == nil {
		return dto.StudentResponse{}, ErrStudentNotFound
	}

	return dto.NewStudentResponse(*student), nil
}

func (s *studentService) emit(ctx context.Context, action string, student models.Student) {
	if err := s.publisher.Publish(ctx, NewStudentEvent(action, student)); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Int("student_id", student.ID).Msg("failed to publish student event")
		return
	}
	observability.StudentEventsPublished().WithLabelValues(action).Inc()
}
