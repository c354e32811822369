package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/student-registry-api/internal/models"
)

// StudentFilter is an exact-match conjunction; nil fields do not constrain the query.
type StudentFilter struct {
	ID       *int
	Code     *string
	SchoolID *int
	ClassID  *int
	Score    *float64
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	Create(ctx context.Context, student models.Student) (models.Student, error)
	Delete(ctx context.Context, id int) error
	Find(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	// GetOne returns the first student matching filter, or nil when there is none.
	GetOne(ctx context.Context, filter StudentFilter) (*models.Student, error)
	Update(ctx context.Context, student models.Student) (models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student models.Student) (models.Student, error) {
	if err := r.db.WithContext(ctx).Create(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&models.Student{}, id).Error
}

func (r *studentRepository) Find(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	var students []models.Student
	if err := r.filtered(ctx, filter).Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) GetOne(ctx context.Context, filter StudentFilter) (*models.Student, error) {
	var students []models.Student
	if err := r.filtered(ctx, filter).Order("id ASC").Limit(1).Find(&students).Error; err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, nil
	}

	return &students[0], nil
}

func (r *studentRepository) Update(ctx context.Context, student models.Student) (models.Student, error) {
	// Every column is written so that cleared optional fields become NULL.
	updates := map[string]interface{}{
		"code":      student.Code,
		"name":      nullable(student.Name),
		"email":     nullable(student.Email),
		"school_id": student.SchoolID,
		"class_id":  student.ClassID,
		"score":     nullable(student.Score),
	}

	if err := r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", student.ID).Updates(updates).Error; err != nil {
		return models.Student{}, err
	}

	var updated models.Student
	if err := r.db.WithContext(ctx).Where("id = ?", student.ID).First(&updated).Error; err != nil {
		return models.Student{}, err
	}

	return updated, nil
}

func (r *studentRepository) filtered(ctx context.Context, filter StudentFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}
	if filter.SchoolID != nil {
		query = query.Where("school_id = ?", *filter.SchoolID)
	}
	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.Score != nil {
		query = query.Where("score = ?", *filter.Score)
	}

	return query
}

func nullable[T any](value *T) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
