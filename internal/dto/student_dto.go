package dto

import "github.com/noah-isme/student-registry-api/internal/models"

// StudentPayload is a validated student body accepted by create and update.
type StudentPayload struct {
	ID       int
	Code     string
	Name     *string
	Email    *string
	SchoolID int
	ClassID  int
	Score    *float64
}

// StudentListQuery carries the optional list filters; nil means unconstrained.
type StudentListQuery struct {
	ClassID  *int
	SchoolID *int
	Score    *float64
}

// StudentLookup identifies a student by id, code or both.
type StudentLookup struct {
	ID   *int
	Code *string
}

// StudentResponse is the wire shape of a student.
type StudentResponse struct {
	ID       int      `json:"id"`
	Code     string   `json:"code"`
	Name     *string  `json:"name,omitempty"`
	Email    *string  `json:"email,omitempty"`
	SchoolID int      `json:"schoolId"`
	ClassID  int      `json:"classId"`
	Score    *float64 `json:"score,omitempty"`
}

// Model converts the payload into a persistence model.
func (p StudentPayload) Model() models.Student {
	return models.Student{
		ID:       p.ID,
		Code:     p.Code,
		Name:     p.Name,
		Email:    p.Email,
		SchoolID: p.SchoolID,
		ClassID:  p.ClassID,
		Score:    p.Score,
	}
}

// NewStudentResponse maps a model into its response representation.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:       student.ID,
		Code:     student.Code,
		Name:     student.Name,
		Email:    student.Email,
		SchoolID: student.SchoolID,
		ClassID:  student.ClassID,
		Score:    student.Score,
	}
}

// NewStudentResponseSlice maps models into responses, never returning nil.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
