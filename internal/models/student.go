package models

// Student is a learner enrolled in a class of a school. Optional columns are pointers so that a
// missing value stays distinguishable from a zero value.
type Student struct {
	ID       int      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Code     string   `gorm:"size:11;not null;uniqueIndex" json:"code"`
	Name     *string  `gorm:"size:254" json:"name,omitempty"`
	Email    *string  `gorm:"size:255" json:"email,omitempty"`
	SchoolID int      `gorm:"not null;index" json:"schoolId"`
	ClassID  int      `gorm:"not null;index" json:"classId"`
	Score    *float64 `json:"score,omitempty"`
}

// TableName pins the table name used by every driver.
func (Student) TableName() string {
	return "students"
}
