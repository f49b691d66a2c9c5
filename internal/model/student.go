package model

import "time"

const (
	MinGradeLevel = 1
	MaxGradeLevel = 12
)

// swagger:model Student
type Student struct {
	BaseModel
	FirstName      string     `gorm:"size:100;not null" json:"firstName"`
	LastName       string     `gorm:"size:100;not null" json:"lastName"`
	Email          string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Gender         string     `gorm:"size:1" json:"gender"` // M, F, O, N
	GradeLevel     int        `gorm:"not null" json:"gradeLevel"`
	EnrollmentDate time.Time  `json:"enrollmentDate"`
	IsActive       bool       `gorm:"not null" json:"isActive"`
	PhoneNumber    *string    `gorm:"size:20" json:"phoneNumber,omitempty"`
	Address        *string    `gorm:"type:text" json:"address,omitempty"`
}

func (Student) TableName() string {
	return "students"
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// swagger:model Educator
type Educator struct {
	BaseModel
	FirstName  string `gorm:"size:100;not null" json:"firstName"`
	LastName   string `gorm:"size:100;not null" json:"lastName"`
	Email      string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Department string `gorm:"size:100" json:"department"`
}

func (Educator) TableName() string {
	return "educators"
}
