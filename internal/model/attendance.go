package model

import (
	"time"

	"gorm.io/datatypes"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Attendance 每个学生每天一条
type Attendance struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint             `gorm:"uniqueIndex:idx_attendance_student_date;not null" json:"studentId"`
	Student   *Student         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Date      datatypes.Date   `gorm:"uniqueIndex:idx_attendance_student_date;not null" json:"date"`
	Status    AttendanceStatus `gorm:"size:10;not null" json:"status"`
	Notes     string           `gorm:"type:text" json:"notes"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (Attendance) TableName() string {
	return "attendance"
}
