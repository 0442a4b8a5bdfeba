package model

import "time"

type CourseMode string

const (
	ModeAudit CourseMode = "audit"
	ModeHonor CourseMode = "honor"
	ModeBeta  CourseMode = "BETA"
)

type Course struct {
	BaseModel
	Name            string     `gorm:"size:30;not null;default:'online course'" json:"name"`
	SlugName        string     `gorm:"size:50;uniqueIndex;not null" json:"slugName"`
	Image           string     `gorm:"size:255" json:"image"`
	Description     string     `gorm:"size:1000" json:"description"`
	PubDate         *time.Time `json:"pubDate"`
	TotalEnrollment int        `gorm:"default:0" json:"totalEnrollment"`
	Lessons         []Lesson   `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type Enrollment struct {
	BaseModel
	LearnerID    uint       `gorm:"index;not null" json:"learnerId"`
	CourseID     uint       `gorm:"index;not null" json:"courseId"`
	DateEnrolled time.Time  `gorm:"autoCreateTime" json:"dateEnrolled"`
	Mode         CourseMode `gorm:"size:5;default:'audit'" json:"mode"`
	Rating       float64    `gorm:"default:5.0" json:"rating"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
