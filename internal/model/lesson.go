package model

// DefaultTotalAttempt is the attempt cap applied to new lessons.
const DefaultTotalAttempt = 3

type Lesson struct {
	BaseModel
	CourseID     uint       `gorm:"index;not null" json:"courseId"`
	Title        string     `gorm:"size:200;not null;default:'title'" json:"title"`
	Content      string     `gorm:"type:text" json:"content"`
	TotalAttempt int        `gorm:"default:3" json:"totalAttempt"`
	Questions    []Question `gorm:"foreignKey:LessonID" json:"questions,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// AttemptCap returns the lesson's bound on quiz attempts, falling back to the
// default when the row predates the column.
func (l *Lesson) AttemptCap() int {
	if l.TotalAttempt <= 0 {
		return DefaultTotalAttempt
	}
	return l.TotalAttempt
}
