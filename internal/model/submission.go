package model

import "time"

// Submission records the learner's selected choices for one attempt. The
// unique index on AttemptID enforces at most one live submission per attempt.
// Grade stays NULL until the grading engine has run.
type Submission struct {
	BaseModel
	AttemptID      uint      `gorm:"uniqueIndex;not null" json:"attemptId"`
	LessonID       uint      `gorm:"index;not null" json:"lessonId"`
	Choices        []Choice  `gorm:"many2many:submission_choices" json:"choices,omitempty"`
	Grade          *float64  `json:"grade"`
	SubmissionDate time.Time `gorm:"autoCreateTime" json:"submissionDate"`
}

func (Submission) TableName() string {
	return "submissions"
}
