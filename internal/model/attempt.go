package model

// Attempt is one numbered try by a learner at a lesson's quiz. The composite
// unique index is the correctness guarantee against concurrent double-submits:
// two rows can never share the same (learner, lesson, attempt_no).
type Attempt struct {
	BaseModel
	LearnerID         uint `gorm:"uniqueIndex:idx_learner_lesson_attempt;not null" json:"learnerId"`
	LessonID          uint `gorm:"uniqueIndex:idx_learner_lesson_attempt;not null" json:"lessonId"`
	AttemptNo         int  `gorm:"uniqueIndex:idx_learner_lesson_attempt;not null" json:"attemptNo"`
	RemainingAttempts int  `json:"remainingAttempts"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) HasAttemptsLeft() bool {
	return a.RemainingAttempts > 0
}
