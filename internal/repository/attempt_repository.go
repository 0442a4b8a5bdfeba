package repository

import (
	"quizzku_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

// FindLast returns the attempt with the highest attempt_no for the pair, or
// gorm.ErrRecordNotFound when the learner has never tried the lesson.
func (r *AttemptRepository) FindLast(learnerID, lessonID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.Where("learner_id = ? AND lesson_id = ?", learnerID, lessonID).
		Order("attempt_no desc").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindByNo(learnerID, lessonID uint, attemptNo int) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.Where("learner_id = ? AND lesson_id = ? AND attempt_no = ?", learnerID, lessonID, attemptNo).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CountByLearnerAndLesson(learnerID, lessonID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("learner_id = ? AND lesson_id = ?", learnerID, lessonID).
		Count(&count).Error
	return count, err
}

func (r *AttemptRepository) UpdateRemaining(attempt *model.Attempt) error {
	return r.DB.Model(attempt).Update("remaining_attempts", attempt.RemainingAttempts).Error
}
