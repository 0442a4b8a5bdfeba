package repository

import (
	"quizzku_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

// ReplaceChoices swaps the submission's choice set wholesale (set semantics,
// not incremental add/remove).
func (r *SubmissionRepository) ReplaceChoices(submission *model.Submission, choices []model.Choice) error {
	if err := r.DB.Model(submission).Association("Choices").Replace(&choices); err != nil {
		return err
	}
	submission.Choices = choices
	return nil
}

func (r *SubmissionRepository) UpdateGrade(submission *model.Submission) error {
	return r.DB.Model(submission).Update("grade", submission.Grade).Error
}

func (r *SubmissionRepository) FindByAttempt(attemptID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Choices").Where("attempt_id = ?", attemptID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) FindChoicesByIDs(ids []uint) ([]model.Choice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var choices []model.Choice
	err := r.DB.Where("id IN ?", ids).Find(&choices).Error
	return choices, err
}

// HighestGrade returns MAX(grade) over every submission the learner has made
// for the lesson, nil when there are no graded submissions.
func (r *SubmissionRepository) HighestGrade(learnerID, lessonID uint) (*float64, error) {
	var result struct {
		Highest *float64
	}
	err := r.DB.Model(&model.Submission{}).
		Select("MAX(submissions.grade) as highest").
		Joins("JOIN attempts ON attempts.id = submissions.attempt_id").
		Where("attempts.learner_id = ? AND submissions.lesson_id = ?", learnerID, lessonID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.Highest, nil
}

// ListAll streams every submission with its choices, for grade backfills.
func (r *SubmissionRepository) ListAll() ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Preload("Choices").Find(&submissions).Error
	return submissions, err
}
