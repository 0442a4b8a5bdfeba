package service

import (
	"errors"

	"quizzku_backend/internal/model"
	"quizzku_backend/internal/repository"
	"quizzku_backend/internal/util"
	"quizzku_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService persists one submission per attempt and keeps its grade
// in sync with the choice set. Grading runs synchronously on creation and on
// every choice-set replacement; there is no signal machinery, the mutation
// paths all live here.
type SubmissionService struct {
	Repo       *repository.SubmissionRepository
	LessonRepo *repository.LessonRepository
}

func NewSubmissionService(repo *repository.SubmissionRepository, lessonRepo *repository.LessonRepository) *SubmissionService {
	return &SubmissionService{Repo: repo, LessonRepo: lessonRepo}
}

// CreateSubmission records the attempt's submission and grades it. An empty
// selection is still graded (the all-unanswered path awards the abstention
// floor on multi-answer questions).
func (s *SubmissionService) CreateSubmission(attempt *model.Attempt, lesson *model.Lesson, choiceIDs []uint) (*model.Submission, error) {
	submission := &model.Submission{
		AttemptID: attempt.ID,
		LessonID:  lesson.ID,
	}
	if err := s.Repo.Create(submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrSubmissionExists
		}
		return nil, err
	}

	logger.Log.Info("submission created, calculating initial grade",
		zap.Uint("submissionId", submission.ID),
		zap.Uint("attemptId", attempt.ID))

	if len(choiceIDs) > 0 {
		if err := s.SetChoices(submission, lesson, choiceIDs); err != nil {
			return nil, err
		}
		return submission, nil
	}

	if err := s.regrade(submission, lesson); err != nil {
		return nil, err
	}
	return submission, nil
}

// SetChoices replaces the submission's choice set and re-grades. Full-set
// replace semantics: passing an empty slice clears the selection, and that
// too re-triggers grading.
func (s *SubmissionService) SetChoices(submission *model.Submission, lesson *model.Lesson, choiceIDs []uint) error {
	choices, err := s.Repo.FindChoicesByIDs(choiceIDs)
	if err != nil {
		return err
	}
	if err := s.Repo.ReplaceChoices(submission, choices); err != nil {
		return err
	}
	return s.regrade(submission, lesson)
}

func (s *SubmissionService) regrade(submission *model.Submission, lesson *model.Lesson) error {
	grade, _ := CalculateGrade(lesson.Questions, submission.Choices)
	submission.Grade = &grade
	return s.Repo.UpdateGrade(submission)
}

func (s *SubmissionService) FindByAttempt(attemptID uint) (*model.Submission, error) {
	return s.Repo.FindByAttempt(attemptID)
}

func (s *SubmissionService) HighestGrade(learnerID, lessonID uint) (*float64, error) {
	return s.Repo.HighestGrade(learnerID, lessonID)
}

// BackfillGrades recomputes the stored grade of every submission, for use
// after grading-formula changes. Returns the number of rows touched.
func (s *SubmissionService) BackfillGrades() (int, error) {
	submissions, err := s.Repo.ListAll()
	if err != nil {
		return 0, err
	}

	lessons := make(map[uint]*model.Lesson)
	updated := 0
	for i := range submissions {
		sub := &submissions[i]
		lesson, ok := lessons[sub.LessonID]
		if !ok {
			lesson, err = s.LessonRepo.FindByID(sub.LessonID)
			if err != nil {
				logger.Log.Warn("skipping submission with missing lesson",
					zap.Uint("submissionId", sub.ID),
					zap.Uint("lessonId", sub.LessonID))
				continue
			}
			lessons[sub.LessonID] = lesson
		}
		if err := s.regrade(sub, lesson); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
