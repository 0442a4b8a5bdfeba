package service

import (
	"errors"
	"sync/atomic"

	"quizzku_backend/internal/model"
	"quizzku_backend/internal/repository"
	"quizzku_backend/internal/util"
	"quizzku_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService is the ledger of quiz attempts. Per (learner, lesson) it
// hands out a contiguous attempt_no sequence starting at 1 and enforces the
// lesson's attempt cap, which superusers bypass.
type AttemptService struct {
	Repo *repository.AttemptRepository

	// 未设上限的课时使用的默认次数；配置热更新会在运行时改写
	defaultCap atomic.Int64
}

func NewAttemptService(repo *repository.AttemptRepository, defaultCap int) *AttemptService {
	s := &AttemptService{Repo: repo}
	s.SetDefaultCap(defaultCap)
	return s
}

// SetDefaultCap swaps the fallback attempt cap; safe to call while requests
// are in flight (config hot reload).
func (s *AttemptService) SetDefaultCap(defaultCap int) {
	if defaultCap <= 0 {
		defaultCap = model.DefaultTotalAttempt
	}
	s.defaultCap.Store(int64(defaultCap))
}

func (s *AttemptService) capFor(lesson *model.Lesson) int {
	if lesson.TotalAttempt > 0 {
		return lesson.TotalAttempt
	}
	return int(s.defaultCap.Load())
}

// EnsureCanStart is the quiz-entry guardrail: it blocks a non-privileged
// learner who has used up the cap before any attempt row is created. The
// submit path independently enforces the same cap in Advance, so skipping
// the quiz page gains nothing.
func (s *AttemptService) EnsureCanStart(learnerID uint, privileged bool, lesson *model.Lesson) error {
	if privileged {
		return nil
	}
	used, err := s.Repo.CountByLearnerAndLesson(learnerID, lesson.ID)
	if err != nil {
		return err
	}
	if used >= int64(s.capFor(lesson)) {
		return util.ErrAttemptLimitExceeded
	}
	return nil
}

// NextAttemptNo returns the number the learner's next submission will get.
// No row is created; that happens in Advance when the quiz is submitted.
func (s *AttemptService) NextAttemptNo(learnerID, lessonID uint) (int, error) {
	last, err := s.Repo.FindLast(learnerID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.AttemptNo + 1, nil
}

// Advance creates the attempt row for a submission. The unique index on
// (learner, lesson, attempt_no) catches concurrent double-submits; on a
// duplicate-key conflict the read-then-insert sequence retries once before
// giving up with ErrAttemptConflict.
func (s *AttemptService) Advance(learnerID uint, privileged bool, lesson *model.Lesson) (*model.Attempt, error) {
	attempt, err := s.advanceOnce(learnerID, privileged, lesson)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.Log.Warn("attempt conflict, retrying",
			zap.Uint("learnerId", learnerID),
			zap.Uint("lessonId", lesson.ID))
		attempt, err = s.advanceOnce(learnerID, privileged, lesson)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAttemptConflict
		}
	}
	return attempt, err
}

func (s *AttemptService) advanceOnce(learnerID uint, privileged bool, lesson *model.Lesson) (*model.Attempt, error) {
	cap := s.capFor(lesson)

	last, err := s.Repo.FindLast(learnerID, lesson.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First attempt starts at the full cap and is immediately
		// decremented: attempt #1 consumes one slot.
		attempt := &model.Attempt{
			LearnerID:         learnerID,
			LessonID:          lesson.ID,
			AttemptNo:         1,
			RemainingAttempts: cap,
		}
		if err := s.Repo.Create(attempt); err != nil {
			return nil, err
		}
		if err := s.DecreaseAttempt(attempt); err != nil {
			return nil, err
		}
		return attempt, nil
	}
	if err != nil {
		return nil, err
	}

	remaining := cap
	if !privileged {
		if last.AttemptNo >= cap {
			return nil, util.ErrAttemptLimitExceeded
		}
		remaining = last.RemainingAttempts - 1
	}

	attempt := &model.Attempt{
		LearnerID:         learnerID,
		LessonID:          lesson.ID,
		AttemptNo:         last.AttemptNo + 1,
		RemainingAttempts: remaining,
	}
	if err := s.Repo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// DecreaseAttempt burns one remaining attempt; a counter already at zero is
// left alone (not an error).
func (s *AttemptService) DecreaseAttempt(attempt *model.Attempt) error {
	if !attempt.HasAttemptsLeft() {
		return nil
	}
	attempt.RemainingAttempts--
	return s.Repo.UpdateRemaining(attempt)
}
