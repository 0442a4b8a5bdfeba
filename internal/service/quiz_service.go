package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"quizzku_backend/internal/model"
	"quizzku_backend/internal/repository"
	"quizzku_backend/internal/util"
	"quizzku_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService composes the attempt ledger, the shuffler, the submission
// store and the grading engine behind the three quiz operations: enter a
// quiz, submit it, show the result.
type QuizService struct {
	CourseRepo  *repository.CourseRepository
	LessonRepo  *repository.LessonRepository
	Attempts    *AttemptService
	Submissions *SubmissionService
	Redis       *redis.Client

	// 二元题标记缓存与 cookie 的存活时间（纳秒）；配置热更新会改写
	binaryFlagTTL atomic.Int64
}

func NewQuizService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	attempts *AttemptService,
	submissions *SubmissionService,
	rdb *redis.Client,
	binaryFlagTTL time.Duration,
) *QuizService {
	s := &QuizService{
		CourseRepo:  courseRepo,
		LessonRepo:  lessonRepo,
		Attempts:    attempts,
		Submissions: submissions,
		Redis:       rdb,
	}
	s.SetBinaryFlagTTL(binaryFlagTTL)
	return s
}

// SetBinaryFlagTTL swaps the binary-flag lifetime; safe to call while
// requests are in flight (config hot reload).
func (s *QuizService) SetBinaryFlagTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s.binaryFlagTTL.Store(int64(ttl))
}

// BinaryFlagTTL is the lifetime shared by the redis cache entry and the
// client cookie.
func (s *QuizService) BinaryFlagTTL() time.Duration {
	return time.Duration(s.binaryFlagTTL.Load())
}

type QuizPage struct {
	Course           *model.Course `json:"course"`
	LessonID         uint          `json:"lessonId"`
	LessonTitle      string        `json:"lessonTitle"`
	AttemptNo        int           `json:"attemptNo"`
	QuizData         []QuizItem    `json:"quizData"`
	IsBinaryQuestion map[uint]bool `json:"isBinaryQuestion"`

	// BinaryFlagToken is the client-visible form of IsBinaryQuestion. It
	// must round-trip unchanged to the result request so both pages style
	// binary questions identically.
	BinaryFlagToken string `json:"binaryFlagToken"`
}

// EnterQuiz serves the quiz page data for (course, lesson). The attempt row
// is not created here; the learner only gets the number their submission
// will carry.
func (s *QuizService) EnterQuiz(learnerID uint, privileged bool, courseSlug, lessonTitle string) (*QuizPage, error) {
	lessonTitle = strings.TrimSpace(lessonTitle)
	if lessonTitle == "" {
		return nil, util.ErrLessonTitleRequired
	}

	course, err := s.CourseRepo.FindBySlug(courseSlug)
	if err != nil {
		return nil, notFoundAs(err, util.ErrCourseNotFound)
	}

	lesson, err := s.LessonRepo.FindByTitleAndCourse(lessonTitle, course.ID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrLessonNotFound)
	}

	if err := s.Attempts.EnsureCanStart(learnerID, privileged, lesson); err != nil {
		return nil, err
	}

	attemptNo, err := s.Attempts.NextAttemptNo(learnerID, lesson.ID)
	if err != nil {
		return nil, err
	}

	seed := ShuffleSeed{Date: time.Now(), LearnerID: learnerID, LessonID: lesson.ID, AttemptNo: attemptNo}
	items, isBinary := ShuffleQuiz(seed, lesson.Questions)

	token, err := json.Marshal(isBinary)
	if err != nil {
		return nil, err
	}
	s.cacheBinaryFlags(learnerID, lesson.ID, attemptNo, string(token))

	return &QuizPage{
		Course:           course,
		LessonID:         lesson.ID,
		LessonTitle:      lesson.Title,
		AttemptNo:        attemptNo,
		QuizData:         items,
		IsBinaryQuestion: isBinary,
		BinaryFlagToken:  string(token),
	}, nil
}

type SubmitQuizRequest struct {
	LessonTitle string              `json:"lessonTitle"`
	Choices     map[string][]string `json:"choices"`
}

type SubmitQuizResult struct {
	AttemptNo     int    `json:"attemptNo"`
	QuizResultURL string `json:"quizResultUrl"`
}

// SubmitQuiz advances the attempt ledger (the cap is enforced here a second
// time, independently of the quiz-entry guardrail) and records the graded
// submission.
func (s *QuizService) SubmitQuiz(learnerID uint, privileged bool, courseSlug string, req SubmitQuizRequest) (*SubmitQuizResult, error) {
	lessonTitle := strings.TrimSpace(req.LessonTitle)
	if lessonTitle == "" {
		return nil, util.ErrLessonTitleRequired
	}

	course, err := s.CourseRepo.FindBySlug(courseSlug)
	if err != nil {
		return nil, notFoundAs(err, util.ErrCourseNotFound)
	}

	lesson, err := s.LessonRepo.FindByTitleAndCourse(lessonTitle, course.ID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrLessonNotFound)
	}

	attempt, err := s.Attempts.Advance(learnerID, privileged, lesson)
	if err != nil {
		return nil, err
	}

	selectedIDs := ExtractAnswers(req.Choices)

	if _, err := s.Submissions.CreateSubmission(attempt, lesson, selectedIDs); err != nil {
		return nil, err
	}

	logger.Log.Info("quiz submitted",
		zap.Uint("learnerId", learnerID),
		zap.Uint("lessonId", lesson.ID),
		zap.Int("attemptNo", attempt.AttemptNo),
		zap.Int("selectedChoices", len(selectedIDs)))

	resultURL := fmt.Sprintf("/api/courses/%s/lesson/result?name=%s&attempt=%d",
		courseSlug, url.QueryEscape(lessonTitle), attempt.AttemptNo)

	return &SubmitQuizResult{AttemptNo: attempt.AttemptNo, QuizResultURL: resultURL}, nil
}

// ExtractAnswers flattens the submitted question->choice-IDs mapping into
// choice IDs. Non-numeric entries are dropped silently; lenient parsing is
// deliberate, a malformed choice never fails the whole submission.
func ExtractAnswers(choices map[string][]string) []uint {
	var submitted []uint
	for _, selectedIDs := range choices {
		for _, raw := range selectedIDs {
			if util.IsDigits(raw) {
				submitted = append(submitted, util.MustParseUint(raw))
			}
		}
	}
	return submitted
}

type QuizResult struct {
	LessonTitle       string           `json:"lessonTitle"`
	AttemptNo         int              `json:"attemptNo"`
	QuizData          []QuizItem       `json:"quizData"`
	SelectedChoiceIDs []uint           `json:"selectedChoiceIds"`
	Grade             float64          `json:"grade"`
	GradePerQuestion  map[uint]float64 `json:"gradePerQuestion"`
	HighestGrade      *float64         `json:"highestGrade"`
	AttemptsLeft      int              `json:"attemptsLeft"`
	SubmissionDate    string           `json:"submissionDate"`
	IsBinaryQuestion  map[uint]bool    `json:"isBinaryQuestion"`
}

// GetResult re-derives the shuffle order from the same seed the quiz page
// used and returns the graded outcome. binaryFlagToken is the round-tripped
// token from EnterQuiz; when absent the server-side cache fills in.
func (s *QuizService) GetResult(learnerID uint, courseSlug, lessonTitle, attemptIndex, binaryFlagToken string) (*QuizResult, error) {
	if strings.TrimSpace(attemptIndex) == "" {
		return nil, util.ErrAttemptIndexRequired
	}
	attemptNo, err := strconv.Atoi(attemptIndex)
	if err != nil {
		return nil, util.ErrAttemptIndexRequired
	}

	lessonTitle = strings.TrimSpace(lessonTitle)
	if lessonTitle == "" {
		return nil, util.ErrLessonTitleRequired
	}

	course, err := s.CourseRepo.FindBySlug(courseSlug)
	if err != nil {
		return nil, notFoundAs(err, util.ErrCourseNotFound)
	}

	lesson, err := s.LessonRepo.FindByTitleAndCourse(lessonTitle, course.ID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrLessonNotFound)
	}

	attempt, err := s.Attempts.Repo.FindByNo(learnerID, lesson.ID, attemptNo)
	if err != nil {
		return nil, notFoundAs(err, util.ErrAttemptNotFound)
	}

	submission, err := s.Submissions.FindByAttempt(attempt.ID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrSubmissionNotFound)
	}

	seed := ShuffleSeed{Date: time.Now(), LearnerID: learnerID, LessonID: lesson.ID, AttemptNo: attemptNo}
	items, derivedBinary := ShuffleQuiz(seed, lesson.Questions)

	_, gradePerQuestion := CalculateGrade(lesson.Questions, submission.Choices)

	grade := 0.0
	if submission.Grade != nil {
		grade = *submission.Grade
	}

	highest, err := s.Submissions.HighestGrade(learnerID, lesson.ID)
	if err != nil {
		return nil, err
	}

	selectedIDs := make([]uint, 0, len(submission.Choices))
	for _, c := range submission.Choices {
		selectedIDs = append(selectedIDs, c.ID)
	}

	isBinary := s.resolveBinaryFlags(learnerID, lesson.ID, attemptNo, binaryFlagToken)
	if isBinary == nil {
		isBinary = derivedBinary
	}

	return &QuizResult{
		LessonTitle:       lesson.Title,
		AttemptNo:         attempt.AttemptNo,
		QuizData:          items,
		SelectedChoiceIDs: selectedIDs,
		Grade:             DisplayGrade(grade),
		GradePerQuestion:  gradePerQuestion,
		HighestGrade:      highest,
		AttemptsLeft:      attempt.RemainingAttempts,
		SubmissionDate:    submission.SubmissionDate.Format("2006-01-02"),
		IsBinaryQuestion:  isBinary,
	}, nil
}

// DisplayGrade renders even whole grades as integers and everything else
// rounded to three decimals.
func DisplayGrade(grade float64) float64 {
	if math.Mod(grade, 2) == 0 {
		return math.Trunc(grade)
	}
	return math.Round(grade*1000) / 1000
}

func (s *QuizService) binaryFlagKey(learnerID, lessonID uint, attemptNo int) string {
	return fmt.Sprintf("quiz:binary:%d:%d:%d", learnerID, lessonID, attemptNo)
}

func (s *QuizService) cacheBinaryFlags(learnerID, lessonID uint, attemptNo int, token string) {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	if err := s.Redis.Set(ctx, s.binaryFlagKey(learnerID, lessonID, attemptNo), token, s.BinaryFlagTTL()).Err(); err != nil {
		logger.Log.Warn("failed to cache binary-question flags", zap.Error(err))
	}
}

// resolveBinaryFlags prefers the client token, falls back to the redis
// cache, and returns nil when neither is available.
func (s *QuizService) resolveBinaryFlags(learnerID, lessonID uint, attemptNo int, token string) map[uint]bool {
	if token == "" && s.Redis != nil {
		cached, err := s.Redis.Get(context.Background(), s.binaryFlagKey(learnerID, lessonID, attemptNo)).Result()
		if err == nil {
			token = cached
		}
	}
	if token == "" {
		return nil
	}

	raw := make(map[string]bool)
	if err := json.Unmarshal([]byte(token), &raw); err != nil {
		logger.Log.Warn("malformed binary-question token", zap.Error(err))
		return nil
	}
	flags := make(map[uint]bool, len(raw))
	for k, v := range raw {
		if util.IsDigits(k) {
			flags[util.MustParseUint(k)] = v
		}
	}
	return flags
}

func notFoundAs(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
