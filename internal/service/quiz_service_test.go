package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"quizzku_backend/internal/model"
	"quizzku_backend/internal/repository"
	"quizzku_backend/internal/util"

	"gorm.io/gorm"
)

type quizFixture struct {
	db     *gorm.DB
	svc    *QuizService
	course *model.Course
	lesson *model.Lesson
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	db := newTestDB(t)

	course := &model.Course{
		Name:     "Go from scratch",
		SlugName: "go-from-scratch",
		Lessons: []model.Lesson{
			{
				Title:        "Interfaces",
				TotalAttempt: 2,
				Questions: []model.Question{
					{
						Grade: 100,
						Choices: []model.Choice{
							{IsCorrect: true},
							{IsCorrect: false},
							{IsCorrect: false},
						},
					},
					{
						Grade:                100,
						ExpectMultipleAnswer: true,
						Choices: []model.Choice{
							{IsCorrect: true},
							{IsCorrect: true},
							{IsCorrect: false},
							{IsCorrect: false},
						},
					},
					{
						// 判断题：两个选项，顺序不应被打乱
						Grade: 100,
						Choices: []model.Choice{
							{IsCorrect: true},
							{IsCorrect: false},
						},
					},
				},
			},
		},
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	attempts := NewAttemptService(repository.NewAttemptRepository(db), 3)
	submissions := NewSubmissionService(repository.NewSubmissionRepository(db), repository.NewLessonRepository(db))
	svc := NewQuizService(
		repository.NewCourseRepository(db),
		repository.NewLessonRepository(db),
		attempts,
		submissions,
		nil, // redis 缺省：走 cookie 与推导兜底
		0,
	)

	return &quizFixture{db: db, svc: svc, course: course, lesson: &course.Lessons[0]}
}

// answersFor builds a choices payload selecting the given choice IDs.
func answersFor(lesson *model.Lesson, pick func(q model.Question) []uint) map[string][]string {
	answers := make(map[string][]string)
	for _, q := range lesson.Questions {
		key := fmt.Sprintf("%d", q.ID)
		for _, id := range pick(q) {
			answers[key] = append(answers[key], fmt.Sprintf("%d", id))
		}
	}
	return answers
}

func correctAnswers(lesson *model.Lesson) map[string][]string {
	return answersFor(lesson, func(q model.Question) []uint {
		ids := make([]uint, 0, 2)
		for _, c := range q.CorrectChoices() {
			ids = append(ids, c.ID)
		}
		return ids
	})
}

func TestEnterQuiz(t *testing.T) {
	f := newQuizFixture(t)

	page, err := f.svc.EnterQuiz(1, false, f.course.SlugName, f.lesson.Title)
	if err != nil {
		t.Fatalf("EnterQuiz: %v", err)
	}

	if page.AttemptNo != 1 {
		t.Errorf("attemptNo = %d, want 1", page.AttemptNo)
	}
	if len(page.QuizData) != 3 {
		t.Errorf("quiz items = %d, want 3", len(page.QuizData))
	}

	// 进入测验不创建任何尝试记录
	var count int64
	f.db.Model(&model.Attempt{}).Count(&count)
	if count != 0 {
		t.Errorf("attempt rows after EnterQuiz = %d, want 0", count)
	}

	// 令牌必须能解析回二元题标记
	var flags map[string]bool
	if err := json.Unmarshal([]byte(page.BinaryFlagToken), &flags); err != nil {
		t.Fatalf("BinaryFlagToken does not parse: %v", err)
	}
	if len(flags) != 3 {
		t.Errorf("token flags = %d, want 3", len(flags))
	}
	binaryID := f.lesson.Questions[2].ID
	if !page.IsBinaryQuestion[binaryID] {
		t.Error("two-choice question not flagged binary")
	}
}

func TestEnterQuizErrors(t *testing.T) {
	f := newQuizFixture(t)

	testCases := []struct {
		name   string
		slug   string
		lesson string
		want   error
	}{
		{"blank lesson title", f.course.SlugName, "  ", util.ErrLessonTitleRequired},
		{"unknown course", "no-such-course", f.lesson.Title, util.ErrCourseNotFound},
		{"unknown lesson", f.course.SlugName, "No Such Lesson", util.ErrLessonNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.EnterQuiz(1, false, tc.slug, tc.lesson)
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEnterQuizCapExhausted(t *testing.T) {
	f := newQuizFixture(t)
	req := SubmitQuizRequest{LessonTitle: f.lesson.Title, Choices: correctAnswers(f.lesson)}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.SubmitQuiz(1, false, f.course.SlugName, req); err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
	}

	if _, err := f.svc.EnterQuiz(1, false, f.course.SlugName, f.lesson.Title); !errors.Is(err, util.ErrAttemptLimitExceeded) {
		t.Errorf("EnterQuiz error = %v, want ErrAttemptLimitExceeded", err)
	}
	// 超级用户仍可进入
	if _, err := f.svc.EnterQuiz(1, true, f.course.SlugName, f.lesson.Title); err != nil {
		t.Errorf("superuser EnterQuiz: %v", err)
	}
}

func TestSubmitQuizRoundTrip(t *testing.T) {
	f := newQuizFixture(t)

	page, err := f.svc.EnterQuiz(1, false, f.course.SlugName, f.lesson.Title)
	if err != nil {
		t.Fatalf("EnterQuiz: %v", err)
	}

	req := SubmitQuizRequest{LessonTitle: f.lesson.Title, Choices: correctAnswers(f.lesson)}
	submitted, err := f.svc.SubmitQuiz(1, false, f.course.SlugName, req)
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if submitted.AttemptNo != page.AttemptNo {
		t.Errorf("submitted attemptNo = %d, want %d", submitted.AttemptNo, page.AttemptNo)
	}

	wantURL := fmt.Sprintf("/api/courses/%s/lesson/result?name=%s&attempt=1", f.course.SlugName, "Interfaces")
	if submitted.QuizResultURL != wantURL {
		t.Errorf("result URL = %q, want %q", submitted.QuizResultURL, wantURL)
	}

	result, err := f.svc.GetResult(1, f.course.SlugName, f.lesson.Title, "1", page.BinaryFlagToken)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if result.Grade != 100 {
		t.Errorf("grade = %v, want 100", result.Grade)
	}
	if result.AttemptsLeft != 1 {
		t.Errorf("attemptsLeft = %v, want 1", result.AttemptsLeft)
	}
	if result.HighestGrade == nil || *result.HighestGrade != 100 {
		t.Errorf("highestGrade = %v, want 100", result.HighestGrade)
	}
	for _, q := range f.lesson.Questions {
		if got := result.GradePerQuestion[q.ID]; got != 1 {
			t.Errorf("gradePerQuestion[%d] = %v, want 1", q.ID, got)
		}
	}

	wantSelected := make([]uint, 0, 4)
	for _, q := range f.lesson.Questions {
		for _, c := range q.CorrectChoices() {
			wantSelected = append(wantSelected, c.ID)
		}
	}
	gotSelected := append([]uint(nil), result.SelectedChoiceIDs...)
	sort.Slice(gotSelected, func(i, j int) bool { return gotSelected[i] < gotSelected[j] })
	sort.Slice(wantSelected, func(i, j int) bool { return wantSelected[i] < wantSelected[j] })
	if len(gotSelected) != len(wantSelected) {
		t.Fatalf("selected = %v, want %v", gotSelected, wantSelected)
	}
	for i := range gotSelected {
		if gotSelected[i] != wantSelected[i] {
			t.Fatalf("selected = %v, want %v", gotSelected, wantSelected)
		}
	}
}

func TestSubmitQuizEnforcesCap(t *testing.T) {
	f := newQuizFixture(t)
	req := SubmitQuizRequest{LessonTitle: f.lesson.Title, Choices: nil}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.SubmitQuiz(1, false, f.course.SlugName, req); err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
	}
	// 绕过测验页面直接提交也会被挡下
	if _, err := f.svc.SubmitQuiz(1, false, f.course.SlugName, req); !errors.Is(err, util.ErrAttemptLimitExceeded) {
		t.Errorf("error = %v, want ErrAttemptLimitExceeded", err)
	}
	// 超级用户不受限
	if res, err := f.svc.SubmitQuiz(1, true, f.course.SlugName, req); err != nil {
		t.Errorf("superuser submit: %v", err)
	} else if res.AttemptNo != 3 {
		t.Errorf("superuser attemptNo = %d, want 3", res.AttemptNo)
	}
}

func TestGetResultErrors(t *testing.T) {
	f := newQuizFixture(t)

	testCases := []struct {
		name    string
		slug    string
		lesson  string
		attempt string
		want    error
	}{
		{"blank attempt", f.course.SlugName, f.lesson.Title, " ", util.ErrAttemptIndexRequired},
		{"non-numeric attempt", f.course.SlugName, f.lesson.Title, "abc", util.ErrAttemptIndexRequired},
		{"blank lesson", f.course.SlugName, "", "1", util.ErrLessonTitleRequired},
		{"unknown course", "nope", f.lesson.Title, "1", util.ErrCourseNotFound},
		{"no such attempt", f.course.SlugName, f.lesson.Title, "1", util.ErrAttemptNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.GetResult(1, tc.slug, tc.lesson, tc.attempt, "")
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestGetResultBinaryFlagsFromToken(t *testing.T) {
	f := newQuizFixture(t)
	req := SubmitQuizRequest{LessonTitle: f.lesson.Title, Choices: nil}
	if _, err := f.svc.SubmitQuiz(1, false, f.course.SlugName, req); err != nil {
		t.Fatalf("submit: %v", err)
	}

	binaryID := f.lesson.Questions[2].ID

	// 无令牌、无缓存：从题目推导
	result, err := f.svc.GetResult(1, f.course.SlugName, f.lesson.Title, "1", "")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if !result.IsBinaryQuestion[binaryID] {
		t.Error("derived flags missed the binary question")
	}

	// 客户端令牌优先于推导
	token := fmt.Sprintf(`{"%d":false}`, binaryID)
	result, err = f.svc.GetResult(1, f.course.SlugName, f.lesson.Title, "1", token)
	if err != nil {
		t.Fatalf("GetResult with token: %v", err)
	}
	if result.IsBinaryQuestion[binaryID] {
		t.Error("client token did not override the derived flags")
	}

	// 坏令牌降级为推导而不是报错
	result, err = f.svc.GetResult(1, f.course.SlugName, f.lesson.Title, "1", "{not json")
	if err != nil {
		t.Fatalf("GetResult with malformed token: %v", err)
	}
	if !result.IsBinaryQuestion[binaryID] {
		t.Error("malformed token should fall back to derived flags")
	}
}

func TestExtractAnswers(t *testing.T) {
	got := ExtractAnswers(map[string][]string{
		"1": {"10", "11"},
		"2": {"oops", "12"},
		"3": {""},
	})

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []uint{10, 11, 12}
	if len(got) != len(want) {
		t.Fatalf("ExtractAnswers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExtractAnswers = %v, want %v", got, want)
		}
	}
}

func TestSetBinaryFlagTTL(t *testing.T) {
	f := newQuizFixture(t)

	// 构造时的非法值回落到默认 24h
	if got := f.svc.BinaryFlagTTL(); got != 24*time.Hour {
		t.Errorf("default TTL = %v, want 24h", got)
	}

	f.svc.SetBinaryFlagTTL(6 * time.Hour)
	if got := f.svc.BinaryFlagTTL(); got != 6*time.Hour {
		t.Errorf("TTL after reload = %v, want 6h", got)
	}

	f.svc.SetBinaryFlagTTL(-1)
	if got := f.svc.BinaryFlagTTL(); got != 24*time.Hour {
		t.Errorf("TTL after bad reload = %v, want 24h", got)
	}
}

func TestDisplayGrade(t *testing.T) {
	testCases := []struct {
		in   float64
		want float64
	}{
		{100, 100},
		{50, 50},
		{0, 0},
		{75, 75},
		{66.666666, 66.667},
		{83.333333, 83.333},
	}

	for _, tc := range testCases {
		if got := DisplayGrade(tc.in); got != tc.want {
			t.Errorf("DisplayGrade(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
