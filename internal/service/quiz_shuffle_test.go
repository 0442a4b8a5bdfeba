package service

import (
	"testing"
	"time"

	"quizzku_backend/internal/model"
)

func shuffleFixture(n int) []model.Question {
	questions := make([]model.Question, 0, n)
	for i := 1; i <= n; i++ {
		q := multiQuestion(uint(i))
		questions = append(questions, q)
	}
	return questions
}

func questionOrder(items []QuizItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.Question.ID)
	}
	return ids
}

func sameOrder(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestShuffleQuizDeterministic(t *testing.T) {
	seed := ShuffleSeed{
		Date:      time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		LearnerID: 7,
		LessonID:  42,
		AttemptNo: 2,
	}
	questions := shuffleFixture(8)

	first, _ := ShuffleQuiz(seed, questions)
	second, _ := ShuffleQuiz(seed, questions)

	if !sameOrder(questionOrder(first), questionOrder(second)) {
		t.Fatal("same seed produced different question order")
	}
	for i := range first {
		for j := range first[i].Choices {
			if first[i].Choices[j].ID != second[i].Choices[j].ID {
				t.Fatalf("same seed produced different choice order in item %d", i)
			}
		}
	}

	// 同一天内的不同时刻不影响顺序
	later := seed
	later.Date = seed.Date.Add(5 * time.Hour)
	third, _ := ShuffleQuiz(later, questions)
	if !sameOrder(questionOrder(first), questionOrder(third)) {
		t.Fatal("time of day changed the order within the same date")
	}
}

func TestShuffleQuizSeedSensitivity(t *testing.T) {
	base := ShuffleSeed{
		Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		LearnerID: 7,
		LessonID:  42,
		AttemptNo: 1,
	}
	questions := shuffleFixture(10)
	baseOrder := questionOrder(mustItems(ShuffleQuiz(base, questions)))

	variants := map[string]ShuffleSeed{
		"different learner": {Date: base.Date, LearnerID: 8, LessonID: 42, AttemptNo: 1},
		"different lesson":  {Date: base.Date, LearnerID: 7, LessonID: 43, AttemptNo: 1},
		"different attempt": {Date: base.Date, LearnerID: 7, LessonID: 42, AttemptNo: 2},
		"different date":    {Date: base.Date.AddDate(0, 0, 1), LearnerID: 7, LessonID: 42, AttemptNo: 1},
	}

	// 10 道题共 10! 种排列，不同种子撞出同一顺序的概率可以忽略
	for name, seed := range variants {
		t.Run(name, func(t *testing.T) {
			order := questionOrder(mustItems(ShuffleQuiz(seed, questions)))
			if sameOrder(baseOrder, order) {
				t.Errorf("seed variant %q produced the same order as the base seed", name)
			}
		})
	}
}

func mustItems(items []QuizItem, _ map[uint]bool) []QuizItem {
	return items
}

func TestShuffleQuizBinaryChoicesStable(t *testing.T) {
	tf := model.Question{
		Grade: 100,
		Choices: []model.Choice{
			choice(101, 10, true),
			choice(102, 10, false),
		},
	}
	tf.ID = 10
	questions := append(shuffleFixture(5), tf)

	seed := ShuffleSeed{
		Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		LearnerID: 1,
		LessonID:  1,
		AttemptNo: 1,
	}

	items, isBinary := ShuffleQuiz(seed, questions)

	if !isBinary[tf.ID] {
		t.Error("two-choice question not flagged binary")
	}
	for id, binary := range isBinary {
		if id != tf.ID && binary {
			t.Errorf("question %d wrongly flagged binary", id)
		}
	}

	for _, it := range items {
		if it.Question.ID != tf.ID {
			continue
		}
		if it.Choices[0].ID != 101 || it.Choices[1].ID != 102 {
			t.Error("binary question choices were reordered")
		}
	}
}

func TestShuffleQuizDoesNotMutateInput(t *testing.T) {
	questions := shuffleFixture(6)
	originalIDs := make([]uint, len(questions))
	for i, q := range questions {
		originalIDs[i] = q.ID
	}

	seed := ShuffleSeed{Date: time.Now(), LearnerID: 3, LessonID: 9, AttemptNo: 1}
	ShuffleQuiz(seed, questions)

	for i, q := range questions {
		if q.ID != originalIDs[i] {
			t.Fatalf("input slice mutated at index %d", i)
		}
	}
}
