package service

import (
	"math"
	"testing"

	"quizzku_backend/internal/model"
)

func choice(id, questionID uint, correct bool) model.Choice {
	c := model.Choice{QuestionID: questionID, IsCorrect: correct}
	c.ID = id
	return c
}

// 四选二的多选题，满分 100，每个选项 25 分
func multiQuestion(id uint) model.Question {
	q := model.Question{
		Grade:                100,
		ExpectMultipleAnswer: true,
		Choices: []model.Choice{
			choice(id*10+1, id, true),
			choice(id*10+2, id, true),
			choice(id*10+3, id, false),
			choice(id*10+4, id, false),
		},
	}
	q.ID = id
	return q
}

func singleQuestion(id uint) model.Question {
	q := model.Question{
		Grade: 100,
		Choices: []model.Choice{
			choice(id*10+1, id, true),
			choice(id*10+2, id, false),
			choice(id*10+3, id, false),
		},
	}
	q.ID = id
	return q
}

func TestCalculateGradeSingleAnswer(t *testing.T) {
	q := singleQuestion(1)

	testCases := []struct {
		name     string
		selected []model.Choice
		want     float64
	}{
		{"correct choice", []model.Choice{q.Choices[0]}, 100},
		{"wrong choice", []model.Choice{q.Choices[1]}, 0},
		{"correct plus wrong", []model.Choice{q.Choices[0], q.Choices[1]}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			total, perQuestion := CalculateGrade([]model.Question{q}, tc.selected)
			if total != tc.want {
				t.Errorf("total = %v, want %v", total, tc.want)
			}
			if got := perQuestion[q.ID]; got != tc.want/100 {
				t.Errorf("perQuestion[%d] = %v, want %v", q.ID, got, tc.want/100)
			}
		})
	}
}

func TestCalculateGradeMultiAnswer(t *testing.T) {
	q := multiQuestion(1)
	a, b, c := q.Choices[0], q.Choices[1], q.Choices[2]

	// 第二道题保证提交不落入"全空"短路分支
	other := singleQuestion(2)
	otherPick := other.Choices[0]

	testCases := []struct {
		name     string
		selected []model.Choice
		want     float64
	}{
		// 未作答的多选题保底 50
		{"untouched", nil, 50},
		// 两个正确选项全中
		{"exact match", []model.Choice{a, b}, 100},
		// 少选：50 + 1*25
		{"one correct only", []model.Choice{a}, 75},
		// 多选：50 + 2*25 - 1*25
		{"two correct one wrong", []model.Choice{a, b, c}, 75},
		// 数量相同但集合不同：100 - 1*25
		{"one correct one wrong", []model.Choice{a, c}, 75},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			selected := append([]model.Choice{otherPick}, tc.selected...)
			total, perQuestion := CalculateGrade([]model.Question{q, other}, selected)

			if got := perQuestion[q.ID]; got != tc.want/100 {
				t.Errorf("perQuestion[%d] = %v, want %v", q.ID, got, tc.want/100)
			}
			// other 题答对得 100，总分是两题平均
			wantTotal := (tc.want + 100) / 2
			if total != wantTotal {
				t.Errorf("total = %v, want %v", total, wantTotal)
			}
		})
	}
}

func TestCalculateGradeAllEmpty(t *testing.T) {
	multi := multiQuestion(1)
	single := singleQuestion(2)

	total, perQuestion := CalculateGrade([]model.Question{multi, single}, nil)

	// 全空提交：多选题一律记 50，单选题记 0
	if got := perQuestion[multi.ID]; got != 0.5 {
		t.Errorf("multi perQuestion = %v, want 0.5", got)
	}
	if got := perQuestion[single.ID]; got != 0 {
		t.Errorf("single perQuestion = %v, want 0", got)
	}
	if total != 25 {
		t.Errorf("total = %v, want 25", total)
	}
}

func TestCalculateGradeNoQuestions(t *testing.T) {
	total, perQuestion := CalculateGrade(nil, nil)
	if total != 0 {
		t.Errorf("total = %v, want 0", total)
	}
	if len(perQuestion) != 0 {
		t.Errorf("perQuestion has %d entries, want 0", len(perQuestion))
	}
}

func TestCalculateGradeIdempotent(t *testing.T) {
	q := multiQuestion(1)
	other := singleQuestion(2)
	selected := []model.Choice{q.Choices[0], q.Choices[2], other.Choices[0]}

	first, firstPer := CalculateGrade([]model.Question{q, other}, selected)
	second, secondPer := CalculateGrade([]model.Question{q, other}, selected)

	if math.Abs(first-second) > 0 {
		t.Errorf("grades differ across runs: %v vs %v", first, second)
	}
	for id, g := range firstPer {
		if secondPer[id] != g {
			t.Errorf("perQuestion[%d] differs: %v vs %v", id, g, secondPer[id])
		}
	}
}
