package service

import (
	"quizzku_backend/internal/model"
)

// CalculateGrade computes the aggregate quiz grade and the per-question grade
// map for one set of selected choices. It is a pure function: safe to re-run
// on every choice-set mutation and on the result page, always yielding the
// same output for the same input.
//
// Multi-answer questions earn partial credit: an untouched question keeps a
// 50% abstention floor, each correct pick adds grade/choiceCount points, and
// each stray pick subtracts the same amount. Single-answer questions are all
// or nothing against the exact correct-choice set.
func CalculateGrade(questions []model.Question, selected []model.Choice) (float64, map[uint]float64) {
	totalGrade := 0.0
	gradePerQuestion := make(map[uint]float64, len(questions))

	selectedByQuestion := make(map[uint][]model.Choice)
	for _, c := range selected {
		selectedByQuestion[c.QuestionID] = append(selectedByQuestion[c.QuestionID], c)
	}

	// A submission that touched nothing short-circuits the per-question
	// formula: flat 50 per multi-answer question, 0 per single-answer.
	allEmpty := true
	for _, q := range questions {
		if len(selectedByQuestion[q.ID]) > 0 {
			allEmpty = false
			break
		}
	}

	if allEmpty {
		for _, q := range questions {
			grade := 0.0
			if q.ExpectMultipleAnswer {
				grade = 50.0
			}
			gradePerQuestion[q.ID] = grade / 100
			totalGrade += grade
		}
		return totalGrade / float64(maxInt(len(questions), 1)), gradePerQuestion
	}

	for i := range questions {
		q := &questions[i]
		grade := float64(q.Grade)

		selectedChoices := selectedByQuestion[q.ID]
		correctChoices := q.CorrectChoices()
		userCorrectChoices := filterCorrect(selectedChoices)

		if q.ExpectMultipleAnswer {
			const scoreIfEmpty = 50.0
			pointPerChoice := grade / float64(maxInt(len(q.Choices), 1))
			incorrectChoices := absInt(len(selectedChoices) - len(userCorrectChoices))

			switch {
			case len(selectedChoices) == 0:
				grade = scoreIfEmpty
			case len(selectedChoices) == len(correctChoices):
				if !sameChoiceSet(selectedChoices, correctChoices) {
					grade -= float64(incorrectChoices) * pointPerChoice
				}
			case len(selectedChoices) < len(correctChoices):
				grade = scoreIfEmpty + float64(len(userCorrectChoices))*pointPerChoice
			default:
				grade = scoreIfEmpty + float64(len(userCorrectChoices))*pointPerChoice - float64(incorrectChoices)*pointPerChoice
			}
		} else {
			if !sameChoiceSet(correctChoices, selectedChoices) {
				grade = 0
			}
		}

		gradePerQuestion[q.ID] = grade / 100
		totalGrade += grade
	}

	return totalGrade / float64(maxInt(len(questions), 1)), gradePerQuestion
}

func filterCorrect(choices []model.Choice) []model.Choice {
	correct := make([]model.Choice, 0, len(choices))
	for _, c := range choices {
		if c.IsCorrect {
			correct = append(correct, c)
		}
	}
	return correct
}

func sameChoiceSet(a, b []model.Choice) bool {
	if len(a) != len(b) {
		return false
	}
	ids := make(map[uint]bool, len(a))
	for _, c := range a {
		ids[c.ID] = true
	}
	for _, c := range b {
		if !ids[c.ID] {
			return false
		}
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
