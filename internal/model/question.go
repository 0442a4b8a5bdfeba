package model

type Question struct {
	BaseModel
	LessonID             uint     `gorm:"index;not null" json:"lessonId"`
	QuestionText         string   `gorm:"size:200" json:"questionText"`
	Grade                int      `gorm:"default:100" json:"grade"`
	ExpectMultipleAnswer bool     `gorm:"default:false" json:"expectMultipleAnswer"`
	Choices              []Choice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoices returns the subset of the question's choices flagged correct.
func (q *Question) CorrectChoices() []Choice {
	correct := make([]Choice, 0, len(q.Choices))
	for _, c := range q.Choices {
		if c.IsCorrect {
			correct = append(correct, c)
		}
	}
	return correct
}

// IsBinary reports whether the question is a two-choice (e.g. True/False)
// question. Binary questions keep their authored choice order.
func (q *Question) IsBinary() bool {
	return len(q.Choices) == 2
}

type Choice struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	ChoiceText string `gorm:"size:200" json:"choiceText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Choice) TableName() string {
	return "choices"
}
