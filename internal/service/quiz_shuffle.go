package service

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"quizzku_backend/internal/model"
)

// ShuffleSeed is the tuple that drives quiz ordering. The same tuple always
// produces the same order, which lets the result page re-derive the layout
// the learner saw without persisting it. Date is part of the key, so an
// attempt viewed across midnight may reorder; that is accepted.
type ShuffleSeed struct {
	Date      time.Time
	LearnerID uint
	LessonID  uint
	AttemptNo int
}

func (s ShuffleSeed) key() string {
	return fmt.Sprintf("%s-%d-%d-%d", s.Date.Format("2006-01-02"), s.LearnerID, s.LessonID, s.AttemptNo)
}

func (s ShuffleSeed) source() rand.Source {
	h := fnv.New64a()
	h.Write([]byte(s.key()))
	return rand.NewSource(int64(h.Sum64()))
}

// QuizItem is one rendered question with its choices in display order.
type QuizItem struct {
	Question model.Question `json:"question"`
	Choices  []model.Choice `json:"choices"`
}

// ShuffleQuiz orders questions pseudo-randomly from the seed, then each
// question's choices. Two-choice questions keep their authored order so
// True/False stays visually stable. Also returns the binary-question flag
// map the render layer needs on both the quiz and the result page.
func ShuffleQuiz(seed ShuffleSeed, questions []model.Question) ([]QuizItem, map[uint]bool) {
	rng := rand.New(seed.source())

	shuffled := make([]model.Question, len(questions))
	copy(shuffled, questions)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	items := make([]QuizItem, 0, len(shuffled))
	for _, q := range shuffled {
		choices := make([]model.Choice, len(q.Choices))
		copy(choices, q.Choices)
		if len(choices) > 2 {
			rng.Shuffle(len(choices), func(i, j int) {
				choices[i], choices[j] = choices[j], choices[i]
			})
		}
		items = append(items, QuizItem{Question: q, Choices: choices})
	}

	isBinary := make(map[uint]bool, len(questions))
	for i := range questions {
		isBinary[questions[i].ID] = questions[i].IsBinary()
	}

	return items, isBinary
}
