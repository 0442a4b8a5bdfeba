package repository

import (
	"quizzku_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

// FindByTitleAndCourse resolves a lesson the way quiz URLs address it: by
// course plus lesson title. Questions and their choices come preloaded.
func (r *LessonRepository) FindByTitleAndCourse(title string, courseID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Questions.Choices").
		Where("title = ? AND course_id = ?", title, courseID).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Questions.Choices").First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Find(&lessons).Error
	return lessons, err
}
