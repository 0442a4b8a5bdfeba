package repository

import (
	"quizzku_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// ListTop returns the most-enrolled courses, newest enrollments first.
func (r *CourseRepository) ListTop(limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("total_enrollment desc").Limit(limit).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("slug_name = ?", slug).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindBySlugWithLessons(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Lessons").Where("slug_name = ?", slug).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) IsEnrolled(learnerID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Count(&count).Error
	return count > 0, err
}

// Enroll creates an enrollment and bumps the course counter in one transaction.
func (r *CourseRepository) Enroll(enrollment *model.Enrollment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enrollment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Course{}).
			Where("id = ?", enrollment.CourseID).
			Update("total_enrollment", gorm.Expr("total_enrollment + 1")).Error
	})
}
