package service

import (
	"errors"
	"time"

	"quizzku_backend/internal/model"
	"quizzku_backend/internal/repository"
	"quizzku_backend/internal/util"

	"gorm.io/gorm"
)

// topCourseCount caps the course index at the most-enrolled courses.
const topCourseCount = 10

type CourseService struct {
	Repo        *repository.CourseRepository
	LessonRepo  *repository.LessonRepository
	AttemptRepo *repository.AttemptRepository
}

func NewCourseService(repo *repository.CourseRepository, lessonRepo *repository.LessonRepository, attemptRepo *repository.AttemptRepository) *CourseService {
	return &CourseService{Repo: repo, LessonRepo: lessonRepo, AttemptRepo: attemptRepo}
}

type CourseListItem struct {
	model.Course
	IsEnrolled bool `json:"isEnrolled"`
	AgeDays    int  `json:"ageDays"`
}

// ListCourses returns the course index. learnerID of 0 means an anonymous
// caller; enrollment flags then stay false.
func (s *CourseService) ListCourses(learnerID uint) ([]CourseListItem, error) {
	courses, err := s.Repo.ListTop(topCourseCount)
	if err != nil {
		return nil, err
	}

	items := make([]CourseListItem, 0, len(courses))
	today := time.Now()
	for _, course := range courses {
		item := CourseListItem{Course: course}
		if course.PubDate != nil {
			item.AgeDays = int(today.Sub(*course.PubDate).Hours() / 24)
		}
		if learnerID != 0 {
			enrolled, err := s.Repo.IsEnrolled(learnerID, course.ID)
			if err != nil {
				return nil, err
			}
			item.IsEnrolled = enrolled
		}
		items = append(items, item)
	}
	return items, nil
}

type CourseDetail struct {
	Course *model.Course `json:"course"`

	// LessonAttempts maps lesson ID to the learner's remaining attempts:
	// the last attempt's counter, or the lesson cap when untouched.
	LessonAttempts map[uint]int `json:"lessonAttempts"`
}

func (s *CourseService) GetCourseDetail(learnerID uint, slug string) (*CourseDetail, error) {
	course, err := s.Repo.FindBySlugWithLessons(slug)
	if err != nil {
		return nil, notFoundAs(err, util.ErrCourseNotFound)
	}

	lessonAttempts := make(map[uint]int, len(course.Lessons))
	for i := range course.Lessons {
		lesson := &course.Lessons[i]
		last, err := s.AttemptRepo.FindLast(learnerID, lesson.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			lessonAttempts[lesson.ID] = lesson.AttemptCap()
			continue
		}
		if err != nil {
			return nil, err
		}
		lessonAttempts[lesson.ID] = last.RemainingAttempts
	}

	return &CourseDetail{Course: course, LessonAttempts: lessonAttempts}, nil
}

// Enroll is idempotent: enrolling twice leaves a single honor-mode
// enrollment and a single counter bump.
func (s *CourseService) Enroll(learnerID uint, slug string) (*model.Course, error) {
	course, err := s.Repo.FindBySlug(slug)
	if err != nil {
		return nil, notFoundAs(err, util.ErrCourseNotFound)
	}

	enrolled, err := s.Repo.IsEnrolled(learnerID, course.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return course, nil
	}

	enrollment := &model.Enrollment{
		LearnerID: learnerID,
		CourseID:  course.ID,
		Mode:      model.ModeHonor,
	}
	if err := s.Repo.Enroll(enrollment); err != nil {
		return nil, err
	}
	course.TotalEnrollment++
	return course, nil
}
