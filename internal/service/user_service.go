package service

import (
	"math"

	"quizzku_backend/internal/model"
	"quizzku_backend/internal/repository"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

type Profile struct {
	User                 *model.User    `json:"user"`
	Learner              *model.Learner `json:"learner"`
	EmptyFields          []string       `json:"emptyFields"`
	CompletionPercentage float64        `json:"completionPercentage"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	learner, err := s.Repo.FindLearnerByUserID(userID)
	if err != nil {
		return nil, err
	}

	empty := emptyProfileFields(user, learner)
	return &Profile{
		User:                 user,
		Learner:              learner,
		EmptyFields:          empty,
		CompletionPercentage: completionPercentage(len(empty)),
	}, nil
}

type UpdateProfileRequest struct {
	FullName        *string `json:"fullName"`
	Nickname        *string `json:"nickname"`
	Gender          *string `json:"gender"`
	Address         *string `json:"address"`
	PhoneNumber     *string `json:"phoneNumber"`
	Institution     *string `json:"institution"`
	FieldOfInterest *string `json:"fieldOfInterest"`
	SocialLink      *string `json:"socialLink"`
	Profession      *string `json:"profession"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*Profile, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	learner, err := s.Repo.FindLearnerByUserID(userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Nickname != nil {
		user.Nickname = *req.Nickname
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Institution != nil {
		user.Institution = *req.Institution
	}
	if req.FieldOfInterest != nil {
		learner.FieldOfInterest = model.FieldOfInterest(*req.FieldOfInterest)
	}
	if req.SocialLink != nil {
		learner.SocialLink = *req.SocialLink
	}
	if req.Profession != nil {
		learner.Profession = *req.Profession
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateLearner(learner); err != nil {
		return nil, err
	}

	return s.GetProfile(userID)
}

// SetProfileImage 更新头像地址并返回被替换的旧地址，供调用方回收旧文件。
func (s *UserService) SetProfileImage(userID uint, imageURL string) (string, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return "", err
	}
	previous := user.ProfileImage
	user.ProfileImage = imageURL
	if err := s.Repo.Update(user); err != nil {
		return "", err
	}
	return previous, nil
}

// trackedProfileFields is the number of profile fields that count toward the
// completion percentage: eight on the user record plus the learner's social
// link and profession.
const trackedProfileFields = 10

func emptyProfileFields(user *model.User, learner *model.Learner) []string {
	var empty []string

	if user.ProfileImage == "" {
		empty = append(empty, "profile_image")
	}
	if user.FullName == "" {
		empty = append(empty, "full_name")
	}
	if user.Nickname == "" {
		empty = append(empty, "nickname")
	}
	if user.Gender == "" {
		empty = append(empty, "gender")
	}
	if user.BirthDate == nil {
		empty = append(empty, "birth_date")
	}
	if user.Address == "" {
		empty = append(empty, "address")
	}
	if user.PhoneNumber == "" {
		empty = append(empty, "phone_number")
	}
	if user.Institution == "" {
		empty = append(empty, "institution")
	}
	if learner.SocialLink == "" {
		empty = append(empty, "social_link")
	}
	if learner.Profession == "" {
		empty = append(empty, "profession")
	}

	return empty
}

func completionPercentage(emptyCount int) float64 {
	filled := trackedProfileFields - emptyCount
	completion := float64(filled) / float64(trackedProfileFields) * 100
	return math.Round(completion*100) / 100
}
