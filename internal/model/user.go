package model

import "time"

type FieldOfInterest string

const (
	InterestIT          FieldOfInterest = "information technology"
	InterestEngineering FieldOfInterest = "engineering, math, and physics"
	InterestLaw         FieldOfInterest = "law and justice"
	InterestHistory     FieldOfInterest = "history and cultural studies"
	InterestSport       FieldOfInterest = "sport and physical education"
	InterestSocial      FieldOfInterest = "social and international studies"
	InterestHealth      FieldOfInterest = "health, medicine, and biological sciences"
	InterestEnvironment FieldOfInterest = "environmental studies and sustainability"
)

type User struct {
	BaseModel
	Email        string     `gorm:"size:100;unique;not null" json:"email"`
	Username     string     `gorm:"size:30;not null" json:"username"`
	Password     string     `gorm:"size:100;not null" json:"-"`
	FullName     string     `gorm:"size:30" json:"fullName"`
	Nickname     string     `gorm:"size:30" json:"nickname"`
	Gender       string     `gorm:"size:10" json:"gender"`
	BirthDate    *time.Time `json:"birthDate"`
	Address      string     `gorm:"size:100" json:"address"`
	PhoneNumber  string     `gorm:"size:16" json:"phoneNumber"`
	Institution  string     `gorm:"size:100" json:"institution"`
	ProfileImage string     `gorm:"size:255" json:"profileImage"`
	IsStaff      bool       `gorm:"default:false" json:"isStaff"`
	IsSuperuser  bool       `gorm:"default:false" json:"isSuperuser"`
	LastLogin    *time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// Learner carries the profile fields that live outside the auth record.
// Created together with the User at registration time.
type Learner struct {
	BaseModel
	UserID          uint            `gorm:"index;not null" json:"userId"`
	FieldOfInterest FieldOfInterest `gorm:"size:50" json:"fieldOfInterest"`
	SocialLink      string          `gorm:"size:200" json:"socialLink"`
	Profession      string          `gorm:"size:50" json:"profession"`
}

func (Learner) TableName() string {
	return "learners"
}
