package models

import (
	"slices"
	"strings"
	"time"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceProfessional ExperienceLevel = "professional"
)

// User is a developer profile. Password is opaque and never serialized.
type User struct {
	ID                uint            `json:"id" gorm:"primaryKey" bson:"_id"`
	Username          string          `json:"username" gorm:"uniqueIndex;size:64;not null" bson:"username"`
	Email             string          `json:"email" gorm:"uniqueIndex;size:255;not null" bson:"email"`
	Password          string          `json:"-" gorm:"not null" bson:"password"`
	FirstName         string          `json:"firstName" bson:"firstName"`
	LastName          string          `json:"lastName" bson:"lastName"`
	Title             string          `json:"title" bson:"title"`
	Bio               *string         `json:"bio,omitempty" gorm:"type:text" bson:"bio,omitempty"`
	ExperienceLevel   ExperienceLevel `json:"experienceLevel" gorm:"type:varchar(20);index" bson:"experienceLevel"`
	Skills            []string        `json:"skills" gorm:"serializer:json" bson:"skills"`
	ProfileImage      *string         `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	IsOnline          bool            `json:"isOnline" bson:"isOnline"`
	OpenToCollaborate bool            `json:"openToCollaborate" bson:"openToCollaborate"`
	LastSeen          *time.Time      `json:"lastSeen,omitempty" bson:"lastSeen,omitempty"`
	CreatedAt         time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// UserUpdate is a partial profile edit. Nil fields are left untouched.
type UserUpdate struct {
	Username          *string          `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	Email             *string          `json:"email,omitempty" validate:"omitempty,email"`
	Password          *string          `json:"password,omitempty" validate:"omitempty,min=6"`
	FirstName         *string          `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName          *string          `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Title             *string          `json:"title,omitempty" validate:"omitempty,max=120"`
	Bio               *string          `json:"bio,omitempty" validate:"omitempty,max=2000"`
	ExperienceLevel   *ExperienceLevel `json:"experienceLevel,omitempty" validate:"omitempty,oneof=beginner intermediate professional"`
	Skills            []string         `json:"skills,omitempty" validate:"omitempty,dive,min=1,max=50"`
	ProfileImage      *string          `json:"profileImage,omitempty" validate:"omitempty,uri"`
	OpenToCollaborate *bool            `json:"openToCollaborate,omitempty"`
}

// IsEmpty reports whether the update carries no changes.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil && u.FirstName == nil &&
		u.LastName == nil && u.Title == nil && u.Bio == nil && u.ExperienceLevel == nil &&
		u.Skills == nil && u.ProfileImage == nil && u.OpenToCollaborate == nil
}

// Apply copies the set fields of u onto user and bumps UpdatedAt.
func (u UserUpdate) Apply(user *User, now time.Time) {
	if u.Username != nil {
		user.Username = *u.Username
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Password != nil {
		user.Password = *u.Password
	}
	if u.FirstName != nil {
		user.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		user.LastName = *u.LastName
	}
	if u.Title != nil {
		user.Title = *u.Title
	}
	if u.Bio != nil {
		bio := *u.Bio
		user.Bio = &bio
	}
	if u.ExperienceLevel != nil {
		user.ExperienceLevel = *u.ExperienceLevel
	}
	if u.Skills != nil {
		user.Skills = slices.Clone(u.Skills)
	}
	if u.ProfileImage != nil {
		img := *u.ProfileImage
		user.ProfileImage = &img
	}
	if u.OpenToCollaborate != nil {
		user.OpenToCollaborate = *u.OpenToCollaborate
	}
	user.UpdatedAt = now
}

// UserSearch holds the network page filters. The boolean filters only ever narrow to true.
type UserSearch struct {
	Query             string
	ExperienceLevels  []ExperienceLevel
	Skills            []string
	OpenToCollaborate bool
	IsOnline          bool
}

// IsEmpty reports whether no criteria were given.
func (s UserSearch) IsEmpty() bool {
	return s.Query == "" && len(s.ExperienceLevels) == 0 && len(s.Skills) == 0 &&
		!s.OpenToCollaborate && !s.IsOnline
}

// Matches reports whether user satisfies every given criterion.
func (s UserSearch) Matches(user *User) bool {
	if s.Query != "" {
		q := strings.ToLower(s.Query)
		found := containsFold(user.FirstName, q) ||
			containsFold(user.LastName, q) ||
			containsFold(user.Title, q) ||
			(user.Bio != nil && containsFold(*user.Bio, q)) ||
			slices.ContainsFunc(user.Skills, func(skill string) bool { return containsFold(skill, q) })
		if !found {
			return false
		}
	}

	if len(s.ExperienceLevels) > 0 && !slices.Contains(s.ExperienceLevels, user.ExperienceLevel) {
		return false
	}

	if len(s.Skills) > 0 {
		matched := slices.ContainsFunc(user.Skills, func(have string) bool {
			return slices.ContainsFunc(s.Skills, func(want string) bool {
				return containsFold(have, strings.ToLower(want))
			})
		})
		if !matched {
			return false
		}
	}

	if s.OpenToCollaborate && !user.OpenToCollaborate {
		return false
	}
	if s.IsOnline && !user.IsOnline {
		return false
	}
	return true
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}
