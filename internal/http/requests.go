package http

import (
	"strings"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

func (r *signupRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// postRequest is shared by create and update; content is required on both.
type postRequest struct {
	Content string  `json:"content" validate:"required,max=1000"`
	Image   *string `json:"image"`
}

func (r *postRequest) normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

func (r *commentRequest) normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type profileRequest struct {
	Name           *string `json:"name" validate:"omitnil,notblank,min=2,max=50"`
	Bio            *string `json:"bio" validate:"omitnil,max=500"`
	Location       *string `json:"location" validate:"omitnil,max=100"`
	Website        *string `json:"website" validate:"omitnil,max=200"`
	ProfilePicture *string `json:"profilePicture"`
}

func (r *profileRequest) normalize() {
	trimPtr(r.Name)
	trimPtr(r.Bio)
	trimPtr(r.Location)
	trimPtr(r.Website)
}

func (r *profileRequest) update() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:           r.Name,
		Bio:            r.Bio,
		Location:       r.Location,
		Website:        r.Website,
		ProfilePicture: r.ProfilePicture,
	}
}
