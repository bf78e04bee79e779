package http

import (
	"go.uber.org/zap"

	"github.com/portfolio-dev/portfolio/internal/profile/service"
)

type Handler struct {
	profiles *service.ProfileService
	log      *zap.Logger
}

func New(profiles *service.ProfileService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{profiles: profiles, log: log}
}

type createContactsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"max=64"`
	Location string `json:"location" binding:"max=200"`
	Github   string `json:"github" binding:"omitempty,url"`
	Linkedin string `json:"linkedin" binding:"omitempty,url"`
}

type updateContactsRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=64"`
	Location *string `json:"location" binding:"omitempty,max=200"`
	Github   *string `json:"github" binding:"omitempty,url"`
	Linkedin *string `json:"linkedin" binding:"omitempty,url"`
}

func (r updateContactsRequest) fields() map[string]any {
	out := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			out[col] = *v
		}
	}
	set("email", r.Email)
	set("phone", r.Phone)
	set("location", r.Location)
	set("github", r.Github)
	set("linkedin", r.Linkedin)
	return out
}

type activateCVRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type createMessageRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=5000"`
}
