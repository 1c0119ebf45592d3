package user

import (
	"time"

	"github.com/google/uuid"

	"user-directory-api/pkg/userschema"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type (
	User struct {
		ID        uuid.UUID `json:"id"`
		FirstName string    `json:"firstName"`
		LastName  string    `json:"lastName"`
		Email     string    `json:"email"`
		Mobile    string    `json:"mobile"`
		Gender    string    `json:"gender"`
		Status    string    `json:"status"`
		Location  string    `json:"location"`
		Profile    string    `json:"profile"`
		ProfileURL string    `json:"profileUrl,omitempty"`
		CreatedAt  time.Time `json:"createdAt"`
		UpdatedAt  time.Time `json:"updatedAt"`
	}
	Users []User

	Pagination struct {
		TotalItems  int64 `json:"totalItems"`
		TotalPages  int   `json:"totalPages"`
		CurrentPage int   `json:"currentPage"`
		Limit       int   `json:"limit"`
	}

	ResponseData struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
		Data    *User  `json:"data,omitempty"`
	}
	ListResponse struct {
		Status     string     `json:"status"`
		Count      int        `json:"count"`
		Pagination Pagination `json:"pagination"`
		Data       Users      `json:"data"`
	}
	ErrorResponse struct {
		Status  string                  `json:"status"`
		Message string                  `json:"message"`
		Code    string                  `json:"code,omitempty"`
		Errors  []userschema.FieldError `json:"errors,omitempty"`
	}

	StatusRequest struct {
		Status string `json:"status"`
	}
)
