package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		ID        uuid.UUID
		FirstName string
		LastName  string
		Email     string
		Mobile    string
		Gender    string
		Status    string
		Location  string
		Profile   string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User
)

func (u *User) scanDest() []any {
	return []any{
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Mobile,
		&u.Gender,
		&u.Status,
		&u.Location,
		&u.Profile,

		&u.CreatedAt,
		&u.UpdatedAt,
	}
}
