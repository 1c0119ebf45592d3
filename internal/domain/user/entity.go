package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type (
	ID     = uuid.UUID
	Status string
	User   struct {
		ID        ID
		FirstName string
		LastName  string
		Email     string
		Mobile    string
		Gender    string
		Status    Status
		Location  string
		Profile   string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User

	// Fields is what a caller supplies on insert; id and timestamps belong to the store.
	Fields struct {
		FirstName string
		LastName  string
		Email     string
		Mobile    string
		Gender    string
		Status    Status
		Location  string
		Profile   string
	}

	// Patch carries only the fields to change; nil means keep the stored value.
	Patch struct {
		FirstName *string
		LastName  *string
		Email     *string
		Mobile    *string
		Gender    *string
		Status    *Status
		Location  *string
		Profile   *string
	}

	ListFilter struct {
		Search string
	}

	Pagination struct {
		TotalItems  int64
		TotalPages  int
		CurrentPage int
		Limit       int
	}
	Page struct {
		Users      Users
		Pagination Pagination
	}
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

func ParseID(s string) (ID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, ErrInvalidIdentifier
	}
	return id, nil
}

func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PatchFrom turns a full field set into a patch that overwrites every field
// except profile, which is only overwritten when profile is non-nil.
func PatchFrom(f Fields, profile *string) Patch {
	return Patch{
		FirstName: &f.FirstName,
		LastName:  &f.LastName,
		Email:     &f.Email,
		Mobile:    &f.Mobile,
		Gender:    &f.Gender,
		Status:    &f.Status,
		Location:  &f.Location,
		Profile:   profile,
	}
}
