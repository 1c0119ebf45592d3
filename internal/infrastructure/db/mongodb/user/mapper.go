package user

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	domain "user-directory-api/internal/domain/user"
)

func fromDocument(d *document) (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		ID:        id,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Mobile:    d.Mobile,
		Gender:    d.Gender,
		Status:    domain.Status(d.Status),
		Location:  d.Location,
		Profile:   d.Profile,

		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func fromDocuments(ds documents) (domain.Users, error) {
	us := make(domain.Users, len(ds))
	for idx, d := range ds {
		u, err := fromDocument(d)
		if err != nil {
			return nil, err
		}
		us[idx] = u
	}

	return us, nil
}

// patchSet builds the $set body for a patch; updated_at is always refreshed.
func patchSet(p domain.Patch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("first_name", p.FirstName)
	put("last_name", p.LastName)
	put("email", p.Email)
	put("mobile", p.Mobile)
	put("gender", p.Gender)
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	put("location", p.Location)
	put("profile", p.Profile)

	return set
}
