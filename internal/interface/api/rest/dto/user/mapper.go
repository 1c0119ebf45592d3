package user

import (
	"user-directory-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	return User{
		ID:        uDomain.ID,
		FirstName: uDomain.FirstName,
		LastName:  uDomain.LastName,
		Email:     uDomain.Email,
		Mobile:    uDomain.Mobile,
		Gender:    uDomain.Gender,
		Status:    string(uDomain.Status),
		Location:  uDomain.Location,
		Profile:   uDomain.Profile,
		CreatedAt: uDomain.CreatedAt,
		UpdatedAt: uDomain.UpdatedAt,
	}
}

func ToResponseUsers(usDomain user.Users) Users {
	us := make(Users, len(usDomain))
	for idx, u := range usDomain {
		us[idx] = ToResponseUser(*u)
	}

	return us
}

func ToResponsePagination(p user.Pagination) Pagination {
	return Pagination{
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
		Limit:       p.Limit,
	}
}

func ToListResponse(page *user.Page) ListResponse {
	data := ToResponseUsers(page.Users)
	return ListResponse{
		Status:     StatusSuccess,
		Count:      len(data),
		Pagination: ToResponsePagination(page.Pagination),
		Data:       data,
	}
}
