package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	domain "user-directory-api/internal/domain/user"
)

var exportHeader = []string{
	"First Name", "Last Name", "Email Address", "Phone", "Gender", "Status", "Location",
}

// ExportAll renders every user, newest first, as CSV held in memory.
func (us *UserService) ExportAll(ctx context.Context) ([]byte, error) {
	users, err := guarded(ctx, us.store, "find_all", func(ctx context.Context) (domain.Users, error) {
		return us.userRepository.FindAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrNoUsers
	}

	out, err := encodeCSV(users)
	if err != nil {
		return nil, fmt.Errorf("encode users csv: %w", err)
	}

	us.metrics.Inc("users_exported_total")

	return out, nil
}

func encodeCSV(users domain.Users) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, u := range users {
		if err := w.Write([]string{
			u.FirstName, u.LastName, u.Email, u.Mobile, u.Gender, string(u.Status), u.Location,
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
