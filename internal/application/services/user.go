package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"user-directory-api/internal/application/ports"
	domain "user-directory-api/internal/domain/user"
	"user-directory-api/internal/infrastructure/metrics"
	"user-directory-api/internal/infrastructure/mq"
	"user-directory-api/internal/interface/api/rest/dto/user"
	"user-directory-api/pkg/userschema"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type UserService struct {
	userRepository domain.Repository
	schema         *userschema.Schema
	mq             ports.EventPublisher
	metrics        *metrics.Metrics
	store          storeGuard
}

func NewUserService(
	userRepository domain.Repository,
	schema *userschema.Schema,
	mq ports.EventPublisher,
	m *metrics.Metrics,
	storeTimeout time.Duration,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		schema:         schema,
		mq:             mq,
		metrics:        m,
		store:          storeGuard{timeout: storeTimeout, metrics: m},
	}
}

func (us *UserService) List(ctx context.Context, search string, page, limit int) (*domain.Page, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	filter := domain.ListFilter{Search: strings.TrimSpace(search)}

	// a page past the addressable range holds nothing; only the total is needed
	fetch := func(ctx context.Context) (domain.Users, int64, error) {
		if page-1 > math.MaxInt/limit {
			_, total, err := us.userRepository.FindPage(ctx, filter, 0, 1)
			return domain.Users{}, total, err
		}
		return us.userRepository.FindPage(ctx, filter, (page-1)*limit, limit)
	}

	type result struct {
		users domain.Users
		total int64
	}
	res, err := guarded(ctx, us.store, "find_page", func(ctx context.Context) (result, error) {
		users, total, err := fetch(ctx)
		return result{users: users, total: total}, err
	})
	if err != nil {
		return nil, err
	}

	return &domain.Page{
		Users: res.users,
		Pagination: domain.Pagination{
			TotalItems:  res.total,
			TotalPages:  int((res.total + int64(limit) - 1) / int64(limit)),
			CurrentPage: page,
			Limit:       limit,
		},
	}, nil
}

func totalPages(total int64, limit int) int {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

func (us *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}

	return guarded(ctx, us.store, "find_by_id", func(ctx context.Context) (*domain.User, error) {
		return us.userRepository.FindByID(ctx, uid)
	})
}

func (us *UserService) Create(ctx context.Context, p userschema.Payload) (*domain.User, error) {
	v, err := us.schema.Validate(p)
	if err != nil {
		return nil, err
	}
	f := toFields(v)

	if err = us.ensureEmailFree(ctx, f.Email, nil); err != nil {
		return nil, err
	}

	// the unique index stays authoritative when two creates race past the check
	u, err := guarded(ctx, us.store, "insert", func(ctx context.Context) (*domain.User, error) {
		return us.userRepository.Insert(ctx, f)
	})
	if err != nil {
		return nil, err
	}

	us.publish(http.MethodPost, u)
	us.metrics.Inc("user_created_total")

	return u, nil
}

func (us *UserService) Update(ctx context.Context, id string, p userschema.Payload) (*domain.User, error) {
	uid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	v, err := us.schema.Validate(p)
	if err != nil {
		return nil, err
	}
	f := toFields(v)

	existing, err := guarded(ctx, us.store, "find_by_id", func(ctx context.Context) (*domain.User, error) {
		return us.userRepository.FindByID(ctx, uid)
	})
	if err != nil {
		return nil, err
	}
	if existing.Email != f.Email {
		if err = us.ensureEmailFree(ctx, f.Email, &uid); err != nil {
			return nil, err
		}
	}

	u, err := guarded(ctx, us.store, "update", func(ctx context.Context) (*domain.User, error) {
		return us.userRepository.UpdateByID(ctx, uid, domain.PatchFrom(f, v.Profile))
	})
	if err != nil {
		return nil, err
	}

	us.publish(http.MethodPut, u)
	us.metrics.Inc("user_updated_total")

	return u, nil
}

// UpdateStatus always writes, so updatedAt moves even when the status is unchanged.
func (us *UserService) UpdateStatus(ctx context.Context, id, status string) (*domain.User, error) {
	uid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	s := domain.Status(status)
	if !s.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	u, err := guarded(ctx, us.store, "update_status", func(ctx context.Context) (*domain.User, error) {
		return us.userRepository.UpdateByID(ctx, uid, domain.Patch{Status: &s})
	})
	if err != nil {
		return nil, err
	}

	us.publish(http.MethodPatch, u)
	us.metrics.Inc("user_status_changed_total")

	return u, nil
}

// Delete returns the removed record so callers can report its display name.
func (us *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	uid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}

	u, err := guarded(ctx, us.store, "delete", func(ctx context.Context) (*domain.User, error) {
		return us.userRepository.DeleteByID(ctx, uid)
	})
	if err != nil {
		return nil, err
	}

	us.publish(http.MethodDelete, u)
	us.metrics.Inc("user_deleted_total")

	return u, nil
}

// ensureEmailFree reports ErrEmailAlreadyExists when email belongs to a record
// other than self.
func (us *UserService) ensureEmailFree(ctx context.Context, email string, self *domain.ID) error {
	owner, err := guarded(ctx, us.store, "find_by_email", func(ctx context.Context) (*domain.User, error) {
		return us.userRepository.FindByEmail(ctx, email)
	})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case self != nil && owner.ID == *self:
		return nil
	default:
		return domain.ErrEmailAlreadyExists
	}
}

func (us *UserService) publish(method string, u *domain.User) {
	us.mq.Publish(newUserEvent(method, u))
}

func newUserEvent(method string, u *domain.User) mq.Event {
	return mq.NewEvent(method, user.ToResponseUser(*u))
}

func toFields(p userschema.Payload) domain.Fields {
	f := domain.Fields{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Mobile:    p.Mobile,
		Gender:    p.Gender,
		Status:    domain.Status(p.Status),
		Location:  p.Location,
	}
	if p.Profile != nil {
		f.Profile = *p.Profile
	}
	return f
}
