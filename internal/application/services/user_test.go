package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "user-directory-api/internal/domain/user"
	"user-directory-api/internal/infrastructure/metrics"
	"user-directory-api/pkg/userschema"
)

func newService(repo domain.Repository, timeout time.Duration) (*UserService, *recordingPublisher, *metrics.Metrics) {
	pub := &recordingPublisher{}
	m := metrics.New(prometheus.NewRegistry())
	svc := NewUserService(repo, userschema.New(), pub, m, timeout).(*UserService)
	return svc, pub, m
}

func validPayload() userschema.Payload {
	return userschema.Payload{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Mobile:    "1234567890",
		Gender:    "female",
		Status:    "active",
		Location:  "NY",
	}
}

func storedUser(id domain.ID, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID: id, FirstName: "Ann", LastName: "Lee", Email: email, Mobile: "1234567890",
		Gender: "female", Status: domain.StatusActive, Location: "NY", CreatedAt: now, UpdatedAt: now,
	}
}

func TestUserService_List_Pagination(t *testing.T) {
	tests := []struct {
		name          string
		page, limit   int
		total         int64
		wantSkip      int
		wantLimit     int
		wantPage      int
		wantPageCount int
		fetchLimit    int
	}{
		{name: "defaults", page: 0, limit: 0, total: 0, wantSkip: 0, wantLimit: 10, wantPage: 1, wantPageCount: 0},
		{name: "negative falls back", page: -2, limit: -5, total: 10, wantSkip: 0, wantLimit: 10, wantPage: 1, wantPageCount: 1},
		{name: "third page of five", page: 3, limit: 5, total: 11, wantSkip: 10, wantLimit: 5, wantPage: 3, wantPageCount: 3},
		{name: "exact multiple", page: 2, limit: 5, total: 10, wantSkip: 5, wantLimit: 5, wantPage: 2, wantPageCount: 2},
		{name: "page past the end", page: 9, limit: 10, total: 3, wantSkip: 80, wantLimit: 10, wantPage: 9, wantPageCount: 1},
		{name: "huge limit", page: 1, limit: math.MaxInt, total: 25, wantSkip: 0, wantLimit: math.MaxInt, wantPage: 1, wantPageCount: 1},
		{name: "huge page counts only", page: math.MaxInt / 5, limit: 10, total: 25, wantSkip: 0, wantLimit: 10, wantPage: math.MaxInt / 5, wantPageCount: 3, fetchLimit: 1},
		{name: "max page and limit", page: math.MaxInt, limit: math.MaxInt, total: 7, wantSkip: 0, wantLimit: math.MaxInt, wantPage: math.MaxInt, wantPageCount: 1, fetchLimit: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotSkip, gotLimit int
			repo := &FakeRepository{
				FindPageFunc: func(_ context.Context, _ domain.ListFilter, skip, limit int) (domain.Users, int64, error) {
					gotSkip, gotLimit = skip, limit
					return domain.Users{}, tt.total, nil
				},
			}
			svc, _, _ := newService(repo, time.Second)

			page, err := svc.List(context.Background(), "", tt.page, tt.limit)
			require.NoError(t, err)

			fetchLimit := tt.fetchLimit
			if fetchLimit == 0 {
				fetchLimit = tt.wantLimit
			}
			assert.Equal(t, tt.wantSkip, gotSkip)
			assert.Equal(t, fetchLimit, gotLimit)
			assert.Empty(t, page.Users)
			assert.Equal(t, domain.Pagination{
				TotalItems:  tt.total,
				TotalPages:  tt.wantPageCount,
				CurrentPage: tt.wantPage,
				Limit:       tt.wantLimit,
			}, page.Pagination)
		})
	}
}

func TestUserService_List_PassesTrimmedSearch(t *testing.T) {
	var got domain.ListFilter
	repo := &FakeRepository{
		FindPageFunc: func(_ context.Context, f domain.ListFilter, _, _ int) (domain.Users, int64, error) {
			got = f
			return domain.Users{storedUser(uuid.New(), "ann@x.com")}, 1, nil
		},
	}
	svc, _, _ := newService(repo, time.Second)

	page, err := svc.List(context.Background(), "  ann  ", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Search)
	assert.Len(t, page.Users, 1)
}

func TestUserService_List_StoreTimeout(t *testing.T) {
	repo := &FakeRepository{
		FindPageFunc: func(ctx context.Context, _ domain.ListFilter, _, _ int) (domain.Users, int64, error) {
			<-ctx.Done()
			return nil, 0, ctx.Err()
		},
	}
	svc, _, _ := newService(repo, 10*time.Millisecond)

	_, err := svc.List(context.Background(), "", 1, 10)
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestUserService_GetByID(t *testing.T) {
	id := uuid.New()
	calls := 0
	repo := &FakeRepository{
		FindByIDFunc: func(_ context.Context, got domain.ID) (*domain.User, error) {
			calls++
			if got != id {
				return nil, domain.ErrNotFound
			}
			return storedUser(id, "ann@x.com"), nil
		},
	}
	svc, _, _ := newService(repo, time.Second)

	_, err := svc.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrInvalidIdentifier)
	assert.Zero(t, calls, "malformed id must not reach the store")

	u, err := svc.GetByID(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = svc.GetByID(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Create(t *testing.T) {
	t.Run("invalid payload never reaches the store", func(t *testing.T) {
		svc, pub, _ := newService(&FakeRepository{}, time.Second)
		p := validPayload()
		p.Mobile = "123"

		_, err := svc.Create(context.Background(), p)

		var ve userschema.ValidationErrors
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "mobile", ve[0].Field)
		assert.Empty(t, pub.methods())
	})

	t.Run("email already taken", func(t *testing.T) {
		repo := &FakeRepository{
			FindByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
				return storedUser(uuid.New(), email), nil
			},
		}
		svc, _, _ := newService(repo, time.Second)

		_, err := svc.Create(context.Background(), validPayload())
		require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("insert race surfaces as conflict", func(t *testing.T) {
		repo := &FakeRepository{
			FindByEmailFunc: func(context.Context, string) (*domain.User, error) { return nil, domain.ErrNotFound },
			InsertFunc: func(context.Context, domain.Fields) (*domain.User, error) {
				return nil, domain.ErrEmailAlreadyExists
			},
		}
		svc, pub, _ := newService(repo, time.Second)

		_, err := svc.Create(context.Background(), validPayload())
		require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		assert.Empty(t, pub.methods())
	})

	t.Run("normalises and publishes", func(t *testing.T) {
		var inserted domain.Fields
		id := uuid.New()
		repo := &FakeRepository{
			FindByEmailFunc: func(context.Context, string) (*domain.User, error) { return nil, domain.ErrNotFound },
			InsertFunc: func(_ context.Context, f domain.Fields) (*domain.User, error) {
				inserted = f
				return storedUser(id, f.Email), nil
			},
		}
		svc, pub, m := newService(repo, time.Second)
		p := validPayload()
		p.Email = "  ANN@X.COM "
		p.FirstName = " Ann "

		u, err := svc.Create(context.Background(), p)
		require.NoError(t, err)

		assert.Equal(t, id, u.ID)
		assert.Equal(t, "ann@x.com", inserted.Email)
		assert.Equal(t, "Ann", inserted.FirstName)
		assert.Equal(t, domain.StatusActive, inserted.Status)
		assert.Equal(t, "", inserted.Profile)
		assert.Equal(t, []string{http.MethodPost}, pub.methods())
		assert.Equal(t, float64(1), testutil.ToFloat64(m.Counter.WithLabelValues("user_created_total")))
	})

	t.Run("store failure passes through", func(t *testing.T) {
		boom := errors.New("boom")
		repo := &FakeRepository{
			FindByEmailFunc: func(context.Context, string) (*domain.User, error) { return nil, boom },
		}
		svc, _, _ := newService(repo, time.Second)

		_, err := svc.Create(context.Background(), validPayload())
		require.ErrorIs(t, err, boom)
	})
}

func TestUserService_Update(t *testing.T) {
	id := uuid.New()

	t.Run("malformed id", func(t *testing.T) {
		svc, _, _ := newService(&FakeRepository{}, time.Second)
		_, err := svc.Update(context.Background(), "42", validPayload())
		require.ErrorIs(t, err, domain.ErrInvalidIdentifier)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := &FakeRepository{
			FindByIDFunc: func(context.Context, domain.ID) (*domain.User, error) { return nil, domain.ErrNotFound },
		}
		svc, _, _ := newService(repo, time.Second)
		_, err := svc.Update(context.Background(), id.String(), validPayload())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("email owned by another user", func(t *testing.T) {
		repo := &FakeRepository{
			FindByIDFunc: func(context.Context, domain.ID) (*domain.User, error) {
				return storedUser(id, "old@x.com"), nil
			},
			FindByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
				return storedUser(uuid.New(), email), nil
			},
		}
		svc, _, _ := newService(repo, time.Second)
		_, err := svc.Update(context.Background(), id.String(), validPayload())
		require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("unchanged email skips the lookup and keeps profile", func(t *testing.T) {
		var patch domain.Patch
		repo := &FakeRepository{
			FindByIDFunc: func(context.Context, domain.ID) (*domain.User, error) {
				return storedUser(id, "ann@x.com"), nil
			},
			UpdateByIDFunc: func(_ context.Context, got domain.ID, p domain.Patch) (*domain.User, error) {
				require.Equal(t, id, got)
				patch = p
				u := storedUser(id, *p.Email)
				u.Location = *p.Location
				return u, nil
			},
		}
		svc, pub, _ := newService(repo, time.Second)
		p := validPayload()
		p.Location = "Boston"

		u, err := svc.Update(context.Background(), id.String(), p)
		require.NoError(t, err)

		assert.Equal(t, "Boston", u.Location)
		assert.Nil(t, patch.Profile)
		require.NotNil(t, patch.Status)
		assert.Equal(t, domain.StatusActive, *patch.Status)
		assert.Equal(t, []string{http.MethodPut}, pub.methods())
	})

	t.Run("supplied profile is written", func(t *testing.T) {
		var patch domain.Patch
		repo := &FakeRepository{
			FindByIDFunc: func(context.Context, domain.ID) (*domain.User, error) {
				return storedUser(id, "ann@x.com"), nil
			},
			UpdateByIDFunc: func(_ context.Context, _ domain.ID, p domain.Patch) (*domain.User, error) {
				patch = p
				return storedUser(id, "ann@x.com"), nil
			},
		}
		svc, _, _ := newService(repo, time.Second)
		p := validPayload()
		profile := "profiles/a.png"
		p.Profile = &profile

		_, err := svc.Update(context.Background(), id.String(), p)
		require.NoError(t, err)
		require.NotNil(t, patch.Profile)
		assert.Equal(t, "profiles/a.png", *patch.Profile)
	})

	t.Run("email moved to own address is allowed", func(t *testing.T) {
		repo := &FakeRepository{
			FindByIDFunc: func(context.Context, domain.ID) (*domain.User, error) {
				return storedUser(id, "old@x.com"), nil
			},
			FindByEmailFunc: func(context.Context, string) (*domain.User, error) {
				return storedUser(id, "ann@x.com"), nil
			},
			UpdateByIDFunc: func(_ context.Context, _ domain.ID, p domain.Patch) (*domain.User, error) {
				return storedUser(id, *p.Email), nil
			},
		}
		svc, _, _ := newService(repo, time.Second)
		u, err := svc.Update(context.Background(), id.String(), validPayload())
		require.NoError(t, err)
		assert.Equal(t, "ann@x.com", u.Email)
	})
}

func TestUserService_UpdateStatus(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		id      string
		status  string
		wantErr error
	}{
		{name: "malformed id", id: "x", status: "active", wantErr: domain.ErrInvalidIdentifier},
		{name: "capitalised status", id: id.String(), status: "Active", wantErr: domain.ErrInvalidStatus},
		{name: "empty status", id: id.String(), status: "", wantErr: domain.ErrInvalidStatus},
		{name: "unknown status", id: id.String(), status: "banned", wantErr: domain.ErrInvalidStatus},
		{name: "deactivate", id: id.String(), status: "inactive"},
		{name: "same status still writes", id: id.String(), status: "active"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			repo := &FakeRepository{
				UpdateByIDFunc: func(_ context.Context, _ domain.ID, p domain.Patch) (*domain.User, error) {
					calls++
					assert.Nil(t, p.Email)
					assert.Nil(t, p.FirstName)
					require.NotNil(t, p.Status)
					u := storedUser(id, "ann@x.com")
					u.Status = *p.Status
					return u, nil
				},
			}
			svc, pub, _ := newService(repo, time.Second)

			u, err := svc.UpdateStatus(context.Background(), tt.id, tt.status)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
			assert.Equal(t, domain.Status(tt.status), u.Status)
			assert.Equal(t, []string{http.MethodPatch}, pub.methods())
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("returns removed record", func(t *testing.T) {
		repo := &FakeRepository{
			DeleteByIDFunc: func(context.Context, domain.ID) (*domain.User, error) {
				return storedUser(id, "ann@x.com"), nil
			},
		}
		svc, pub, _ := newService(repo, time.Second)

		u, err := svc.Delete(context.Background(), id.String())
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", u.DisplayName())
		assert.Equal(t, []string{http.MethodDelete}, pub.methods())
	})

	t.Run("missing", func(t *testing.T) {
		repo := &FakeRepository{
			DeleteByIDFunc: func(context.Context, domain.ID) (*domain.User, error) { return nil, domain.ErrNotFound },
		}
		svc, pub, _ := newService(repo, time.Second)

		_, err := svc.Delete(context.Background(), id.String())
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, pub.methods())
	})
}
