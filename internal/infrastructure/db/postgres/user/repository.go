package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"user-directory-api/internal/domain/user"
	"user-directory-api/internal/infrastructure/db/postgres"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) FindPage(ctx context.Context, filter user.ListFilter, skip, limit int) (user.Users, int64, error) {
	pageSQL, countSQL := SelectUsersPage, CountUsers
	var filterArgs []any
	if pattern, ok := searchPattern(filter.Search); ok {
		pageSQL, countSQL = SearchUsersPage, CountSearchUsers
		filterArgs = []any{pattern}
	}

	var (
		us    user.Users
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		us, err = r.query(gctx, pageSQL, append(append([]any{}, filterArgs...), limit, skip)...)
		return err
	})
	g.Go(func() error {
		return r.db.QueryRow(gctx, countSQL, filterArgs...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return us, total, nil
}

func (r *Repository) FindAll(ctx context.Context) (user.Users, error) {
	return r.query(ctx, SelectAllUsers)
}

func (r *Repository) FindByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.queryOne(ctx, SelectUserByID, id.String())
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.queryOne(ctx, SelectUserByEmail, strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repository) Insert(ctx context.Context, f user.Fields) (*user.User, error) {
	return r.queryOne(
		ctx,
		InsertUser,
		f.FirstName, f.LastName, f.Email, f.Mobile, f.Gender, string(f.Status), f.Location, f.Profile,
	)
}

func (r *Repository) UpdateByID(ctx context.Context, id user.ID, p user.Patch) (*user.User, error) {
	return r.queryOne(
		ctx,
		UpdateUserByID,
		id.String(), p.FirstName, p.LastName, p.Email, p.Mobile, p.Gender, statusArg(p.Status), p.Location, p.Profile,
	)
}

func (r *Repository) DeleteByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.queryOne(ctx, DeleteUserByID, id.String())
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) (user.Users, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	us := Users{}
	for rows.Next() {
		u := new(User)
		if err = rows.Scan(u.scanDest()...); err != nil {
			return nil, err
		}
		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(us), nil
}

func (r *Repository) queryOne(ctx context.Context, sql string, args ...any) (*user.User, error) {
	u := new(User)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(u.scanDest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

// searchPattern turns free text into an ILIKE substring pattern with the
// wildcard characters escaped.
func searchPattern(search string) (string, bool) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", false
	}
	return "%" + likeEscaper.Replace(search) + "%", true
}
