package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"user-directory-api/internal/domain/user"
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}

type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) user.Repository {
	return &Repository{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique email index the conflict check relies on
// and the index backing the list order.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_email_key"),
		},
		{
			Keys:    newestFirst,
			Options: options.Index().SetName("users_created_at_id_idx"),
		},
	})
	return err
}

func (r *Repository) FindPage(ctx context.Context, filter user.ListFilter, skip, limit int) (user.Users, int64, error) {
	query := searchFilter(filter)

	var (
		ds    documents
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts := options.Find().SetSort(newestFirst).SetSkip(int64(skip)).SetLimit(int64(limit))
		cur, err := r.coll.Find(gctx, query, opts)
		if err != nil {
			return err
		}
		return cur.All(gctx, &ds)
	})
	g.Go(func() error {
		var err error
		total, err = r.coll.CountDocuments(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	us, err := fromDocuments(ds)
	if err != nil {
		return nil, 0, err
	}

	return us, total, nil
}

func (r *Repository) FindAll(ctx context.Context) (user.Users, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	ds := documents{}
	if err = cur.All(ctx, &ds); err != nil {
		return nil, err
	}

	return fromDocuments(ds)
}

func (r *Repository) FindByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.decodeOne(r.coll.FindOne(ctx, bson.M{"_id": id.String()}))
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.decodeOne(r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}))
}

func (r *Repository) Insert(ctx context.Context, f user.Fields) (*user.User, error) {
	// BSON dates carry millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)
	d := &document{
		ID:        uuid.NewString(),
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Mobile:    f.Mobile,
		Gender:    f.Gender,
		Status:    string(f.Status),
		Location:  f.Location,
		Profile:   f.Profile,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDocument(d)
}

func (r *Repository) UpdateByID(ctx context.Context, id user.ID, p user.Patch) (*user.User, error) {
	set := patchSet(p, time.Now().UTC().Truncate(time.Millisecond))
	res := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	return r.decodeOne(res)
}

func (r *Repository) DeleteByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.decodeOne(r.coll.FindOneAndDelete(ctx, bson.M{"_id": id.String()}))
}

func (r *Repository) decodeOne(res *mongo.SingleResult) (*user.User, error) {
	d := new(document)
	if err := res.Decode(d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDocument(d)
}

// searchFilter matches the search text literally and case-insensitively
// anywhere in any of the searchable fields.
func searchFilter(f user.ListFilter) bson.M {
	s := strings.TrimSpace(f.Search)
	if s == "" {
		return bson.M{}
	}

	re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	or := make(bson.A, 0, len(searchFields))
	for _, field := range searchFields {
		or = append(or, bson.M{field: re})
	}

	return bson.M{"$or": or}
}
