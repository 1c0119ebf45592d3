package services

import (
	"context"
	"errors"
	"io"
	"sync"

	domain "user-directory-api/internal/domain/user"
	"user-directory-api/internal/infrastructure/mq"
)

type FakeRepository struct {
	InsertFunc      func(ctx context.Context, f domain.Fields) (*domain.User, error)
	FindByIDFunc    func(ctx context.Context, id domain.ID) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	FindPageFunc    func(ctx context.Context, filter domain.ListFilter, skip, limit int) (domain.Users, int64, error)
	FindAllFunc     func(ctx context.Context) (domain.Users, error)
	UpdateByIDFunc  func(ctx context.Context, id domain.ID, p domain.Patch) (*domain.User, error)
	DeleteByIDFunc  func(ctx context.Context, id domain.ID) (*domain.User, error)
}

var errNotUsed = errors.New("not used")

func (f *FakeRepository) Insert(ctx context.Context, fl domain.Fields) (*domain.User, error) {
	if f.InsertFunc == nil {
		return nil, errNotUsed
	}
	return f.InsertFunc(ctx, fl)
}
func (f *FakeRepository) FindByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	if f.FindByIDFunc == nil {
		return nil, errNotUsed
	}
	return f.FindByIDFunc(ctx, id)
}
func (f *FakeRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.FindByEmailFunc == nil {
		return nil, errNotUsed
	}
	return f.FindByEmailFunc(ctx, email)
}
func (f *FakeRepository) FindPage(ctx context.Context, filter domain.ListFilter, skip, limit int) (domain.Users, int64, error) {
	if f.FindPageFunc == nil {
		return nil, 0, errNotUsed
	}
	return f.FindPageFunc(ctx, filter, skip, limit)
}
func (f *FakeRepository) FindAll(ctx context.Context) (domain.Users, error) {
	if f.FindAllFunc == nil {
		return nil, errNotUsed
	}
	return f.FindAllFunc(ctx)
}
func (f *FakeRepository) UpdateByID(ctx context.Context, id domain.ID, p domain.Patch) (*domain.User, error) {
	if f.UpdateByIDFunc == nil {
		return nil, errNotUsed
	}
	return f.UpdateByIDFunc(ctx, id, p)
}
func (f *FakeRepository) DeleteByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	if f.DeleteByIDFunc == nil {
		return nil, errNotUsed
	}
	return f.DeleteByIDFunc(ctx, id)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) methods() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Method)
	}
	return out
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
	putErr  error
	delErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStorage) PutObject(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	s.types[key] = contentType
	return nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) GetPublicURL(key string) string { return "https://cdn.test/" + key }
func (s *fakeStorage) GetBucket() string              { return "profiles" }
