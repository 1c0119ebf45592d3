package userclient

import (
	"context"
	"sync"

	"user-directory-api/pkg/userschema"
)

// Directory keeps the page a view is showing in sync with the server after
// each mutation, without refetching the whole page.
type Directory struct {
	client *Client

	mu         sync.RWMutex
	params     ListParams
	users      []User
	pagination Pagination
}

func NewDirectory(c *Client) *Directory {
	return &Directory{client: c}
}

func (d *Directory) Load(ctx context.Context, p ListParams) error {
	res, err := d.client.List(ctx, p)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.params = p
	d.users = res.Users
	d.pagination = res.Pagination

	return nil
}

// Reload refetches the page last passed to Load.
func (d *Directory) Reload(ctx context.Context) error {
	d.mu.RLock()
	p := d.params
	d.mu.RUnlock()

	return d.Load(ctx, p)
}

func (d *Directory) Users() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]User(nil), d.users...)
}

func (d *Directory) Pagination() Pagination {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pagination
}

// SetStatus skips the request when the loaded row already has status; the
// server itself accepts repeated calls.
func (d *Directory) SetStatus(ctx context.Context, id, status string) error {
	d.mu.RLock()
	i := d.indexOf(id)
	same := i >= 0 && d.users[i].Status == status
	d.mu.RUnlock()
	if same {
		return nil
	}

	u, err := d.client.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}

	d.replace(*u)
	return nil
}

func (d *Directory) Update(ctx context.Context, id string, p userschema.Payload) (*User, error) {
	u, err := d.client.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}

	d.replace(*u)
	return u, nil
}

// Delete removes the row locally once the server confirms, returning the
// server's message.
func (d *Directory) Delete(ctx context.Context, id string) (string, error) {
	msg, err := d.client.Delete(ctx, id)
	if err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.indexOf(id); i >= 0 {
		d.users = append(d.users[:i:i], d.users[i+1:]...)
		if d.pagination.TotalItems > 0 {
			d.pagination.TotalItems--
		}
	}

	return msg, nil
}

func (d *Directory) replace(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.indexOf(u.ID); i >= 0 {
		d.users[i] = u
	}
}

// indexOf expects d.mu to be held.
func (d *Directory) indexOf(id string) int {
	for i := range d.users {
		if d.users[i].ID == id {
			return i
		}
	}
	return -1
}
