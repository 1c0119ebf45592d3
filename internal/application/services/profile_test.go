package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "user-directory-api/internal/domain/user"
	"user-directory-api/internal/infrastructure/metrics"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func newProfileService(repo domain.Repository, storage *fakeStorage) (*ProfileService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewProfileService(zap.NewNop(), storage, repo, pub, metrics.New(prometheus.NewRegistry()), time.Second)
	return svc.(*ProfileService), pub
}

func TestProfileService_Upload(t *testing.T) {
	id := uuid.New()

	t.Run("replaces previous object", func(t *testing.T) {
		storage := newFakeStorage()
		var written string
		repo := &FakeRepository{
			FindByIDFunc: func(context.Context, domain.ID) (*domain.User, error) {
				u := storedUser(id, "ann@x.com")
				u.Profile = "profiles/old.png"
				return u, nil
			},
			UpdateByIDFunc: func(_ context.Context, _ domain.ID, p domain.Patch) (*domain.User, error) {
				require.NotNil(t, p.Profile)
				assert.Nil(t, p.Email)
				written = *p.Profile
				u := storedUser(id, "ann@x.com")
				u.Profile = *p.Profile
				return u, nil
			},
		}
		svc, pub := newProfileService(repo, storage)

		u, err := svc.Upload(context.Background(), id.String(), fileHeader(t, "Mé Photo.PNG", pngHeader))
		require.NoError(t, err)

		assert.Equal(t, written, u.Profile)
		assert.True(t, strings.HasPrefix(written, "profiles/"), written)
		assert.True(t, strings.HasSuffix(written, "/"+strings.ReplaceAll(id.String(), "-", "")+"/me-photo.png"), written)
		assert.Equal(t, pngHeader, storage.objects[written])
		assert.Equal(t, "image/png", storage.types[written])
		assert.Equal(t, []string{"profiles/old.png"}, storage.deleted)
		assert.Equal(t, []string{http.MethodPut}, pub.methods())
	})

	t.Run("too large", func(t *testing.T) {
		svc, _ := newProfileService(&FakeRepository{}, newFakeStorage())
		fh := fileHeader(t, "a.png", pngHeader)
		fh.Size = MaxProfileSize + 1

		_, err := svc.Upload(context.Background(), id.String(), fh)
		require.ErrorIs(t, err, domain.ErrProfileTooLarge)
	})

	t.Run("not an image", func(t *testing.T) {
		storage := newFakeStorage()
		svc, _ := newProfileService(&FakeRepository{}, storage)

		_, err := svc.Upload(context.Background(), id.String(), fileHeader(t, "a.png", []byte("plain text, not a picture")))
		require.ErrorIs(t, err, domain.ErrProfileNotImage)
		assert.Empty(t, storage.objects)
	})

	t.Run("unknown user uploads nothing", func(t *testing.T) {
		storage := newFakeStorage()
		repo := &FakeRepository{
			FindByIDFunc: func(context.Context, domain.ID) (*domain.User, error) { return nil, domain.ErrNotFound },
		}
		svc, _ := newProfileService(repo, storage)

		_, err := svc.Upload(context.Background(), id.String(), fileHeader(t, "a.png", pngHeader))
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, storage.objects)
	})

	t.Run("failed update removes the new object", func(t *testing.T) {
		storage := newFakeStorage()
		boom := errors.New("boom")
		repo := &FakeRepository{
			FindByIDFunc: func(context.Context, domain.ID) (*domain.User, error) {
				return storedUser(id, "ann@x.com"), nil
			},
			UpdateByIDFunc: func(context.Context, domain.ID, domain.Patch) (*domain.User, error) { return nil, boom },
		}
		svc, pub := newProfileService(repo, storage)

		_, err := svc.Upload(context.Background(), id.String(), fileHeader(t, "a.png", pngHeader))
		require.ErrorIs(t, err, boom)
		require.Len(t, storage.deleted, 1)
		assert.Empty(t, storage.objects)
		assert.Empty(t, pub.methods())
	})
}

func TestProfileService_ProfileURL(t *testing.T) {
	svc, _ := newProfileService(&FakeRepository{}, newFakeStorage())

	assert.Equal(t, "https://cdn.test/profiles/a.png", svc.ProfileURL("profiles/a.png"))
	assert.Empty(t, svc.ProfileURL(""))
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "", want: "profile"},
		{in: "..", want: "profile"},
		{in: `C:\Users\ann\Photo 1.JPG`, want: "photo-1.jpg"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: "Crème brûlée.png", want: "creme-brulee.png"},
		{in: "con.png", want: "_con.png"},
		{in: "__a__b.png", want: "a-b.png"},
		{in: "日本.png", want: "profile.png"},
		{in: "x.p n?g", want: "x.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFileName(tt.in))
		})
	}

	long := sanitizeFileName(strings.Repeat("a", 300) + ".png")
	assert.Len(t, long, maxBaseNameLen)
	assert.True(t, strings.HasSuffix(long, ".png"))
}

func TestGenSafeStorageKey(t *testing.T) {
	id := uuid.MustParse("0b4e7f0e-3f4a-4b8e-9a53-2a1c6d7e8f90")
	now := time.Date(2026, 3, 7, 9, 5, 1, 42, time.UTC)

	assert.Equal(t,
		"profiles/2026/03/07/20260307T090501.000000042Z/0b4e7f0e3f4a4b8e9a532a1c6d7e8f90/me.png",
		genSafeStorageKey("me.png", "image/png", id, now),
	)

	key := genSafeStorageKey("me", "image/png", id, now)
	assert.True(t, strings.HasSuffix(key, "/me.png"), key)
}
