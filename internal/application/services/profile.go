package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"user-directory-api/internal/application/ports"
	domain "user-directory-api/internal/domain/user"
	"user-directory-api/internal/infrastructure/metrics"
)

const (
	MaxProfileSize = 5 << 20

	maxBaseNameLen = 100
	sniffLen       = 512
)

var (
	windowsReserved = map[string]struct{}{
		"con": {}, "prn": {}, "aux": {}, "nul": {},
		"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
		"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
	}
	leadingDotsRe = regexp.MustCompile(`^\.+`)
)

type ProfileService struct {
	logger         *zap.Logger
	storage        ports.ObjectStorage
	userRepository domain.Repository
	mq             ports.EventPublisher
	metrics        *metrics.Metrics
	store          storeGuard
}

func NewProfileService(
	logger *zap.Logger,
	storage ports.ObjectStorage,
	userRepository domain.Repository,
	mq ports.EventPublisher,
	m *metrics.Metrics,
	storeTimeout time.Duration,
) ports.ProfileService {
	return &ProfileService{
		logger:         logger,
		storage:        storage,
		userRepository: userRepository,
		mq:             mq,
		metrics:        m,
		store:          storeGuard{timeout: storeTimeout, metrics: m},
	}
}

// Upload stores an image under a fresh object key, points the user's profile
// at it and then removes the previous object, if any, best effort.
func (ps *ProfileService) Upload(ctx context.Context, id string, in *multipart.FileHeader) (*domain.User, error) {
	uid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	if in.Size > MaxProfileSize {
		return nil, domain.ErrProfileTooLarge
	}

	f, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open profile upload: %w", err)
	}
	defer f.Close()

	contentType, err := sniffImage(f)
	if err != nil {
		return nil, err
	}

	existing, err := guarded(ctx, ps.store, "find_by_id", func(ctx context.Context) (*domain.User, error) {
		return ps.userRepository.FindByID(ctx, uid)
	})
	if err != nil {
		return nil, err
	}

	key := genSafeStorageKey(sanitizeFileName(in.Filename), contentType, uid, time.Now().UTC())
	if err = ps.storage.PutObject(ctx, key, f, in.Size, contentType); err != nil {
		return nil, err
	}

	u, err := guarded(ctx, ps.store, "update_profile", func(ctx context.Context) (*domain.User, error) {
		return ps.userRepository.UpdateByID(ctx, uid, domain.Patch{Profile: &key})
	})
	if err != nil {
		ps.removeObject(ctx, key)
		return nil, err
	}

	if existing.Profile != "" && existing.Profile != key {
		ps.removeObject(ctx, existing.Profile)
	}

	ps.mq.Publish(newUserEvent(http.MethodPut, u))
	ps.metrics.Inc("profile_uploaded_total")

	return u, nil
}

// ProfileURL returns where a stored profile can be fetched, or "" when there is none.
func (ps *ProfileService) ProfileURL(key string) string {
	if key == "" {
		return ""
	}
	return ps.storage.GetPublicURL(key)
}

func (ps *ProfileService) removeObject(ctx context.Context, key string) {
	if err := ps.storage.DeleteObject(ctx, key); err != nil {
		ps.logger.Warn("failed to delete profile object",
			zap.String("bucket", ps.storage.GetBucket()),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// sniffImage detects the content type from the first bytes and rewinds f.
func sniffImage(f multipart.File) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read profile upload: %w", err)
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind profile upload: %w", err)
	}

	ct := http.DetectContentType(head[:n])
	if !strings.HasPrefix(ct, "image/") {
		return "", domain.ErrProfileNotImage
	}
	return ct, nil
}

// genSafeStorageKey: "profiles/YYYY/MM/DD/<ts-nanosec>/<userid>/<filename>.ext"
func genSafeStorageKey(fileName, contentType string, id domain.ID, now time.Time) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(fileName))
	clean = leadingDotsRe.ReplaceAllString(clean, "")

	ext := strings.ToLower(filepath.Ext(clean))
	base := strings.TrimSuffix(clean, ext)
	if base == "" {
		base = "profile"
	}
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = ".img"
		}
	}

	return fmt.Sprintf(
		"profiles/%04d/%02d/%02d/%s/%s/%s",
		now.Year(), int(now.Month()), now.Day(),
		now.Format("20060102T150405.000000000Z"),
		strings.ReplaceAll(id.String(), "-", ""),
		base+ext,
	)
}

// sanitizeFileName folds an uploaded file name into lower-case ASCII.
func sanitizeFileName(original string) string {
	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "/" || s == "" {
		return "profile"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := path.Ext(s)
	base := strings.TrimSuffix(s, ext)
	ext = strings.Map(func(r rune) rune {
		if r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(ext))
	if ext == "." {
		ext = ""
	}

	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "profile"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}

	for utf8.RuneCountInString(base)+len(ext) > maxBaseNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		if size <= 0 || size > len(base) {
			break
		}
		base = base[:len(base)-size]
	}

	return base + ext
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
