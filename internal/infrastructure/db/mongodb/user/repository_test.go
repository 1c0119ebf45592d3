package user

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domain "user-directory-api/internal/domain/user"
)

func TestSearchFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, searchFilter(domain.ListFilter{}))
	assert.Equal(t, bson.M{}, searchFilter(domain.ListFilter{Search: "   "}))

	f := searchFilter(domain.ListFilter{Search: " a.b+ "})
	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, len(searchFields))

	want := primitive.Regex{Pattern: `a\.b\+`, Options: "i"}
	for i, field := range searchFields {
		assert.Equal(t, bson.M{field: want}, or[i])
	}
}

func TestPatchSet(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	set := patchSet(domain.Patch{}, now)
	assert.Equal(t, bson.M{"updated_at": now}, set)

	email := "ann@x.com"
	status := domain.StatusInactive
	set = patchSet(domain.Patch{Email: &email, Status: &status}, now)
	assert.Equal(t, bson.M{"updated_at": now, "email": "ann@x.com", "status": "inactive"}, set)
}

func TestFromDocument(t *testing.T) {
	id := uuid.New()
	u, err := fromDocument(&document{ID: id.String(), FirstName: "Ann", Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, domain.StatusActive, u.Status)

	_, err = fromDocuments(documents{{ID: "not-a-uuid"}})
	require.Error(t, err)
}
