package storage

import (
	"testing"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery_NoFilters(t *testing.T) {
	q, args := buildSearchQuery(domain.AssetFilter{Limit: 20})

	assert.NotContains(t, q, "WHERE")
	assert.Contains(t, q, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, q, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{21, 0}, args)
}

func TestBuildSearchQuery_AllPredicates(t *testing.T) {
	f := domain.AssetFilter{
		Name:              "raiden",
		GameIDs:           []uuid.UUID{uuid.New()},
		CategoryIDs:       []uuid.UUID{uuid.New(), uuid.New()},
		AssetIDs:          []uuid.UUID{uuid.New()},
		Status:            domain.StatusApproved,
		ExcludeSuggestive: true,
		SortBy:            domain.SortViews,
		SortOrder:         domain.SortDesc,
		Offset:            40,
		Limit:             20,
	}

	q, args := buildSearchQuery(f)

	assert.Contains(t, q, "WHERE status = $1 AND name ILIKE $2 AND game_id = ANY($3::uuid[]) AND category_id = ANY($4::uuid[]) AND id = ANY($5::uuid[]) AND is_suggestive = FALSE")
	assert.Contains(t, q, "ORDER BY view_count DESC, id DESC")
	assert.Contains(t, q, "LIMIT $6 OFFSET $7")
	require.Len(t, args, 7)
	assert.Equal(t, "approved", args[0])
	assert.Equal(t, "%raiden%", args[1])
	assert.Equal(t, 21, args[5])
	assert.Equal(t, 40, args[6])
}

func TestBuildSearchQuery_EscapesLikeWildcards(t *testing.T) {
	_, args := buildSearchQuery(domain.AssetFilter{Name: `50%_off\`, Limit: 10})

	assert.Equal(t, `%50\%\_off\\%`, args[0])
}

func TestBuildSearchQuery_SortKeys(t *testing.T) {
	cases := map[domain.SortKey]string{
		domain.SortRecent:    "ORDER BY created_at ASC, id ASC",
		domain.SortDownloads: "ORDER BY download_count ASC, id ASC",
		domain.SortName:      "ORDER BY name ASC, id ASC",
		"":                   "ORDER BY created_at ASC, id ASC",
	}
	for key, want := range cases {
		q, _ := buildSearchQuery(domain.AssetFilter{SortBy: key, SortOrder: domain.SortAsc, Limit: 5})
		assert.Contains(t, q, want, "sort key %q", key)
	}
}

func TestBuildSearchQuery_EmptyDimensionStillConstrains(t *testing.T) {
	q, _ := buildSearchQuery(domain.AssetFilter{GameIDs: []uuid.UUID{}, Limit: 5})

	assert.Contains(t, q, "game_id = ANY($1::uuid[])")
}
