package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

func section(id string, vec ...float32) domain.Section {
	return domain.Section{
		ID:      "classic-" + id,
		Title:   id,
		Content: id + " body",
		URL:     "https://www.w3.org/TR/webdriver/#" + id,
		Spec:    domain.SpecClassic,
		Vector:  vec,
	}
}

func TestSectionStore_EmptyStore(t *testing.T) {
	store := NewSectionStore()
	ctx := context.Background()

	results, err := store.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	_, err = store.GetByURL(ctx, "https://www.w3.org/TR/webdriver/#x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, stats.Exists)
}

func TestSectionStore_UpsertIsFullReplace(t *testing.T) {
	store := NewSectionStore()
	ctx := context.Background()

	s1, s2, s3 := section("s1", 1, 0), section("s2", 0, 1), section("s3", 1, 1)
	require.NoError(t, store.Upsert(ctx, []domain.Section{s1, s2}))

	first, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Sections)

	require.NoError(t, store.Upsert(ctx, []domain.Section{s3}))

	_, err = store.GetByURL(ctx, s1.URL)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetByURL(ctx, s2.URL)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := store.GetByURL(ctx, s3.URL)
	require.NoError(t, err)
	assert.Equal(t, s3.ID, got.ID)
	assert.Nil(t, got.Vector)
	assert.Nil(t, got.Distance)

	results, err := store.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, s3.ID, results[0].ID)

	second, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, second.Exists)
	assert.Equal(t, 1, second.Sections)
	assert.Equal(t, 2, second.Dimensions)
	assert.NotEqual(t, first.Generation, second.Generation)
}

func TestSectionStore_SearchOrdersByDistance(t *testing.T) {
	store := NewSectionStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Section{
		section("far", 0, 1),
		section("close", 1, 0.2),
		section("closest", 1, 0),
	}))

	results, err := store.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "classic-closest", results[0].ID)
	assert.Equal(t, "classic-close", results[1].ID)
	require.NotNil(t, results[0].Distance)
	assert.LessOrEqual(t, *results[0].Distance, *results[1].Distance)
}

func TestSectionStore_GetByURLReturnsFirstMatch(t *testing.T) {
	store := NewSectionStore()
	ctx := context.Background()

	a := section("dup", 1, 0)
	b := section("dup", 0, 1)
	b.ID = "bidi-dup"
	require.NoError(t, store.Upsert(ctx, []domain.Section{a, b}))

	got, err := store.GetByURL(ctx, a.URL)
	require.NoError(t, err)
	assert.Equal(t, "classic-dup", got.ID)
}

func TestSectionStore_RejectsInvalidBatch(t *testing.T) {
	store := NewSectionStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []domain.Section{section("keep", 1, 0)}))

	err := store.Upsert(ctx, []domain.Section{section("a", 1, 0), section("b", 1, 0, 0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Upsert(ctx, []domain.Section{section("novec")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// previous generation untouched
	_, err = store.GetByURL(ctx, section("keep").URL)
	assert.NoError(t, err)
}

func TestSectionStore_SearchDimensionMismatch(t *testing.T) {
	store := NewSectionStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []domain.Section{section("a", 1, 0)}))

	_, err := store.Search(ctx, []float32{1, 0, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSectionStore_UpsertCopiesInput(t *testing.T) {
	store := NewSectionStore()
	ctx := context.Background()
	in := []domain.Section{section("a", 1, 0)}
	require.NoError(t, store.Upsert(ctx, in))

	in[0].Vector[0] = -1
	in[0].URL = "changed"

	results, err := store.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0, *results[0].Distance, 1e-9)
	assert.Equal(t, section("a").URL, results[0].URL)
}

func TestSectionStore_ConcurrentAccess(t *testing.T) {
	store := NewSectionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Upsert(ctx, []domain.Section{section("x", 1, 0)})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Search(ctx, []float32{1, 0}, 1)
		}()
	}
	wg.Wait()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sections)
}
