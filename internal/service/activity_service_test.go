package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/repository/unitofwork"
	"shopquery-be/pkg/events"
)

func newActivityFixture(t *testing.T) (IActivityService, *capturePublisher) {
	svc, _, publisher := newActivityFixtureWithProvider(t)
	return svc, publisher
}

func newActivityFixtureWithProvider(t *testing.T) (IActivityService, *fakeProductProvider, *capturePublisher) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	provider := &fakeProductProvider{}
	publisher := &capturePublisher{}
	svc := NewActivityService(factory, provider, publisher, nopLogger{})
	return svc, provider, publisher
}

func logSearch(t *testing.T, svc IActivityService, userId uuid.UUID, query string) *dto.SearchHistoryDTO {
	t.Helper()
	res, err := svc.LogSearch(context.Background(), userId, &dto.LogSearchRequest{
		Query:    query,
		Platform: "amazon",
	})
	require.NoError(t, err)
	// Keep creation instants distinct for the per-key grouping.
	time.Sleep(2 * time.Millisecond)
	return res
}

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Red Shoes", "red shoes"},
		{"red   SHOES", "red shoes"},
		{"  Red\tShoes  ", "red shoes"},
		{"", ""},
		{strings.Repeat("a", 600), strings.Repeat("a", 512)},
		// The cap counts characters, so short multibyte queries pass through
		// untouched and long ones are cut on a rune boundary.
		{strings.Repeat("日", 200), strings.Repeat("日", 200)},
		{strings.Repeat("é", 600), strings.Repeat("é", 512)},
	}
	for _, tc := range cases {
		got := normalizeQuery(tc.in)
		assert.Equal(t, tc.want, got)
		assert.True(t, utf8.ValidString(got))
	}
}

func TestLogSearchRejectsBlankQuery(t *testing.T) {
	svc, _ := newActivityFixture(t)

	_, err := svc.LogSearch(context.Background(), uuid.New(), &dto.LogSearchRequest{
		Query:    "   ",
		Platform: "amazon",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLabelCarryForward(t *testing.T) {
	svc, _ := newActivityFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	first := logSearch(t, svc, userId, "Red Shoes")
	assert.Nil(t, first.CustomLabel)

	label := "marathon gear"
	labeled, err := svc.UpdateSearchLabel(ctx, userId, first.Id, &dto.UpdateSearchLabelRequest{
		CustomLabel: &label,
	})
	require.NoError(t, err)
	require.NotNil(t, labeled.CustomLabel)

	// Same query modulo case and whitespace inherits the label.
	second := logSearch(t, svc, userId, "red   SHOES")
	require.NotNil(t, second.CustomLabel)
	assert.Equal(t, label, *second.CustomLabel)

	// A different query does not.
	other := logSearch(t, svc, userId, "blue hats")
	assert.Nil(t, other.CustomLabel)
}

func TestListSearchHistoryLatestPerKey(t *testing.T) {
	svc, _ := newActivityFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	logSearch(t, svc, userId, "red shoes")
	logSearch(t, svc, userId, "blue hats")
	newest := logSearch(t, svc, userId, "Red Shoes")

	res, err := svc.ListSearchHistory(ctx, userId, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Items, 2)

	// Newest group first, and each group is represented by its newest row.
	assert.Equal(t, newest.Id, res.Items[0].Id)
	assert.Equal(t, "Red Shoes", res.Items[0].SearchQuery)
	assert.Equal(t, "blue hats", res.Items[1].SearchQuery)
}

func TestListSearchHistoryIgnoresOtherUsers(t *testing.T) {
	svc, _ := newActivityFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	logSearch(t, svc, userId, "red shoes")
	logSearch(t, svc, uuid.New(), "red shoes")

	res, err := svc.ListSearchHistory(ctx, userId, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
}

func TestUpdateSearchLabelNotOwned(t *testing.T) {
	svc, _ := newActivityFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	record := logSearch(t, svc, userId, "red shoes")

	label := "mine"
	_, err := svc.UpdateSearchLabel(ctx, uuid.New(), record.Id, &dto.UpdateSearchLabelRequest{
		CustomLabel: &label,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAndClearSearchHistory(t *testing.T) {
	svc, _ := newActivityFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	first := logSearch(t, svc, userId, "red shoes")
	logSearch(t, svc, userId, "blue hats")
	logSearch(t, svc, userId, "green socks")

	require.NoError(t, svc.DeleteSearch(ctx, userId, first.Id))
	assert.ErrorIs(t, svc.DeleteSearch(ctx, userId, first.Id), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSearch(ctx, uuid.New(), first.Id), ErrNotFound)

	cleared, err := svc.ClearSearchHistory(ctx, userId)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleared)

	res, err := svc.ListSearchHistory(ctx, userId, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Total)
	assert.Empty(t, res.Items)
}

func TestSearchProductsLogsHistory(t *testing.T) {
	svc, _, _ := newActivityFixtureWithProvider(t)
	ctx := context.Background()
	userId := uuid.New()

	res, err := svc.SearchProducts(ctx, userId, "trail shoes", 1)
	require.NoError(t, err)
	assert.Equal(t, "trail shoes", res.Query)
	assert.Equal(t, 2, res.TotalResults)
	require.Len(t, res.Products, 2)

	history, err := svc.ListSearchHistory(ctx, userId, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, history.Total)
	assert.Equal(t, "trail shoes", history.Items[0].SearchQuery)
	assert.Equal(t, 2, history.Items[0].ResultsCount)
}

func TestSearchProductsUpstreamFailure(t *testing.T) {
	svc, provider, _ := newActivityFixtureWithProvider(t)
	ctx := context.Background()
	userId := uuid.New()

	_, err := svc.SearchProducts(ctx, userId, "  ", 1)
	assert.ErrorIs(t, err, ErrValidation)

	provider.failSearch = true
	_, err = svc.SearchProducts(ctx, userId, "trail shoes", 1)
	assert.ErrorIs(t, err, ErrUpstream)

	// A failed search never reaches the ledger.
	history, err := svc.ListSearchHistory(ctx, userId, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, history.Total)
}

func TestLogSearchPublishesEvent(t *testing.T) {
	svc, publisher := newActivityFixture(t)

	logSearch(t, svc, uuid.New(), "red shoes")
	assert.Contains(t, publisher.typesSeen(), events.TypeSearchLogged)
}

func TestLogAndListEvents(t *testing.T) {
	svc, _ := newActivityFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	_, err := svc.LogEvent(ctx, userId, &dto.LogEventRequest{
		EventType: "PRODUCT_VIEWED",
		EventData: map[string]interface{}{"product_id": "B00X"},
	})
	require.NoError(t, err)
	_, err = svc.LogEvent(ctx, userId, &dto.LogEventRequest{
		EventType: "PAGE_VIEWED",
	})
	require.NoError(t, err)

	all, err := svc.ListEvents(ctx, userId, "", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	filtered, err := svc.ListEvents(ctx, userId, "PRODUCT_VIEWED", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, filtered.Total)
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, "B00X", filtered.Items[0].EventData["product_id"])
}

func TestFavoritesLifecycle(t *testing.T) {
	svc, _ := newActivityFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	added, err := svc.AddFavorite(ctx, userId, &dto.AddFavoriteRequest{ProductId: "B00X"})
	require.NoError(t, err)

	isFav, err := svc.IsFavorite(ctx, userId, "B00X")
	require.NoError(t, err)
	assert.True(t, isFav)

	// Adding again is idempotent and can update notes.
	notes := "birthday gift idea"
	again, err := svc.AddFavorite(ctx, userId, &dto.AddFavoriteRequest{ProductId: "B00X", UserNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, added.Id, again.Id)
	require.NotNil(t, again.UserNotes)
	assert.Equal(t, notes, *again.UserNotes)

	require.NoError(t, svc.RemoveFavorite(ctx, userId, "B00X"))
	assert.ErrorIs(t, svc.RemoveFavorite(ctx, userId, "B00X"), ErrNotFound)

	isFav, err = svc.IsFavorite(ctx, userId, "B00X")
	require.NoError(t, err)
	assert.False(t, isFav)

	// Re-adding resurrects the tombstoned row instead of duplicating it.
	restored, err := svc.AddFavorite(ctx, userId, &dto.AddFavoriteRequest{ProductId: "B00X"})
	require.NoError(t, err)
	assert.Equal(t, added.Id, restored.Id)

	list, err := svc.ListFavorites(ctx, userId, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
}
