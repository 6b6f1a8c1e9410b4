package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_store/internal/events"
	"github.com/Skotchmaster/online_store/internal/models"
)

func newCatalog(t *testing.T) (*CatalogService, *recordingPublisher, *fakeIndex) {
	t.Helper()
	pub := &recordingPublisher{}
	idx := newFakeIndex()
	return &CatalogService{Repo: newTestRepo(t), Events: pub, Index: idx, Policy: DeleteCascade}, pub, idx
}

func TestCatalog_CreateThenGetRoundTrips(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	inputs := []models.Item{
		{Name: "CPU", Price: 50},
		{Name: "Memory", Price: 10},
		{Name: "Freebie", Price: 0},
		{Name: "CPU", Price: 55},
	}
	for _, in := range inputs {
		created, err := svc.CreateItem(ctx, in)
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		got, err := svc.GetItem(ctx, int64(created.ID))
		require.NoError(t, err)
		assert.Equal(t, in.Name, got.Name)
		assert.Equal(t, in.Price, got.Price)
	}

	all, err := svc.GetAllItems(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(inputs))
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}

func TestCatalog_CreateIgnoresSuppliedID(t *testing.T) {
	svc, _, _ := newCatalog(t)
	created, err := svc.CreateItem(context.Background(), models.Item{ID: 77, Name: "CPU", Price: 1})
	require.NoError(t, err)
	assert.NotEqual(t, uint(77), created.ID)
}

func TestCatalog_Validation(t *testing.T) {
	svc, pub, _ := newCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "blank name", call: func() error { _, err := svc.CreateItem(ctx, models.Item{Name: "  ", Price: 1}); return err }},
		{name: "negative price", call: func() error { _, err := svc.CreateItem(ctx, models.Item{Name: "x", Price: -1}); return err }},
		{name: "get id zero", call: func() error { _, err := svc.GetItem(ctx, 0); return err }},
		{name: "get negative id", call: func() error { _, err := svc.GetItem(ctx, -3); return err }},
		{name: "update negative price", call: func() error { _, err := svc.UpdateItem(ctx, 1, models.Item{Name: "x", Price: -1}); return err }},
		{name: "delete id zero", call: func() error { _, err := svc.DeleteItem(ctx, 0); return err }},
		{name: "image id zero", call: func() error { _, err := svc.GetImage(ctx, 0); return err }},
		{name: "search blank", call: func() error { _, _, _, err := svc.SearchItems(ctx, " ", 1, 10); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), ErrValidation)
		})
	}
	assert.Empty(t, pub.Events())
}

func TestCatalog_GetMissing(t *testing.T) {
	svc, _, _ := newCatalog(t)
	_, err := svc.GetItem(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_Update(t *testing.T) {
	svc, pub, idx := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, models.Item{Name: "CPU", Price: 50})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, int64(created.ID), models.Item{ID: 999, Name: "CPU v2", Price: 60})
	require.NoError(t, err)
	assert.Equal(t, models.Item{ID: created.ID, Name: "CPU v2", Price: 60}, *updated)
	assert.Equal(t, *updated, idx.docs[created.ID])

	_, err = svc.UpdateItem(ctx, 999, models.Item{Name: "x", Price: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	evs := pub.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.ItemUpdated, evs[1].(events.ItemEvent).Type)
}

func TestCatalog_DeleteThenGetIsNotFound(t *testing.T) {
	for _, policy := range []DeletePolicy{DeleteCascade, DeleteKeep} {
		t.Run(string(policy), func(t *testing.T) {
			svc, _, idx := newCatalog(t)
			svc.Policy = policy
			ctx := context.Background()

			created, err := svc.CreateItem(ctx, models.Item{Name: "CPU", Price: 50})
			require.NoError(t, err)
			ok, err := svc.UploadImage(ctx, int64(created.ID), []byte{1, 2})
			require.NoError(t, err)
			require.True(t, ok)

			deleted, err := svc.DeleteItem(ctx, int64(created.ID))
			require.NoError(t, err)
			assert.True(t, deleted)

			_, err = svc.GetItem(ctx, int64(created.ID))
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NotContains(t, idx.docs, created.ID)

			_, err = svc.GetImage(ctx, int64(created.ID))
			if policy == DeleteCascade {
				assert.ErrorIs(t, err, ErrNotFound)
			} else {
				assert.NoError(t, err)
			}

			deleted, err = svc.DeleteItem(ctx, int64(created.ID))
			require.NoError(t, err)
			assert.False(t, deleted)
		})
	}
}

func TestCatalog_UploadImage(t *testing.T) {
	svc, pub, _ := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, models.Item{Name: "CPU", Price: 50})
	require.NoError(t, err)
	id := int64(created.ID)

	for _, empty := range [][]byte{nil, {}} {
		ok, err := svc.UploadImage(ctx, id, empty)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	n, err := svc.Repo.CountImages(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	ok, err := svc.UploadImage(ctx, 999, []byte{1})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.UploadImage(ctx, id, []byte("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.UploadImage(ctx, id, []byte("b"))
	require.NoError(t, err)
	assert.True(t, ok)

	img, err := svc.GetImage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), img.Data)

	last := pub.Events()[len(pub.Events())-1].(events.ItemEvent)
	assert.Equal(t, events.ItemImageUploaded, last.Type)
}

func TestCatalog_SideEffectFailuresAreSwallowed(t *testing.T) {
	svc, pub, idx := newCatalog(t)
	pub.err = errBroker
	idx.err = errors.New("es down")
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, models.Item{Name: "CPU", Price: 50})
	require.NoError(t, err)

	deleted, err := svc.DeleteItem(ctx, int64(created.ID))
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestCatalog_NoSideEffectsConfigured(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, models.Item{Name: "CPU", Price: 50})
	require.NoError(t, err)
	_, err = svc.UpdateItem(ctx, int64(created.ID), models.Item{Name: "CPU", Price: 5})
	require.NoError(t, err)

	_, _, _, err = svc.SearchItems(ctx, "cpu", 1, 10)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
	_, err = svc.Reindex(ctx)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestCatalog_SearchAndReindex(t *testing.T) {
	svc, _, idx := newCatalog(t)
	ctx := context.Background()

	for _, name := range []string{"CPU", "Memory"} {
		_, err := svc.CreateItem(ctx, models.Item{Name: name, Price: 1})
		require.NoError(t, err)
	}
	idx.docs = map[uint]models.Item{}

	n, err := svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, items, limit, err := svc.SearchItems(ctx, " cpu ", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)
	assert.Equal(t, 20, limit)
	assert.Equal(t, []string{"cpu"}, idx.queries)

	idx.err = errors.New("es down")
	_, _, _, err = svc.SearchItems(ctx, "cpu", 1, 10)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestCatalog_ItemExists(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, models.Item{Name: "CPU", Price: 50})
	require.NoError(t, err)

	ok, err := svc.ItemExists(ctx, int64(created.ID))
	require.NoError(t, err)
	assert.True(t, ok)

	for _, id := range []int64{0, -1, 999} {
		ok, err := svc.ItemExists(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestCatalog_StorageFailure(t *testing.T) {
	svc, _, _ := newCatalog(t)
	sqlDB, err := svc.Repo.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.CreateItem(context.Background(), models.Item{Name: "CPU", Price: 1})
	assert.ErrorIs(t, err, ErrStorage)
	_, err = svc.GetItem(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStorage)
	_, err = svc.GetAllItems(context.Background())
	assert.ErrorIs(t, err, ErrStorage)
}
