package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Skotchmaster/online_store/internal/db"
	"github.com/Skotchmaster/online_store/internal/models"
	"github.com/Skotchmaster/online_store/internal/repo"
	"github.com/Skotchmaster/online_store/internal/service"
	"github.com/Skotchmaster/online_store/migrations"
)

// setupPostgres starts a disposable PostgreSQL, applies the embedded
// migrations and returns a gorm handle on it.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() || os.Getenv("STORE_INTEGRATION") == "" {
		t.Skip("set STORE_INTEGRATION=1 to run against PostgreSQL in Docker")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "store",
			"POSTGRES_PASSWORD": "store",
			"POSTGRES_DB":       "store",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://store:store@%s:%s/store?sslmode=disable", host, port.Port())

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer sqlDB.Close()
	n, err := migrations.Apply(ctx, sqlDB, "up")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	gdb, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func TestPostgres_CatalogAndCart(t *testing.T) {
	gdb := setupPostgres(t)
	ctx := context.Background()
	store := repo.New(gdb)

	catalog := &service.CatalogService{Repo: store, Policy: service.DeleteCascade}
	cart := &service.CartService{Repo: store}

	t.Run("seed items", func(t *testing.T) {
		items, err := catalog.GetAllItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 5)
		assert.Equal(t, models.Item{ID: 4, Name: "Graphics card", Price: 100}, items[3])

		created, err := catalog.CreateItem(ctx, models.Item{Name: "Case", Price: 15})
		require.NoError(t, err)
		assert.EqualValues(t, 6, created.ID)
	})

	t.Run("concurrent adds keep one line", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 16)
		for i := 1; i <= 16; i++ {
			wg.Add(1)
			go func(qty int) {
				defer wg.Done()
				_, err := cart.AddToCart(ctx, "alice", 1, qty)
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		var n int64
		require.NoError(t, gdb.Model(&models.CartLine{}).Where("user_id = ? AND item_id = ?", "alice", 1).Count(&n).Error)
		assert.EqualValues(t, 1, n)
	})

	t.Run("remove sets and deletes", func(t *testing.T) {
		ok, err := cart.RemoveFromCart(ctx, "alice", 1, 3)
		require.NoError(t, err)
		require.True(t, ok)

		lines, err := cart.GetCart(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity)

		ok, err = cart.RemoveFromCart(ctx, "alice", 1, 0)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = cart.RemoveFromCart(ctx, "alice", 1, 0)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("cascade delete", func(t *testing.T) {
		_, err := cart.AddToCart(ctx, "bob", 2, 1)
		require.NoError(t, err)
		ok, err := catalog.UploadImage(ctx, 2, []byte("img"))
		require.NoError(t, err)
		require.True(t, ok)

		deleted, err := catalog.DeleteItem(ctx, 2)
		require.NoError(t, err)
		require.True(t, deleted)

		lines, err := cart.GetCart(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, lines)
		_, err = catalog.GetImage(ctx, 2)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("unique violation is classified", func(t *testing.T) {
		u := models.User{Username: "carol", PasswordHash: "x", Role: models.RoleUser}
		require.NoError(t, store.CreateUser(ctx, &u))
		err := store.CreateUser(ctx, &models.User{Username: "carol", PasswordHash: "x", Role: models.RoleUser})
		assert.ErrorIs(t, err, repo.ErrUserAlreadyExist)

		err = gdb.Exec("INSERT INTO items (name, price) VALUES ('bad', -1)").Error
		require.Error(t, err)
		assert.Equal(t, "23514", repo.SQLState(err))
	})
}
