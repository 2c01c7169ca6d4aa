package credentials_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	credentials "github.com/campkit/go-credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestStore(t *testing.T) *credentials.BunUserStore {
	t.Helper()

	// one shared-cache memory database per test so state never leaks between them
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	store := credentials.NewUserStore(db)
	require.NoError(t, store.Init(context.Background()))

	return store
}

func seedUser(t *testing.T, store *credentials.BunUserStore, email string) *credentials.User {
	t.Helper()

	user, err := store.Create(context.Background(), &credentials.User{
		Name:         "Test User",
		Email:        email,
		Role:         credentials.RoleUser,
		PasswordHash: "$2a$04$notarealhashbutnotempty",
	})
	require.NoError(t, err)

	return user
}

func TestBunUserStore_CreateAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := seedUser(t, store, "A@X.com")
	assert.Equal(t, "a@x.com", created.Email, "emails are normalized on write")

	t.Run("find by id", func(t *testing.T) {
		found, err := store.FindByID(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("find by email is case-insensitive", func(t *testing.T) {
		found, err := store.FindByEmail(ctx, "a@X.COM")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.FindByID(ctx, "2c54dcb5-81c4-4e0c-97ee-274adbc41dc5")
		assert.True(t, credentials.IsAccountNotFound(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := store.FindByID(ctx, "not-a-uuid")
		assert.True(t, credentials.IsAccountNotFound(err))
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := store.Exists(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Exists(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBunUserStore_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "a@x.com")

	_, err := store.Create(ctx, &credentials.User{
		Name:         "Other",
		Email:        "A@x.com",
		Role:         credentials.RoleUser,
		PasswordHash: "$2a$04$notarealhashbutnotempty",
	})
	assert.True(t, credentials.IsDuplicateEmail(err))
}

func TestBunUserStore_TokenHashLookups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, store, "a@x.com")

	confirm, err := credentials.GenerateConfirmToken()
	require.NoError(t, err)

	user.SetConfirmToken(confirm.Hash)
	user, err = store.Update(ctx, user)
	require.NoError(t, err)

	t.Run("find by confirm hash while unconfirmed", func(t *testing.T) {
		found, err := store.FindByConfirmTokenHash(ctx, confirm.Hash)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("confirmed users do not match the confirm lookup", func(t *testing.T) {
		user.MarkConfirmed()
		user, err = store.Update(ctx, user)
		require.NoError(t, err)

		_, err := store.FindByConfirmTokenHash(ctx, confirm.Hash)
		assert.True(t, credentials.IsAccountNotFound(err))
	})

	t.Run("empty hash never matches", func(t *testing.T) {
		_, err := store.FindByConfirmTokenHash(ctx, "")
		assert.True(t, credentials.IsAccountNotFound(err))

		_, err = store.FindByResetTokenHash(ctx, "")
		assert.True(t, credentials.IsAccountNotFound(err))
	})

	t.Run("reset hash roundtrip", func(t *testing.T) {
		reset, err := credentials.GenerateResetToken(time.Now().UTC(), 0)
		require.NoError(t, err)

		user.SetResetToken(reset.Hash, reset.ExpireAt)
		user, err = store.Update(ctx, user)
		require.NoError(t, err)

		found, err := store.FindByResetTokenHash(ctx, reset.Hash)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		require.NotNil(t, found.ResetTokenExpireAt)

		user.ClearResetToken()
		user, err = store.Update(ctx, user)
		require.NoError(t, err)

		_, err = store.FindByResetTokenHash(ctx, reset.Hash)
		assert.True(t, credentials.IsAccountNotFound(err))
	})
}

func TestBunUserStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, store, "a@x.com")

	user.Name = "Renamed"
	updated, err := store.Update(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	// updates refresh the updated_at column
	require.NotNil(t, updated.UpdatedAt)
	assert.WithinDuration(t, time.Now().UTC(), *updated.UpdatedAt, 5*time.Second)

	found, err := store.FindByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Name)
	require.NotNil(t, found.UpdatedAt)

	t.Run("update of a missing record", func(t *testing.T) {
		ghost := &credentials.User{
			Name:         "Ghost",
			Email:        "ghost@x.com",
			Role:         credentials.RoleUser,
			PasswordHash: "$2a$04$notarealhashbutnotempty",
		}
		_, err := store.Update(ctx, ghost)
		assert.True(t, credentials.IsAccountNotFound(err))
	})
}
