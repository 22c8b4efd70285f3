package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hotel-reservation/internal/utils"
)

func TestUserRepoCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "  Amy Chen  ", "s3cret", RoleCustomer, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Amy Chen", u.Name) // surrounding whitespace trimmed
	assert.Equal(t, RoleCustomer, u.Role)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "s3cret"))
	assert.False(t, utils.VerifyPassword(u.PasswordHash, "S3CRET"))
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUserRepoIDsIncrease(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, "first", "pw", RoleCustomer, bcrypt.MinCost)
	require.NoError(t, err)
	second, err := repo.Create(ctx, "second", "pw", RoleManager, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestUserRepoDuplicateNamesAllowed(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	a, err := repo.Create(ctx, "sam", "one", RoleCustomer, bcrypt.MinCost)
	require.NoError(t, err)
	b, err := repo.Create(ctx, "sam", "two", RoleCustomer, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestUserRepoGetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
