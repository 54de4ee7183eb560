package repositories_test

import (
	"io"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/repositories"
	"github.com/nyaya-ai/nyaya/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestOfficerRepository(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	repo := repositories.NewOfficerRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))

	officer, err := repo.Create(ctx, " KA-1234 ", "Inspector Kaur", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "KA-1234", officer.BadgeNumber)
	require.NotEqual(t, []byte("s3cret-pass"), officer.PasswordHash)

	_, err = repo.Create(ctx, "", "Nobody", "pass")
	require.ErrorIs(t, err, models.ErrValidation)

	authenticated, err := repo.Authenticate(ctx, "KA-1234", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, officer.ID, authenticated.ID)

	_, err = repo.Authenticate(ctx, "KA-1234", "wrong")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = repo.Authenticate(ctx, "KA-9999", "s3cret-pass")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	got, err := repo.Get(ctx, officer.ID)
	require.NoError(t, err)
	require.Equal(t, "Inspector Kaur", got.Name)

	require.NoError(t, repo.EnsureAdmin(ctx, "ADMIN-1", "Station House Officer", "admin-pass"))
	require.NoError(t, repo.EnsureAdmin(ctx, "ADMIN-1", "Station House Officer", "other-pass"))
	_, err = repo.Authenticate(ctx, "ADMIN-1", "admin-pass")
	require.NoError(t, err, "the existing admin keeps its password")
}

func TestOfficerRepository_DuplicateBadge(t *testing.T) {
	t.Parallel()
	repo := repositories.NewOfficerRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))
	_, err := repo.Create(t.Context(), "KA-0001", "Impostor", "pass")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "badgeNumber", validationErr.Field)
}
