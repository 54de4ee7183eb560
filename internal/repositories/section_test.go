package repositories_test

import (
	"io"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/catalog"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/repositories"
	"github.com/nyaya-ai/nyaya/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestSectionRepository(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	repo := repositories.NewSectionRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))

	sections, err := catalog.Load()
	require.NoError(t, err)
	require.NoError(t, repo.Sync(ctx, sections))
	// Syncing twice upserts instead of failing on the primary key.
	require.NoError(t, repo.Sync(ctx, sections))

	all, err := repo.Search(ctx, "", "", 100)
	require.NoError(t, err)
	require.Len(t, all, len(sections))
	require.Equal(t, "Section 61", all[0].SectionNumber, "ordered numerically")

	tests := []struct {
		name     string
		query    string
		category string
		want     string
	}{
		{name: "title", query: "theft", category: "", want: "Section 303"},
		{name: "keyword", query: "STALK", category: "", want: "Section 78"},
		{name: "number", query: "Section 103", category: "", want: "Section 103"},
		{name: "category filter", query: "", category: "property offense", want: "Section 303"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.Search(ctx, tt.query, tt.category, 0)
			require.NoError(t, err)
			var numbers []string
			for _, s := range found {
				numbers = append(numbers, s.SectionNumber)
			}
			require.Contains(t, numbers, tt.want)
		})
	}

	none, err := repo.Search(ctx, "100%_", "", 0)
	require.NoError(t, err)
	require.Empty(t, none)

	theft, err := repo.Get(ctx, "section 303")
	require.NoError(t, err)
	require.Equal(t, "Theft", theft.Title)
	require.NotEmpty(t, theft.Keywords)

	_, err = repo.Get(ctx, "Section 9999")
	require.ErrorIs(t, err, models.ErrNotFound)
}
