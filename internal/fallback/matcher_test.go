package fallback_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/fallback"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionNumbers(predictions []models.AIPrediction) []string {
	numbers := make([]string, 0, len(predictions))
	for _, p := range predictions {
		numbers = append(numbers, p.Section.SectionNumber)
	}
	return numbers
}

func TestMatcher_Predict(t *testing.T) {
	t.Parallel()
	matcher := fallback.NewDefaultMatcher()

	tests := []struct {
		name      string
		complaint string
		limit     int
		want      []string
	}{
		{
			name:      "stole maps to theft",
			complaint: "He stole my phone and ran",
			want:      []string{"Section 303"},
		},
		{
			name:      "stolen maps to theft",
			complaint: "My bicycle was STOLEN from the market",
			want:      []string{"Section 303"},
		},
		{
			name:      "rule declaration order",
			complaint: "They threatened me, then attacked me and snatched my bag",
			want:      []string{"Section 303", "Section 131", "Section 351"},
		},
		{
			name:      "multi word keyword",
			complaint: "Daily eve teasing near the college gate",
			want:      []string{"Section 75"},
		},
		{
			name:      "nothing matches",
			complaint: "Loud music every night from the neighbour",
			want:      []string{"Section 270"},
		},
		{
			name:      "empty text still yields generic entry",
			complaint: "",
			want:      []string{"Section 270"},
		},
		{
			name:      "limit caps output",
			complaint: "theft, rape, assault, harassment, fraud, threat and murder",
			limit:     5,
			want:      []string{"Section 303", "Section 64", "Section 131", "Section 75", "Section 318"},
		},
		{
			name:      "no limit returns every match",
			complaint: "theft, rape, assault, harassment, fraud, threat and murder",
			limit:     0,
			want: []string{
				"Section 303", "Section 64", "Section 131", "Section 75", "Section 318", "Section 351", "Section 103",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := matcher.Predict(tt.complaint, tt.limit)
			require.Equal(t, tt.want, sectionNumbers(got))
			for i, p := range got {
				require.Equal(t, "pred-"+string(rune('1'+i)), p.ID)
				require.Equal(t, models.OfficerActionUnset, p.Action)
			}
		})
	}
}

func TestMatcher_TheftScenario(t *testing.T) {
	t.Parallel()
	got := fallback.NewDefaultMatcher().Predict("He stole my phone and ran", 5)
	require.Len(t, got, 1)
	require.Equal(t, "Theft", got[0].Section.Title)
	require.InDelta(t, 85, got[0].Confidence, 0)
}

func TestMatcher_NoRules(t *testing.T) {
	t.Parallel()
	generic := fallback.Rule{
		Keywords:   nil,
		Section:    models.LegalSection{SectionNumber: "Section 1", Title: "Generic"},
		Confidence: 10,
	}
	got := fallback.NewMatcher(nil, generic).Predict(strings.Repeat("theft ", 3), 0)
	require.Equal(t, []string{"Section 1"}, sectionNumbers(got))
}

func TestMatcher_ConcurrentPredict(t *testing.T) {
	t.Parallel()
	const (
		complaint  = "He stole my phone, hit me and threatened to murder me"
		goroutines = 16
		rounds     = 500
	)
	matcher := fallback.NewDefaultMatcher()
	want := sectionNumbers(matcher.Predict(complaint, 0))
	require.Greater(t, len(want), 1, "complaint should match several rules")

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				if !assert.Equal(t, want, sectionNumbers(matcher.Predict(complaint, 0))) {
					return
				}
			}
		}()
	}
	wg.Wait()
}
