package firpdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/nyaya-ai/nyaya/internal/firpdf"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()
	fir := &models.FIR{ //nolint:exhaustruct // document fields
		ID:              1,
		FIRNumber:       "FIR/2024/0105/000001",
		ComplainantName: "Meera Nair",
		ContactNumber:   "9876543210",
		IncidentType:    "Theft",
		ComplaintText:   "My bicycle was stolen from the parking lot near the café.",
		Status:          models.FIRStatusPending,
		CreatedAt:       time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
		LegalSections: []models.FIRSection{
			{ //nolint:exhaustruct // shown fields
				SectionNumber:        "Section 324",
				Title:                "Mischief",
				OfficerAction:        models.OfficerActionCorrected,
				OriginalAIPrediction: "Section 303",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, firpdf.Render(&buf, fir))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	require.Equal(t, "FIR-2024-0105-000001.pdf", firpdf.Filename(fir))
	require.Equal(t, "FIR-7.pdf", firpdf.Filename(&models.FIR{ID: 7})) //nolint:exhaustruct // id only
}
