package review

import (
	"github.com/nyaya-ai/nyaya/internal/models"
)

// Sections converts the selected predictions to the rows saved with the FIR.
//
// Manual sections are saved without confidence. Corrected sections remember the AI section they replaced.
func (d *Draft) Sections() []models.FIRSection {
	selected := d.Selected()
	sections := make([]models.FIRSection, 0, len(selected))
	for _, p := range selected {
		section := models.FIRSection{ //nolint:exhaustruct // ids are assigned by the store
			PredictionID: p.PredictionID(),
		}
		switch p := p.(type) {
		case models.AIPrediction:
			confidence := p.Confidence
			setSection(&section, p.Section)
			section.Confidence = &confidence
			section.OfficerAction = models.OfficerActionAccepted
		case models.CorrectedPrediction:
			confidence := p.OriginalConfidence
			setSection(&section, p.Section)
			section.Confidence = &confidence
			section.OfficerAction = models.OfficerActionCorrected
			section.OfficerFeedback = p.Notes
			section.OriginalAIPrediction = p.Original.SectionNumber
		case models.ManualPrediction:
			setSection(&section, p.Section)
			section.Confidence = nil
			section.IsManual = true
			section.OfficerAction = models.OfficerActionManual
		}
		sections = append(sections, section)
	}
	return sections
}

func setSection(dst *models.FIRSection, src models.LegalSection) {
	dst.SectionNumber = src.SectionNumber
	dst.Title = src.Title
	dst.Description = src.Description
	dst.Punishment = src.Punishment
	dst.Category = src.Category
}

// AIFeedback converts the feedback set to training records. Only decisions on AI suggestions are kept.
func (d *Draft) AIFeedback(complaintText string) []models.AIFeedback {
	var records []models.AIFeedback
	for _, record := range d.Feedback() {
		_, p, err := d.find(record.PredictionID)
		if err != nil {
			continue
		}
		feedback := models.AIFeedback{ //nolint:exhaustruct // ids are assigned by the store
			ComplaintText:    complaintText,
			OfficerAction:    record.Action,
			CorrectedSection: record.CorrectedSection,
			FeedbackNotes:    record.FeedbackNotes,
		}
		switch p := p.(type) {
		case models.AIPrediction:
			feedback.AIPredictedSection = p.Section.SectionNumber
			feedback.AIConfidence = p.Confidence
			feedback.OriginalDescription = p.Section.Description
		case models.CorrectedPrediction:
			feedback.AIPredictedSection = p.Original.SectionNumber
			feedback.AIConfidence = p.OriginalConfidence
			feedback.OriginalDescription = p.Original.Description
			feedback.CorrectedDescription = p.Section.Description
		default:
			continue
		}
		if feedback.AIPredictedSection == "" {
			continue
		}
		records = append(records, feedback)
	}
	return records
}
