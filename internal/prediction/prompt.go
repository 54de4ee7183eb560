package prediction

import (
	"strings"

	"github.com/nyaya-ai/nyaya/internal/ai"
)

const systemPrompt = "You are a legal AI assistant specializing in Indian law (Bharatiya Nyaya Sanhita, 2023). " +
	"Always respond with valid JSON format."

// buildMessages asks for a JSON object {"sections": [...]} so that JSON mode can be used.
func buildMessages(complaintText string, incident Incident) []ai.Message {
	var b strings.Builder
	b.WriteString("Based on the following complaint, identify the most relevant legal sections of the " +
		"Bharatiya Nyaya Sanhita, 2023 that could apply.\n\n")
	b.WriteString("Complaint: \"")
	b.WriteString(complaintText)
	b.WriteString("\"\n")
	if incident.IncidentType != "" {
		b.WriteString("Incident type: ")
		b.WriteString(incident.IncidentType)
		b.WriteString("\n")
	}
	if incident.Location != "" {
		b.WriteString("Location: ")
		b.WriteString(incident.Location)
		b.WriteString("\n")
	}
	b.WriteString(`
Respond with a JSON object of the following structure:
{
  "sections": [
    {
      "sectionNumber": "Section XXX",
      "title": "Section title",
      "description": "Brief description of the section",
      "confidence": 85,
      "punishment": "Potential punishment",
      "category": "Category of offense"
    }
  ]
}

Focus on the most relevant sections (maximum 5). Confidence is a number from 0 to 100 reflecting how well the ` +
		`complaint matches the legal provision.`)

	return []ai.Message{
		{Role: ai.RoleSystem, Content: systemPrompt},
		{Role: ai.RoleUser, Content: b.String()},
	}
}
