package prediction

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

// ErrParse is returned when the model reply holds no usable predictions.
var ErrParse = errors.NewSentinel("unparsable model reply")

const (
	defaultSectionNumber = "Section (unspecified)"
	defaultTitle         = "Legal Provision"
	defaultDescription   = "Description of the legal provision"
	defaultPunishment    = "As per legal provisions"
	defaultCategory      = "Legal Offense"
	maxConfidence        = 100
)

// DefaultConfidence is assumed for a suggested section that comes without a usable confidence.
const DefaultConfidence = 75

// arrayPattern finds the outermost JSON array in free text.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// parseReply extracts the prediction objects from the model reply.
//
// The structured object {"sections": [...]} is tried first. The first [...] substring of the text is the last resort.
// Entries that aren't JSON objects are dropped.
func parseReply(content string) ([]map[string]any, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.Wrap(ErrParse, "empty reply")
	}

	var (
		entries []json.RawMessage
		object  map[string]json.RawMessage
	)
	if err := json.Unmarshal([]byte(content), &object); err == nil {
		for _, key := range []string{"sections", "predictions"} {
			if raw, ok := object[key]; ok {
				if err = json.Unmarshal(raw, &entries); err != nil {
					return nil, errors.Mark(errors.Wrap(err, "decode sections"), ErrParse)
				}
				break
			}
		}
		if _, single := object["sectionNumber"]; entries == nil && single {
			entries = []json.RawMessage{json.RawMessage(content)}
		}
	}
	if entries == nil {
		match := arrayPattern.FindString(content)
		if match == "" {
			return nil, errors.Wrap(ErrParse, "no JSON array in reply")
		}
		if err := json.Unmarshal([]byte(match), &entries); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "decode extracted array"), ErrParse)
		}
	}

	results := make([]map[string]any, 0, len(entries))
	for _, raw := range entries {
		var entry map[string]any
		if err := json.Unmarshal(raw, &entry); err != nil || entry == nil {
			continue
		}
		results = append(results, entry)
	}
	if len(results) == 0 {
		return nil, errors.Wrap(ErrParse, "no prediction objects in reply")
	}
	return results, nil
}

// normalize turns a decoded entry into a prediction with every field set and confidence within [0, 100].
func normalize(n int, entry map[string]any) models.AIPrediction {
	return models.AIPrediction{
		ID: "pred-" + strconv.Itoa(n),
		Section: models.LegalSection{
			SectionNumber: sectionNumber(entry["sectionNumber"]),
			Title:         stringOr(entry["title"], defaultTitle),
			Description:   stringOr(entry["description"], defaultDescription),
			Punishment:    stringOr(entry["punishment"], defaultPunishment),
			Category:      stringOr(entry["category"], defaultCategory),
			Keywords:      nil,
		},
		Confidence: confidence(entry["confidence"]),
		Action:     models.OfficerActionUnset,
	}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return fallback
}

// sectionNumber accepts "Section 303", "303" or 303.
func sectionNumber(v any) string {
	switch t := v.(type) {
	case float64:
		if t > 0 && t == math.Trunc(t) {
			return "Section " + strconv.FormatFloat(t, 'f', -1, 64)
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return defaultSectionNumber
		}
		if _, err := strconv.Atoi(s); err == nil {
			return "Section " + s
		}
		return s
	}
	return defaultSectionNumber
}

// confidence accepts numbers and numeric strings such as "85" or "85%". Anything else gets the default.
func confidence(v any) float64 {
	var c float64
	switch t := v.(type) {
	case float64:
		c = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%")), 64)
		if err != nil {
			return DefaultConfidence
		}
		c = parsed
	default:
		return DefaultConfidence
	}
	if math.IsNaN(c) {
		return DefaultConfidence
	}
	return math.Round(min(maxConfidence, max(0, c)))
}
