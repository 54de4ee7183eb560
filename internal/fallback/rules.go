package fallback

import "github.com/nyaya-ai/nyaya/internal/models"

// Rule maps any of its keywords to a legal section.
type Rule struct {
	Keywords   []string
	Section    models.LegalSection
	Confidence float64
}

// DefaultRules are checked in declaration order.
var DefaultRules = []Rule{ //nolint:gochecknoglobals // static table
	{
		Keywords: []string{"theft", "stole", "steal", "snatch"},
		Section: models.LegalSection{
			SectionNumber: "Section 303",
			Title:         "Theft",
			Description: "Whoever, intending to take dishonestly any movable property out of the possession of any " +
				"person without that person's consent, moves that property in order to such taking, commits theft.",
			Punishment: "Imprisonment up to 3 years, fine, or both",
			Category:   "Property Offense",
			Keywords:   nil,
		},
		Confidence: 85, //nolint:mnd // rule confidence
	},
	{
		Keywords: []string{"rape", "sexual assault"},
		Section: models.LegalSection{
			SectionNumber: "Section 64",
			Title:         "Punishment for rape",
			Description:   "Whoever commits rape shall be punished with rigorous imprisonment.",
			Punishment: "Rigorous imprisonment not less than 10 years, which may extend to imprisonment for life, " +
				"and fine",
			Category: "Offense against Women",
			Keywords: nil,
		},
		Confidence: 92, //nolint:mnd // rule confidence
	},
	{
		Keywords: []string{"assault", "attack", "hit", "beat"},
		Section: models.LegalSection{
			SectionNumber: "Section 131",
			Title:         "Punishment for assault or criminal force otherwise than on grave provocation",
			Description: "Assaulting or using criminal force on any person otherwise than on grave and sudden " +
				"provocation given by that person.",
			Punishment: "Imprisonment up to 3 months, fine up to ₹1,000, or both",
			Category:   "Physical Offense",
			Keywords:   nil,
		},
		Confidence: 80, //nolint:mnd // rule confidence
	},
	{
		Keywords: []string{"harassment", "eve teasing", "stalk"},
		Section: models.LegalSection{
			SectionNumber: "Section 75",
			Title:         "Sexual harassment",
			Description: "Physical contact and advances involving unwelcome and explicit sexual overtures, demand for " +
				"sexual favours, showing pornography or making sexually coloured remarks.",
			Punishment: "Rigorous imprisonment up to 3 years, fine, or both",
			Category:   "Offense against Women",
			Keywords:   nil,
		},
		Confidence: 90, //nolint:mnd // rule confidence
	},
	{
		Keywords: []string{"fraud", "cheat", "deceive", "scam"},
		Section: models.LegalSection{
			SectionNumber: "Section 318",
			Title:         "Cheating",
			Description: "Deceiving any person and thereby fraudulently or dishonestly inducing the person to deliver " +
				"any property or to do or omit anything they would not otherwise do.",
			Punishment: "Imprisonment up to 3 years, fine, or both",
			Category:   "Financial Offense",
			Keywords:   nil,
		},
		Confidence: 75, //nolint:mnd // rule confidence
	},
	{
		Keywords: []string{"threat", "intimidat"},
		Section: models.LegalSection{
			SectionNumber: "Section 351",
			Title:         "Criminal intimidation",
			Description: "Threatening another with injury to their person, reputation or property with intent to " +
				"cause alarm or to make them do an act they are not legally bound to do.",
			Punishment: "Imprisonment up to 2 years, fine, or both",
			Category:   "Intimidation",
			Keywords:   nil,
		},
		Confidence: 70, //nolint:mnd // rule confidence
	},
	{
		Keywords: []string{"murder", "killed"},
		Section: models.LegalSection{
			SectionNumber: "Section 103",
			Title:         "Punishment for murder",
			Description:   "Whoever commits murder shall be punished with death or imprisonment for life.",
			Punishment:    "Death or imprisonment for life, and fine",
			Category:      "Offense against Body",
			Keywords:      nil,
		},
		Confidence: 90, //nolint:mnd // rule confidence
	},
}

// GenericRule is returned when no other rule matches.
var GenericRule = Rule{ //nolint:gochecknoglobals // static table
	Keywords: nil,
	Section: models.LegalSection{
		SectionNumber: "Section 270",
		Title:         "Public nuisance",
		Description: "Any act or illegal omission which causes common injury, danger or annoyance to the public or " +
			"to people in general who dwell or occupy property in the vicinity.",
		Punishment: "Fine up to ₹1,000",
		Category:   "Public Order",
		Keywords:   nil,
	},
	Confidence: 60, //nolint:mnd // rule confidence
}
