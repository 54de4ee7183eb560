package models

// LegalSection is an entry of the BNS legal section catalog.
type LegalSection struct {
	SectionNumber string   `db:"section_number" json:"sectionNumber" yaml:"sectionNumber"`
	Title         string   `db:"title"          json:"title"         yaml:"title"`
	Description   string   `db:"description"    json:"description"   yaml:"description"`
	Punishment    string   `db:"punishment"     json:"punishment"    yaml:"punishment"`
	Category      string   `db:"category"       json:"category"      yaml:"category"`
	Keywords      []string `db:"-"              json:"keywords"      yaml:"keywords"`
}
