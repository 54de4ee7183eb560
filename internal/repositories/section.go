package repositories

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	keywordSeparator   = ","
)

// sectionRow stores keywords as one comma separated column.
type sectionRow struct {
	SectionNumber string `db:"section_number"`
	Title         string `db:"title"`
	Description   string `db:"description"`
	Punishment    string `db:"punishment"`
	Category      string `db:"category"`
	Keywords      string `db:"keywords"`
}

func (row sectionRow) section() models.LegalSection {
	var keywords []string
	if row.Keywords != "" {
		keywords = strings.Split(row.Keywords, keywordSeparator)
	}
	return models.LegalSection{
		SectionNumber: row.SectionNumber,
		Title:         row.Title,
		Description:   row.Description,
		Punishment:    row.Punishment,
		Category:      row.Category,
		Keywords:      keywords,
	}
}

// SectionRepository serves the legal section catalog to citizens.
type SectionRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewSectionRepository(db *sqlite.Database, logger *slog.Logger) *SectionRepository {
	return &SectionRepository{
		db:     db,
		logger: logger.With(slog.String("source", "SectionRepository")),
	}
}

// Sync upserts the catalog by section number.
func (r *SectionRepository) Sync(ctx context.Context, sections []models.LegalSection) error {
	var (
		tx  *sqlx.Tx
		err error
	)
	if tx, err = r.db.ReadWrite.BeginTxx(ctx, nil); err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := `INSERT INTO legal_sections (section_number, title, description, punishment, category, keywords)
VALUES (:section_number, :title, :description, :punishment, :category, :keywords)
ON CONFLICT (section_number) DO UPDATE SET title       = excluded.title,
                                           description = excluded.description,
                                           punishment  = excluded.punishment,
                                           category    = excluded.category,
                                           keywords    = excluded.keywords`
	for _, s := range sections {
		row := sectionRow{
			SectionNumber: s.SectionNumber,
			Title:         s.Title,
			Description:   s.Description,
			Punishment:    s.Punishment,
			Category:      s.Category,
			Keywords:      strings.ToLower(strings.Join(s.Keywords, keywordSeparator)),
		}
		if _, err = tx.NamedExecContext(ctx, stmt, row); err != nil {
			return errors.Wrap(err, "upsert section", slog.String("section_number", s.SectionNumber))
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit catalog")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "synced legal catalog", slog.Int("sections", len(sections)))
	return nil
}

// Search matches query case-insensitively against section number, title, description and keywords. An empty query
// lists the catalog. Results are ordered by section number.
func (r *SectionRepository) Search(
	ctx context.Context,
	query string,
	category string,
	limit int,
) ([]models.LegalSection, error) {
	var (
		rows   []sectionRow
		where  = []string{"1 = 1"}
		params = map[string]any{}
		stmt   string
		args   []any
		err    error
	)
	if query = strings.TrimSpace(query); query != "" {
		where = append(where, `(section_number LIKE :pattern ESCAPE '\' OR title LIKE :pattern ESCAPE '\'
       OR description LIKE :pattern ESCAPE '\' OR keywords LIKE :pattern ESCAPE '\')`)
		params["pattern"] = "%" + escapeLike(query) + "%"
	}
	if category = strings.TrimSpace(category); category != "" {
		where = append(where, `category = :category COLLATE NOCASE`)
		params["category"] = category
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	params["limit"] = min(limit, maxSearchLimit)

	// LIKE is case-insensitive for ASCII in SQLite.
	if stmt, args, err = sqlx.Named(`SELECT section_number, title, description, punishment, category, keywords
FROM legal_sections
WHERE `+strings.Join(where, " AND ")+`
ORDER BY CAST(ltrim(section_number, 'Section ') AS INTEGER), section_number
LIMIT :limit`, params); err != nil {
		return nil, errors.Wrap(err, "build search query")
	}
	if err = r.db.ReadOnly.SelectContext(ctx, &rows, r.db.ReadOnly.Rebind(stmt), args...); err != nil {
		return nil, errors.Wrap(err, "search sections", slog.String("query", query))
	}
	sections := make([]models.LegalSection, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, row.section())
	}
	return sections, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Get returns the section with the given number, e.g. "Section 303".
func (r *SectionRepository) Get(ctx context.Context, sectionNumber string) (*models.LegalSection, error) {
	var row sectionRow
	stmt := `SELECT section_number, title, description, punishment, category, keywords
FROM legal_sections
WHERE section_number = ? COLLATE NOCASE`
	if err := r.db.ReadOnly.GetContext(ctx, &row, stmt, strings.TrimSpace(sectionNumber)); err != nil {
		return nil, readError(err, "get section", slog.String("section_number", sectionNumber))
	}
	section := row.section()
	return &section, nil
}
