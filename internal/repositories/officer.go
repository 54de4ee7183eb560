package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
	"golang.org/x/crypto/bcrypt"
)

type OfficerRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewOfficerRepository(db *sqlite.Database, logger *slog.Logger) *OfficerRepository {
	return &OfficerRepository{
		db:     db,
		logger: logger.With(slog.String("source", "OfficerRepository")),
	}
}

// Create registers an officer login. The password is stored as a bcrypt hash.
func (r *OfficerRepository) Create(ctx context.Context, badgeNumber, name, password string) (*models.Officer, error) {
	var (
		hash    []byte
		res     sql.Result
		officer models.Officer
		err     error
	)
	badgeNumber = strings.TrimSpace(badgeNumber)
	if badgeNumber == "" {
		return nil, models.NewValidationError("badgeNumber", "is required")
	}
	if password == "" {
		return nil, models.NewValidationError("password", "is required")
	}
	if hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	if res, err = r.db.ReadWrite.ExecContext(ctx,
		`INSERT INTO officers (badge_number, name, password_hash) VALUES (?, ?, ?)`,
		badgeNumber, strings.TrimSpace(name), hash); err != nil {
		return nil, writeError(err, "badgeNumber", "insert officer", slog.String("badge_number", badgeNumber))
	}
	if officer.ID, err = res.LastInsertId(); err != nil {
		return nil, errors.Wrap(err, "read officer id")
	}
	if err = r.db.ReadWrite.GetContext(ctx, &officer,
		`SELECT id, badge_number, name, password_hash, created_at FROM officers WHERE id = ?`, officer.ID); err != nil {
		return nil, errors.Wrap(err, "read officer")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "created officer", slog.String("badge_number", badgeNumber))
	return &officer, nil
}

// Authenticate checks the credentials. Unknown badges and wrong passwords both fail with
// models.ErrInvalidCredentials.
func (r *OfficerRepository) Authenticate(ctx context.Context, badgeNumber, password string) (*models.Officer, error) {
	var officer models.Officer
	err := r.db.ReadOnly.GetContext(ctx, &officer,
		`SELECT id, badge_number, name, password_hash, created_at FROM officers WHERE badge_number = ?`,
		strings.TrimSpace(badgeNumber))
	if errors.Is(err, sql.ErrNoRows) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, errors.Wrap(models.ErrInvalidCredentials, "authenticate")
	}
	if err != nil {
		return nil, errors.Wrap(err, "get officer")
	}
	if err = bcrypt.CompareHashAndPassword(officer.PasswordHash, []byte(password)); err != nil {
		return nil, errors.Wrap(models.ErrInvalidCredentials, "authenticate",
			slog.String("badge_number", officer.BadgeNumber))
	}
	return &officer, nil
}

// dummyHash keeps the response time of unknown badges in line with wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not a password"), bcrypt.DefaultCost) //nolint:gochecknoglobals // computed once

func (r *OfficerRepository) Get(ctx context.Context, id int64) (*models.Officer, error) {
	var officer models.Officer
	if err := r.db.ReadOnly.GetContext(ctx, &officer,
		`SELECT id, badge_number, name, password_hash, created_at FROM officers WHERE id = ?`, id); err != nil {
		return nil, readError(err, "get officer", slog.Int64("officer_id", id))
	}
	return &officer, nil
}

// EnsureAdmin creates the bootstrap officer unless the badge is already registered.
func (r *OfficerRepository) EnsureAdmin(ctx context.Context, badgeNumber, name, password string) error {
	var exists bool
	if err := r.db.ReadWrite.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM officers WHERE badge_number = ?)`, badgeNumber); err != nil {
		return errors.Wrap(err, "check admin")
	}
	if exists {
		return nil
	}
	if _, err := r.Create(ctx, badgeNumber, name, password); err != nil {
		return errors.Wrap(err, "create admin")
	}
	return nil
}
