package credentials

import (
	"context"
	"database/sql"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunUserStore is the bun backed UserStore implementation. Updates go
// through WherePK so each read-modify-write is a single-record statement.
type BunUserStore struct {
	db *bun.DB
}

var _ UserStore = (*BunUserStore)(nil)

// NewUserStore creates a UserStore on top of a bun database handle
func NewUserStore(db *bun.DB) *BunUserStore {
	return &BunUserStore{db: db}
}

// Init creates the users table if needed. The unique email index backs the
// DuplicateEmail error kind.
func (s *BunUserStore) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create users table")
	}
	return nil
}

func (s *BunUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	user := &User{}
	err = s.db.NewSelect().
		Model(user).
		Where("usr.id = ?", uid).
		Limit(1).
		Scan(ctx)

	return user, s.mapLookupErr(err)
}

func (s *BunUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := s.db.NewSelect().
		Model(user).
		Where("usr.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	return user, s.mapLookupErr(err)
}

func (s *BunUserStore) FindByConfirmTokenHash(ctx context.Context, hash string) (*User, error) {
	if hash == "" {
		return nil, ErrAccountNotFound
	}

	user := &User{}
	err := s.db.NewSelect().
		Model(user).
		Where("usr.confirm_token_hash = ?", hash).
		Where("usr.is_email_confirmed = ?", false).
		Limit(1).
		Scan(ctx)

	return user, s.mapLookupErr(err)
}

func (s *BunUserStore) FindByResetTokenHash(ctx context.Context, hash string) (*User, error) {
	if hash == "" {
		return nil, ErrAccountNotFound
	}

	user := &User{}
	err := s.db.NewSelect().
		Model(user).
		Where("usr.reset_token_hash = ?", hash).
		Limit(1).
		Scan(ctx)

	return user, s.mapLookupErr(err)
}

func (s *BunUserStore) Exists(ctx context.Context, email string) (bool, error) {
	count, err := s.db.NewSelect().
		Model((*User)(nil)).
		Where("usr.email = ?", NormalizeEmail(email)).
		Count(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email existence")
	}
	return count > 0, nil
}

func (s *BunUserStore) Create(ctx context.Context, user *User) (*User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = NormalizeEmail(user.Email)

	if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create user")
	}

	return user, nil
}

func (s *BunUserStore) Update(ctx context.Context, user *User) (*User, error) {
	if user.ID == uuid.Nil {
		return nil, ErrAccountNotFound
	}
	user.Email = NormalizeEmail(user.Email)

	now := time.Now().UTC()
	user.UpdatedAt = &now

	res, err := s.db.NewUpdate().
		Model(user).
		ExcludeColumn("created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrAccountNotFound
	}

	return user, nil
}

func (s *BunUserStore) mapLookupErr(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query user")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
