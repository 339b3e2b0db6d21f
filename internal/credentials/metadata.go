package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/invkeeper/internal/database"
	"github.com/dmitrijs2005/invkeeper/internal/dbx"
)

const (
	keySystemPassword = "system_password"
	keyCustomPassword = "system_password_custom"
)

// MetadataStore persists the system password in the metadata table. Until a
// password is set explicitly the configured default is reported.
type MetadataStore struct {
	db              *database.DB
	defaultPassword string
}

func NewMetadataStore(db *database.DB, defaultPassword string) *MetadataStore {
	return &MetadataStore{db: db, defaultPassword: defaultPassword}
}

func (s *MetadataStore) System(ctx context.Context) (Credential, error) {
	p, err := s.SystemPassword(ctx)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Password: p, Scope: ScopeSystem}, nil
}

func (s *MetadataStore) SystemPassword(ctx context.Context) (string, error) {
	v, err := s.db.Metadata(s.db).Get(ctx, keySystemPassword)
	if err != nil {
		return "", fmt.Errorf("read system password: %w", err)
	}
	if v == nil {
		return s.defaultPassword, nil
	}
	return string(v), nil
}

// SetSystemPassword stores the password and the custom flag in one
// transaction; the value is committed when this returns nil.
func (s *MetadataStore) SetSystemPassword(ctx context.Context, password string) error {
	err := dbx.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.db.Metadata(tx)
		if err := repo.Set(ctx, keySystemPassword, []byte(password)); err != nil {
			return err
		}
		return repo.Set(ctx, keyCustomPassword, []byte{1})
	})
	if err != nil {
		return fmt.Errorf("store system password: %w", err)
	}
	return nil
}

func (s *MetadataStore) HasCustomPassword(ctx context.Context) (bool, error) {
	v, err := s.db.Metadata(s.db).Get(ctx, keyCustomPassword)
	if err != nil {
		return false, fmt.Errorf("read custom password flag: %w", err)
	}
	return len(v) == 1 && v[0] == 1, nil
}
