package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/credentials"
	"github.com/dmitrijs2005/invkeeper/internal/locator"
	"github.com/dmitrijs2005/invkeeper/internal/logging"
	"github.com/dmitrijs2005/invkeeper/internal/models"
	"github.com/dmitrijs2005/invkeeper/internal/rotation"
)

// PasswordService changes the system password and re-encrypts every
// discovered inventory file to match.
type PasswordService interface {
	ChangePassword(ctx context.Context, newPassword string, onProgress rotation.ProgressFunc) (models.Summary, error)
	HasCustomPassword(ctx context.Context) (bool, error)
}

type passwordService struct {
	store        credentials.Store
	orchestrator *rotation.Orchestrator
	roots        []string
	log          logging.Logger
}

func NewPasswordService(store credentials.Store, orchestrator *rotation.Orchestrator, roots []string, log logging.Logger) PasswordService {
	return &passwordService{store: store, orchestrator: orchestrator, roots: roots, log: log}
}

// ChangePassword captures the current password, stores newPassword and then
// rotates every discovered file from the old password to the new one.
// Per-file failures are reported in the summary only.
func (s *passwordService) ChangePassword(ctx context.Context, newPassword string, onProgress rotation.ProgressFunc) (models.Summary, error) {
	if newPassword == "" {
		return models.Summary{}, common.ErrEmptyPassword
	}

	old, err := s.store.SystemPassword(ctx)
	if err != nil {
		return models.Summary{}, err
	}

	if err := s.store.SetSystemPassword(ctx, newPassword); err != nil {
		return models.Summary{}, fmt.Errorf("persist new password: %w", err)
	}

	files := locator.Discover(ctx, s.roots, locator.InventoryMatch, s.log)
	s.log.Info(ctx, "rotating inventory files", "files", len(files))

	return s.orchestrator.Run(ctx, files, old, newPassword, onProgress)
}

func (s *passwordService) HasCustomPassword(ctx context.Context) (bool, error) {
	return s.store.HasCustomPassword(ctx)
}
