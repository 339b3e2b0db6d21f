package services

import (
	"context"

	"github.com/dmitrijs2005/invkeeper/internal/locator"
	"github.com/dmitrijs2005/invkeeper/internal/logging"
	"github.com/dmitrijs2005/invkeeper/internal/models"
)

type ListService interface {
	List(ctx context.Context) []models.DiscoveredFile
}

type listService struct {
	roots []string
	log   logging.Logger
}

func NewListService(roots []string, log logging.Logger) ListService {
	return &listService{roots: roots, log: log}
}

func (s *listService) List(ctx context.Context) []models.DiscoveredFile {
	return locator.Discover(ctx, s.roots, locator.InventoryMatch, s.log)
}
