// Package services contains the application services behind the invkeeper
// commands. This file defines the import service: it opens a foreign
// inventory file with whatever password it was written under, re-encrypts it
// under the system password into the projects directory and loads its rows.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/container"
	"github.com/dmitrijs2005/invkeeper/internal/credentials"
	"github.com/dmitrijs2005/invkeeper/internal/filex"
	"github.com/dmitrijs2005/invkeeper/internal/ingest"
	"github.com/dmitrijs2005/invkeeper/internal/locator"
	"github.com/dmitrijs2005/invkeeper/internal/logging"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/projects"
	"github.com/dmitrijs2005/invkeeper/internal/workbook"
)

// ImportResult describes a completed import.
type ImportResult struct {
	// Path is where the re-encrypted container was written.
	Path string
	// Format and Scope tell how the source file was opened.
	Format container.Format
	Scope  credentials.Scope
	// Rows is the number of inventory rows stored.
	Rows int
}

type ImportService interface {
	Import(ctx context.Context, srcPath string, projectID int64) (*ImportResult, error)
}

type importService struct {
	store     credentials.Store
	codec     *container.Codec
	resolver  *container.Resolver
	projects  projects.Repository
	loader    *ingest.Loader
	outputDir string
	legacy    []string
	log       logging.Logger
}

func NewImportService(store credentials.Store, codec *container.Codec, projects projects.Repository,
	loader *ingest.Loader, outputDir string, legacy []string, log logging.Logger) ImportService {
	return &importService{
		store:     store,
		codec:     codec,
		resolver:  container.NewResolver(codec),
		projects:  projects,
		loader:    loader,
		outputDir: outputDir,
		legacy:    legacy,
		log:       log,
	}
}

// Import resolves srcPath against the candidate passwords (plaintext first),
// writes it under the system password as the project's inventory file and
// ingests its rows. A file no candidate opens yields common.ErrNotFound.
//
// The container is written before ingesting, so a database failure returns
// the result together with an error wrapping common.ErrDatabase.
func (s *importService) Import(ctx context.Context, srcPath string, projectID int64) (*ImportResult, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIO, err)
	}

	candidates, err := credentials.Candidates(ctx, s.store, s.legacy...)
	if err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(raw, candidates)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", filepath.Base(srcPath), err)
	}
	if !workbook.IsWorkbook(res.Payload) {
		return nil, fmt.Errorf("%w: %s does not contain a workbook", common.ErrCorrupt, filepath.Base(srcPath))
	}

	system, err := s.store.SystemPassword(ctx)
	if err != nil {
		return nil, err
	}
	sealed, err := s.codec.Encrypt(res.Payload, system)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0o770); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIO, err)
	}
	dest := filepath.Join(s.outputDir, locator.FileName(project.Index, project.Nombre))
	if err := filex.Replace(dest, sealed); err != nil {
		return nil, err
	}
	if err := filex.Protect(dest); err != nil {
		s.log.Debug(ctx, "protect failed", "file", dest, "error", err)
	}

	result := &ImportResult{Path: dest, Format: res.Format, Scope: res.Credential.Scope}
	s.log.Info(ctx, "inventory file imported", "source", srcPath, "dest", dest,
		"format", res.Format, "scope", res.Credential.Scope)

	rows, err := s.loader.Ingest(ctx, res.Payload, project.ID)
	result.Rows = rows
	if err != nil {
		return result, err
	}
	return result, nil
}
