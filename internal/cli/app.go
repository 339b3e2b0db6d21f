package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/invkeeper/internal/config"
	"github.com/dmitrijs2005/invkeeper/internal/container"
	"github.com/dmitrijs2005/invkeeper/internal/credentials"
	"github.com/dmitrijs2005/invkeeper/internal/database"
	"github.com/dmitrijs2005/invkeeper/internal/filex"
	"github.com/dmitrijs2005/invkeeper/internal/ingest"
	"github.com/dmitrijs2005/invkeeper/internal/locator"
	"github.com/dmitrijs2005/invkeeper/internal/logging"
	"github.com/dmitrijs2005/invkeeper/internal/rotation"
	"github.com/dmitrijs2005/invkeeper/internal/services"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *database.DB

	importService   services.ImportService
	passwordService services.PasswordService
	exportService   services.ExportService
	listService     services.ListService
	projectService  services.ProjectService

	reader *bufio.Reader
}

// NewApp opens the database and builds the services. Logs go to logOut.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer, codec *container.Codec) (*App, error) {
	log, err := logging.New(c.Log.Format, c.Log.Level, logOut)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, c.Database.Driver, c.Database.DSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "driver", c.Database.Driver, "error", err)
		return nil, err
	}

	outputDir, err := filex.EnsureSubdDir(c.ProjectsSubdir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("projects directory: %w", err)
	}

	if codec == nil {
		codec = container.NewCodec()
	}
	store := credentials.NewMetadataStore(db, c.DefaultPassword)
	roots := locator.DefaultRoots(c.ProjectsSubdir, c.ProjectsDir)

	orchestrator := rotation.New(codec, log)
	orchestrator.Throttle = c.Rotation.Throttle
	orchestrator.AcceptAlreadyRotated = c.Rotation.AcceptAlreadyRotated

	loader := ingest.NewLoader(db.Inventory(), log, c.Ingest.Sheet)

	return &App{
		config: c,
		log:    log,
		db:     db,

		importService:   services.NewImportService(store, codec, db.Projects(db.DB), loader, outputDir, c.LegacyPasswords, log),
		passwordService: services.NewPasswordService(store, orchestrator, roots, log),
		exportService:   services.NewExportService(store, codec),
		listService:     services.NewListService(roots, log),
		projectService:  services.NewProjectService(db.Projects(db.DB), db.Inventory()),

		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Close flushes the logger and closes the database.
func (a *App) Close() error {
	if s, ok := a.log.(logging.Syncer); ok {
		_ = s.Sync()
	}
	return a.db.Close()
}
