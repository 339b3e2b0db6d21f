// Package projects stores the projects inventory rows belong to.
package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/dbx"
	"github.com/dmitrijs2005/invkeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, name string) (*models.Project, error)
	Get(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
}

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	now     func() time.Time
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLRepository) Create(ctx context.Context, name string) (*models.Project, error) {
	if name == "" {
		return nil, errors.New("project name is empty")
	}
	created := r.now().Truncate(time.Second)

	var id int64
	if r.dialect == dbx.Postgres {
		err := r.db.QueryRowContext(ctx,
			`INSERT INTO proyectos (nombre, creado) VALUES ($1, $2) RETURNING id`, name, created).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to create project %q: %w", name, err)
		}
	} else {
		res, err := r.db.ExecContext(ctx, `INSERT INTO proyectos (nombre, creado) VALUES (?, ?)`, name, created)
		if err != nil {
			return nil, fmt.Errorf("failed to create project %q: %w", name, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("failed to read project id: %w", err)
		}
	}

	return r.Get(ctx, id)
}

// Get returns the project with its 1-based index. A missing id wraps
// common.ErrNotFound.
func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Project, error) {
	p := models.Project{ID: id}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT nombre, creado, (SELECT COUNT(*) FROM proyectos q WHERE q.id <= p.id)
		   FROM proyectos p WHERE p.id = ?`), id).Scan(&p.Nombre, &p.Creado, &p.Index)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return &p, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre, creado FROM proyectos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p := models.Project{Index: len(out) + 1}
		if err := rows.Scan(&p.ID, &p.Nombre, &p.Creado); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", err)
	}
	return out, nil
}
