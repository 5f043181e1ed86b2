package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

const projectColumns = `id, title, slug, description, tech_stack, image_url, repo_url, demo_url, featured, sort_order, created_at, updated_at`

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List() ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.Select(&projects, `SELECT `+projectColumns+` FROM projects ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) GetBySlug(slug string) (*models.Project, error) {
	var p models.Project
	err := r.db.Get(&p, `SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetByID(id int) (*models.Project, error) {
	var p models.Project
	err := r.db.Get(&p, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(p *models.Project) error {
	query := `
		INSERT INTO projects (title, slug, description, tech_stack, image_url, repo_url, demo_url, featured, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(query,
		p.Title, p.Slug, p.Description, p.TechStack, p.ImageURL, p.RepoURL, p.DemoURL, p.Featured, p.SortOrder,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepository) Update(p *models.Project) error {
	query := `
		UPDATE projects
		SET title = $1, slug = $2, description = $3, tech_stack = $4, image_url = $5,
		    repo_url = $6, demo_url = $7, featured = $8, sort_order = $9, updated_at = now()
		WHERE id = $10
		RETURNING updated_at
	`
	err := r.db.QueryRow(query,
		p.Title, p.Slug, p.Description, p.TechStack, p.ImageURL, p.RepoURL, p.DemoURL, p.Featured, p.SortOrder, p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

func (r *ProjectRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
