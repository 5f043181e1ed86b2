package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// SkillRepository handles skill rows.
type SkillRepository struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) List() ([]models.Skill, error) {
	skills := []models.Skill{}
	err := r.db.Select(&skills, `
		SELECT id, name, category, level, sort_order, created_at, updated_at
		FROM skills ORDER BY category ASC, sort_order ASC
	`)
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *SkillRepository) Create(s *models.Skill) error {
	return r.db.QueryRow(`
		INSERT INTO skills (name, category, level, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, s.Name, s.Category, s.Level, s.SortOrder).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SkillRepository) Update(s *models.Skill) error {
	err := r.db.QueryRow(`
		UPDATE skills
		SET name = $1, category = $2, level = $3, sort_order = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, s.Name, s.Category, s.Level, s.SortOrder, s.ID).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

func (r *SkillRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// CertificationRepository handles certification rows.
type CertificationRepository struct {
	db *sqlx.DB
}

func NewCertificationRepository(db *sqlx.DB) *CertificationRepository {
	return &CertificationRepository{db: db}
}

func (r *CertificationRepository) List() ([]models.Certification, error) {
	certs := []models.Certification{}
	err := r.db.Select(&certs, `
		SELECT id, name, issuer, issued_at, credential_url, created_at, updated_at
		FROM certifications ORDER BY issued_at DESC NULLS LAST
	`)
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *CertificationRepository) Create(c *models.Certification) error {
	return r.db.QueryRow(`
		INSERT INTO certifications (name, issuer, issued_at, credential_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Issuer, c.IssuedAt, c.CredentialURL).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CertificationRepository) Update(c *models.Certification) error {
	err := r.db.QueryRow(`
		UPDATE certifications
		SET name = $1, issuer = $2, issued_at = $3, credential_url = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, c.Name, c.Issuer, c.IssuedAt, c.CredentialURL, c.ID).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

func (r *CertificationRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM certifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// ContactRepository handles the single contact_info row.
type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Get() (*models.ContactInfo, error) {
	var info models.ContactInfo
	err := r.db.Get(&info, `
		SELECT id, email, location, github_url, linkedin_url, updated_at
		FROM contact_info ORDER BY id ASC LIMIT 1
	`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &info, nil
}

// Upsert writes the contact block, creating the row if it does not exist.
func (r *ContactRepository) Upsert(info *models.ContactInfo) error {
	return r.db.QueryRow(`
		INSERT INTO contact_info (id, email, location, github_url, linkedin_url)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, location = EXCLUDED.location,
		    github_url = EXCLUDED.github_url, linkedin_url = EXCLUDED.linkedin_url,
		    updated_at = now()
		RETURNING id, updated_at
	`, info.Email, info.Location, info.GithubURL, info.LinkedIn).Scan(&info.ID, &info.UpdatedAt)
}
