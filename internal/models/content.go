package models

import (
	"time"

	"github.com/lib/pq"
)

// Project is a portfolio entry shown on the public site.
type Project struct {
	ID          int            `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Slug        string         `db:"slug" json:"slug"`
	Description string         `db:"description" json:"description"`
	TechStack   pq.StringArray `db:"tech_stack" json:"techStack"`
	ImageURL    string         `db:"image_url" json:"imageUrl"`
	RepoURL     string         `db:"repo_url" json:"repoUrl"`
	DemoURL     string         `db:"demo_url" json:"demoUrl"`
	Featured    bool           `db:"featured" json:"featured"`
	SortOrder   int            `db:"sort_order" json:"sortOrder"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// Skill is a single entry in the skills grid, grouped by category.
type Skill struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Level     int       `db:"level" json:"level"`
	SortOrder int       `db:"sort_order" json:"sortOrder"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Certification is a credential listed on the public site. IssuedAt is
// nullable for credentials without a known issue date.
type Certification struct {
	ID            int        `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Issuer        string     `db:"issuer" json:"issuer"`
	IssuedAt      *time.Time `db:"issued_at" json:"issuedAt"`
	CredentialURL string     `db:"credential_url" json:"credentialUrl"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// ContactInfo is the single contact block. Exactly one row exists.
type ContactInfo struct {
	ID        int       `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Location  string    `db:"location" json:"location"`
	GithubURL string    `db:"github_url" json:"githubUrl"`
	LinkedIn  string    `db:"linkedin_url" json:"linkedinUrl"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
