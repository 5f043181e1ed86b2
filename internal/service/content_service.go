package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/halcyonlabs/portfolio-api/internal/cache"
	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

//go:embed fallback_content.json
var fallbackContent []byte

// fallbackData mirrors the public content shape; served when the primary
// store is unavailable.
type fallbackData struct {
	Projects       []models.Project       `json:"projects"`
	Skills         []models.Skill         `json:"skills"`
	Certifications []models.Certification `json:"certifications"`
	Contact        models.ContactInfo     `json:"contact"`
}

type projectReader interface {
	List() ([]models.Project, error)
	GetBySlug(slug string) (*models.Project, error)
}

type skillReader interface {
	List() ([]models.Skill, error)
}

type certificationReader interface {
	List() ([]models.Certification, error)
}

type contactReader interface {
	Get() (*models.ContactInfo, error)
}

// ContentService serves public portfolio content with a two-tier read
// strategy: the database is the primary source; on store failure the
// embedded seed content is served instead, and the fallback is surfaced
// in the logs so it is never indistinguishable from primary success.
// Reads go through the redis content cache when one is configured.
type ContentService struct {
	projects projectReader
	skills   skillReader
	certs    certificationReader
	contact  contactReader
	cache    *cache.ContentCache
	fallback fallbackData
}

func NewContentService(projects projectReader, skills skillReader, certs certificationReader, contact contactReader, contentCache *cache.ContentCache) *ContentService {
	s := &ContentService{
		projects: projects,
		skills:   skills,
		certs:    certs,
		contact:  contact,
		cache:    contentCache,
	}
	if err := json.Unmarshal(fallbackContent, &s.fallback); err != nil {
		// The embedded seed ships with the binary; a parse failure is a
		// build defect, not a runtime condition.
		log.Error().Err(err).Msg("embedded fallback content is malformed")
	}
	return s
}

// Projects returns all projects, cache first, then DB, then fallback.
func (s *ContentService) Projects(ctx context.Context) ([]models.Project, error) {
	var cached []models.Project
	if ok, _ := s.cache.Get(ctx, cache.KeyProjects, &cached); ok {
		return cached, nil
	}

	projects, err := s.projects.List()
	if err != nil {
		log.Warn().Err(err).Msg("serving fallback content: projects")
		return s.fallback.Projects, nil
	}

	if err := s.cache.Set(ctx, cache.KeyProjects, projects); err != nil {
		log.Warn().Err(err).Msg("failed to cache projects")
	}
	return projects, nil
}

// ProjectBySlug returns a single project. The fallback tier is scanned by
// slug when the store is unavailable.
func (s *ContentService) ProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	p, err := s.projects.GetBySlug(slug)
	if err == nil {
		return p, nil
	}
	if isStoreFailure(err) {
		log.Warn().Err(err).Str("slug", slug).Msg("serving fallback content: project")
		for i := range s.fallback.Projects {
			if s.fallback.Projects[i].Slug == slug {
				return &s.fallback.Projects[i], nil
			}
		}
	}
	return nil, err
}

// Skills returns all skills.
func (s *ContentService) Skills(ctx context.Context) ([]models.Skill, error) {
	var cached []models.Skill
	if ok, _ := s.cache.Get(ctx, cache.KeySkills, &cached); ok {
		return cached, nil
	}

	skills, err := s.skills.List()
	if err != nil {
		log.Warn().Err(err).Msg("serving fallback content: skills")
		return s.fallback.Skills, nil
	}

	if err := s.cache.Set(ctx, cache.KeySkills, skills); err != nil {
		log.Warn().Err(err).Msg("failed to cache skills")
	}
	return skills, nil
}

// Certifications returns all certifications.
func (s *ContentService) Certifications(ctx context.Context) ([]models.Certification, error) {
	var cached []models.Certification
	if ok, _ := s.cache.Get(ctx, cache.KeyCertifications, &cached); ok {
		return cached, nil
	}

	certs, err := s.certs.List()
	if err != nil {
		log.Warn().Err(err).Msg("serving fallback content: certifications")
		return s.fallback.Certifications, nil
	}

	if err := s.cache.Set(ctx, cache.KeyCertifications, certs); err != nil {
		log.Warn().Err(err).Msg("failed to cache certifications")
	}
	return certs, nil
}

// Contact returns the contact block.
func (s *ContentService) Contact(ctx context.Context) (*models.ContactInfo, error) {
	var cached models.ContactInfo
	if ok, _ := s.cache.Get(ctx, cache.KeyContact, &cached); ok {
		return &cached, nil
	}

	info, err := s.contact.Get()
	if err != nil {
		log.Warn().Err(err).Msg("serving fallback content: contact")
		fb := s.fallback.Contact
		return &fb, nil
	}

	if err := s.cache.Set(ctx, cache.KeyContact, info); err != nil {
		log.Warn().Err(err).Msg("failed to cache contact info")
	}
	return info, nil
}

// InvalidateContent drops all cached public content. Called by admin
// mutation handlers.
func (s *ContentService) InvalidateContent(ctx context.Context) {
	err := s.cache.Invalidate(ctx, cache.KeyProjects, cache.KeySkills, cache.KeyCertifications, cache.KeyContact)
	if err != nil {
		log.Warn().Err(err).Msg("failed to invalidate content cache")
	}
}

// isStoreFailure distinguishes infrastructure failures (fallback-eligible)
// from a plain missing row.
func isStoreFailure(err error) bool {
	return err != nil && !errors.Is(err, utils.ErrNotFound)
}
