package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/repository"
	"github.com/halcyonlabs/portfolio-api/internal/service"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// maxImageBytes caps project image uploads at 5 MiB.
const maxImageBytes = 5 << 20

// ProjectHandler serves public project reads and admin project CRUD.
type ProjectHandler struct {
	content  *service.ContentService
	projects *repository.ProjectRepository
	assets   *service.AssetService
}

func NewProjectHandler(content *service.ContentService, projects *repository.ProjectRepository, assets *service.AssetService) *ProjectHandler {
	return &ProjectHandler{content: content, projects: projects, assets: assets}
}

// ListPublic returns all projects through the two-tier read path.
func (h *ProjectHandler) ListPublic(c *gin.Context) {
	projects, err := h.content.Projects(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load projects")
		return
	}
	utils.Success(c, 200, "OK", gin.H{"projects": projects})
}

// GetPublic returns one project by slug.
func (h *ProjectHandler) GetPublic(c *gin.Context) {
	p, err := h.content.ProjectBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Project not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load project")
		return
	}
	utils.Success(c, 200, "OK", gin.H{"project": p})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if p.Title == "" || p.Slug == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "title and slug are required")
		return
	}

	if err := h.projects.Create(&p); err != nil {
		log.Error().Err(err).Msg("failed to create project")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create project")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 201, "Project created", gin.H{"project": p})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid project id")
		return
	}

	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	p.ID = id

	if err := h.projects.Update(&p); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Project not found")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("failed to update project")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update project")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 200, "Project updated", gin.H{"project": p})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid project id")
		return
	}

	if err := h.projects.Delete(id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Project not found")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("failed to delete project")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete project")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 200, "Project deleted", nil)
}

// UploadImage stores a project cover image and persists the resulting URL.
func (h *ProjectHandler) UploadImage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid project id")
		return
	}

	p, err := h.projects.GetByID(id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Project not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load project")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read upload")
		return
	}
	if len(data) > maxImageBytes {
		utils.Error(c, 400, "VALIDATION_ERROR", "image exceeds the 5MB limit")
		return
	}

	url, err := h.assets.UploadProjectImage(c.Request.Context(), p.Slug, data, header.Header.Get("Content-Type"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to store image")
		return
	}

	p.ImageURL = url
	if err := h.projects.Update(p); err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to persist image url")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update project")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 200, "Image uploaded", gin.H{"imageUrl": url})
}
