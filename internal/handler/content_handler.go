package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/repository"
	"github.com/halcyonlabs/portfolio-api/internal/service"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// ContentHandler serves the remaining portfolio content: skills,
// certifications, and the contact block.
type ContentHandler struct {
	content *service.ContentService
	skills  *repository.SkillRepository
	certs   *repository.CertificationRepository
	contact *repository.ContactRepository
}

func NewContentHandler(content *service.ContentService, skills *repository.SkillRepository, certs *repository.CertificationRepository, contact *repository.ContactRepository) *ContentHandler {
	return &ContentHandler{content: content, skills: skills, certs: certs, contact: contact}
}

// --- public reads ---

func (h *ContentHandler) ListSkills(c *gin.Context) {
	skills, err := h.content.Skills(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load skills")
		return
	}
	utils.Success(c, 200, "OK", gin.H{"skills": skills})
}

func (h *ContentHandler) ListCertifications(c *gin.Context) {
	certs, err := h.content.Certifications(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load certifications")
		return
	}
	utils.Success(c, 200, "OK", gin.H{"certifications": certs})
}

func (h *ContentHandler) GetContact(c *gin.Context) {
	info, err := h.content.Contact(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load contact info")
		return
	}
	utils.Success(c, 200, "OK", gin.H{"contact": info})
}

// --- admin mutations ---

func (h *ContentHandler) CreateSkill(c *gin.Context) {
	var s models.Skill
	if err := c.ShouldBindJSON(&s); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if s.Name == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "name is required")
		return
	}

	if err := h.skills.Create(&s); err != nil {
		log.Error().Err(err).Msg("failed to create skill")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create skill")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 201, "Skill created", gin.H{"skill": s})
}

func (h *ContentHandler) UpdateSkill(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid skill id")
		return
	}

	var s models.Skill
	if err := c.ShouldBindJSON(&s); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	s.ID = id

	if err := h.skills.Update(&s); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Skill not found")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("failed to update skill")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update skill")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 200, "Skill updated", gin.H{"skill": s})
}

func (h *ContentHandler) DeleteSkill(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid skill id")
		return
	}

	if err := h.skills.Delete(id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Skill not found")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("failed to delete skill")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete skill")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 200, "Skill deleted", nil)
}

func (h *ContentHandler) CreateCertification(c *gin.Context) {
	var cert models.Certification
	if err := c.ShouldBindJSON(&cert); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if cert.Name == "" || cert.Issuer == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "name and issuer are required")
		return
	}

	if err := h.certs.Create(&cert); err != nil {
		log.Error().Err(err).Msg("failed to create certification")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create certification")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 201, "Certification created", gin.H{"certification": cert})
}

func (h *ContentHandler) UpdateCertification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid certification id")
		return
	}

	var cert models.Certification
	if err := c.ShouldBindJSON(&cert); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	cert.ID = id

	if err := h.certs.Update(&cert); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Certification not found")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("failed to update certification")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update certification")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 200, "Certification updated", gin.H{"certification": cert})
}

func (h *ContentHandler) DeleteCertification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid certification id")
		return
	}

	if err := h.certs.Delete(id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Certification not found")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("failed to delete certification")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete certification")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 200, "Certification deleted", nil)
}

func (h *ContentHandler) UpdateContact(c *gin.Context) {
	var info models.ContactInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if info.Email == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "email is required")
		return
	}

	if err := h.contact.Upsert(&info); err != nil {
		log.Error().Err(err).Msg("failed to update contact info")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update contact info")
		return
	}
	h.content.InvalidateContent(c.Request.Context())
	utils.Success(c, 200, "Contact info updated", gin.H{"contact": info})
}
