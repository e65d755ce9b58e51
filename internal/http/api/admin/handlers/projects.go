package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cardly-iq/cardly/internal/cache"
	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/cardly-iq/cardly/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectHandler handles admin operations for the partner directory.
type ProjectHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(db *gorm.DB, cache *cache.Cache) *ProjectHandler {
	return &ProjectHandler{db: db, cache: cache}
}

// projectLanguage resolves the target language from the lang query parameter.
// Admin writes address one localized table at a time; an unknown code is an
// error here, unlike the silent fallback on the public side.
func projectLanguage(c *gin.Context) (i18n.Language, bool) {
	raw := strings.TrimSpace(c.Query("lang"))
	if raw == "" {
		return i18n.DefaultLanguage, true
	}
	lang, ok := i18n.Parse(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
		return "", false
	}
	return lang, true
}

// invalidateListing drops the cached directory listing for a language.
func (h *ProjectHandler) invalidateListing(c *gin.Context, lang i18n.Language) {
	if errDel := h.cache.Delete(c.Request.Context(), cache.ProjectListKey(string(lang))); errDel != nil {
		log.WithError(errDel).WithField("lang", lang).Warn("invalidate project cache failed")
	}
}

// projectRequest captures the payload for creating or updating a project.
type projectRequest struct {
	Name              string   `json:"name"`                // Business display name.
	Place             string   `json:"place"`               // Human-readable location.
	City              *string  `json:"city"`                // Optional city.
	GoogleMapLocation *string  `json:"google_map_location"` // Optional map link.
	PhoneNumber       *string  `json:"phone_number"`        // Optional contact phone.
	Category          []string `json:"category"`            // Category tags.
	PriorityLevel     *int     `json:"priority_level"`      // Optional priority; defaults to 3.
	ImageURL          *string  `json:"image_url"`           // Optional cover image.
	Description       *string  `json:"description"`         // Optional description.
	DiscountAmount    *int     `json:"discount_amount"`     // Optional discount percentage.
}

// validate checks the payload and normalizes its fields.
func (b *projectRequest) validate() error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return errors.New("missing name")
	}
	b.Place = strings.TrimSpace(b.Place)
	if b.Place == "" {
		return errors.New("missing place")
	}
	if b.PriorityLevel != nil && *b.PriorityLevel < 1 {
		return errors.New("priority_level must be at least 1")
	}
	if b.DiscountAmount != nil && (*b.DiscountAmount < 0 || *b.DiscountAmount > 100) {
		return errors.New("discount_amount must be between 0 and 100")
	}
	return nil
}

// toModel builds a project row from the payload.
func (b *projectRequest) toModel(now time.Time) models.Project {
	priority := 3
	if b.PriorityLevel != nil {
		priority = *b.PriorityLevel
	}
	category := b.Category
	if category == nil {
		category = []string{}
	}
	return models.Project{
		Name:              b.Name,
		Place:             b.Place,
		City:              b.City,
		GoogleMapLocation: b.GoogleMapLocation,
		PhoneNumber:       b.PhoneNumber,
		Category:          datatypes.JSONSlice[string](category),
		PriorityLevel:     priority,
		ImageURL:          b.ImageURL,
		Description:       b.Description,
		DiscountAmount:    b.DiscountAmount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Create adds a project to the localized table for the target language.
func (h *ProjectHandler) Create(c *gin.Context) {
	lang, ok := projectLanguage(c)
	if !ok {
		return
	}
	var body projectRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	project := body.toModel(time.Now().UTC())
	if errCreate := h.db.WithContext(c.Request.Context()).
		Table(i18n.ProjectTable(lang)).
		Create(&project).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create project failed"})
		return
	}

	h.invalidateListing(c, lang)
	c.JSON(http.StatusCreated, gin.H{"id": project.ID, "lang": lang})
}

// Update replaces a project's fields in the localized table.
func (h *ProjectHandler) Update(c *gin.Context) {
	lang, ok := projectLanguage(c)
	if !ok {
		return
	}
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body projectRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	table := i18n.ProjectTable(lang)
	var existing models.Project
	if errFind := h.db.WithContext(c.Request.Context()).
		Table(table).
		Where("id = ?", id).
		First(&existing).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	project := body.toModel(time.Now().UTC())
	updates := map[string]any{
		"name":                project.Name,
		"place":               project.Place,
		"city":                project.City,
		"google_map_location": project.GoogleMapLocation,
		"phone_number":        project.PhoneNumber,
		"category":            project.Category,
		"priority_level":      project.PriorityLevel,
		"image_url":           project.ImageURL,
		"description":         project.Description,
		"discount_amount":     project.DiscountAmount,
		"updated_at":          project.UpdatedAt,
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).
		Table(table).
		Where("id = ?", id).
		Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update project failed"})
		return
	}

	h.invalidateListing(c, lang)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a project from the localized table.
func (h *ProjectHandler) Delete(c *gin.Context) {
	lang, ok := projectLanguage(c)
	if !ok {
		return
	}
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).
		Table(i18n.ProjectTable(lang)).
		Where("id = ?", id).
		Delete(&models.Project{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete project failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.invalidateListing(c, lang)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// List returns all projects in the localized table for staff review.
func (h *ProjectHandler) List(c *gin.Context) {
	lang, ok := projectLanguage(c)
	if !ok {
		return
	}

	var rows []models.Project
	if errFind := h.db.WithContext(c.Request.Context()).
		Table(i18n.ProjectTable(lang)).
		Order("priority_level ASC, created_at DESC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list projects failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":                  row.ID,
			"name":                row.Name,
			"place":               row.Place,
			"city":                row.City,
			"google_map_location": row.GoogleMapLocation,
			"phone_number":        row.PhoneNumber,
			"category":            []string(row.Category),
			"priority_level":      row.PriorityLevel,
			"image_url":           row.ImageURL,
			"description":         row.Description,
			"discount_amount":     row.DiscountAmount,
			"created_at":          row.CreatedAt,
			"updated_at":          row.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"projects": out, "lang": lang, "total": len(out)})
}
