package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cardly-iq/cardly/internal/cache"
	"github.com/cardly-iq/cardly/internal/directory"
	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/cardly-iq/cardly/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProjectFrontHandler handles the public partner directory.
type ProjectFrontHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewProjectFrontHandler constructs a ProjectFrontHandler.
func NewProjectFrontHandler(db *gorm.DB, cache *cache.Cache) *ProjectFrontHandler {
	return &ProjectFrontHandler{db: db, cache: cache}
}

// projectDTO defines one public directory entry.
type projectDTO struct {
	ID                uint64   `json:"id"`
	Name              string   `json:"name"`
	Place             string   `json:"place"`
	City              *string  `json:"city,omitempty"`
	GoogleMapLocation *string  `json:"google_map_location,omitempty"`
	PhoneNumber       *string  `json:"phone_number,omitempty"`
	Category          []string `json:"category"`
	PriorityLevel     int      `json:"priority_level"`
	ImageURL          *string  `json:"image_url,omitempty"`
	Description       *string  `json:"description,omitempty"`
	DiscountAmount    *int     `json:"discount_amount,omitempty"`
}

// toProjectDTOs renders projects preserving their order.
func toProjectDTOs(projects []models.Project) []projectDTO {
	out := make([]projectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectDTO{
			ID:                p.ID,
			Name:              p.Name,
			Place:             p.Place,
			City:              p.City,
			GoogleMapLocation: p.GoogleMapLocation,
			PhoneNumber:       p.PhoneNumber,
			Category:          p.Category,
			PriorityLevel:     p.PriorityLevel,
			ImageURL:          p.ImageURL,
			Description:       p.Description,
			DiscountAmount:    p.DiscountAmount,
		})
	}
	return out
}

// fetchProjects loads the full listing for a language, cache first. The
// database orders by priority then recency; filters never reorder.
func (h *ProjectFrontHandler) fetchProjects(c *gin.Context, lang i18n.Language) ([]models.Project, error) {
	ctx := c.Request.Context()
	key := cache.ProjectListKey(string(lang))

	var projects []models.Project
	errGet := h.cache.GetJSON(ctx, key, &projects)
	if errGet == nil {
		return projects, nil
	}
	if !errors.Is(errGet, cache.ErrMiss) {
		log.WithError(errGet).Warn("project cache read failed")
	}

	if errFind := h.db.WithContext(ctx).
		Table(i18n.ProjectTable(lang)).
		Order("priority_level ASC, created_at DESC").
		Find(&projects).Error; errFind != nil {
		return nil, errFind
	}

	if errSet := h.cache.SetJSON(ctx, key, projects); errSet != nil {
		log.WithError(errSet).Warn("project cache write failed")
	}
	return projects, nil
}

// parseDirectoryFilter builds a filter from query parameters. Invalid numeric
// values leave that dimension unconstrained.
func parseDirectoryFilter(c *gin.Context) directory.Filter {
	f := directory.NewFilter()
	f.Cities = splitCSV(c.Query("cities"))
	f.Categories = splitCSV(c.Query("categories"))
	if v, errAtoi := strconv.Atoi(c.Query("discount_min")); errAtoi == nil {
		f.DiscountMin = v
	}
	if v, errAtoi := strconv.Atoi(c.Query("discount_max")); errAtoi == nil {
		f.DiscountMax = v
	}
	for _, raw := range splitCSV(c.Query("priority_levels")) {
		if level, errAtoi := strconv.Atoi(raw); errAtoi == nil {
			f.PriorityLevels = append(f.PriorityLevels, level)
		}
	}
	f.Query = c.Query("q")
	return f
}

// List returns the directory for the resolved language, filtered by query
// parameters.
func (h *ProjectFrontHandler) List(c *gin.Context) {
	lang := activeLanguage(c)
	projects, errFetch := h.fetchProjects(c, lang)
	if errFetch != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query projects failed"})
		return
	}

	filtered := parseDirectoryFilter(c).Apply(projects)
	c.JSON(http.StatusOK, gin.H{
		"projects": toProjectDTOs(filtered),
		"total":    len(filtered),
	})
}

// Featured returns the projects pinned to the featured rail.
func (h *ProjectFrontHandler) Featured(c *gin.Context) {
	lang := activeLanguage(c)
	projects, errFetch := h.fetchProjects(c, lang)
	if errFetch != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query projects failed"})
		return
	}

	filter := directory.NewFilter()
	filter.PriorityLevels = []int{models.FeaturedPriorityLevel}
	featured := filter.Apply(projects)
	c.JSON(http.StatusOK, gin.H{
		"projects": toProjectDTOs(featured),
		"total":    len(featured),
	})
}
