package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cardly-iq/cardly/internal/card"
	dbutil "github.com/cardly-iq/cardly/internal/db"
	"github.com/cardly-iq/cardly/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountCardHandler handles admin operations for discount cards.
type DiscountCardHandler struct {
	db *gorm.DB // Database handle for card queries.
}

// NewDiscountCardHandler wires a card handler with its database dependency.
func NewDiscountCardHandler(db *gorm.DB) *DiscountCardHandler {
	return &DiscountCardHandler{db: db}
}

// createCardRequest captures the payload for issuing a single card.
type createCardRequest struct {
	CardID    string  `json:"card_id"`    // Optional explicit identifier; generated when empty.
	ValidDays *int    `json:"valid_days"` // Optional validity period from now in days.
	ExpiresAt *string `json:"expires_at"` // Optional explicit expiry, RFC 3339.
}

// resolveExpiry derives the expiry instant from the creation payload.
// An explicit expires_at wins over valid_days; both absent means no expiry.
func resolveExpiry(validDays *int, expiresAt *string, now time.Time) (*time.Time, error) {
	if expiresAt != nil && strings.TrimSpace(*expiresAt) != "" {
		parsed, errParse := time.Parse(time.RFC3339, strings.TrimSpace(*expiresAt))
		if errParse != nil {
			return nil, errors.New("expires_at must be RFC 3339")
		}
		utc := parsed.UTC()
		return &utc, nil
	}
	if validDays != nil {
		if *validDays <= 0 {
			return nil, errors.New("valid_days must be positive")
		}
		expiry := now.AddDate(0, 0, *validDays)
		return &expiry, nil
	}
	return nil, nil
}

// formatCard renders a card row with its derived state and display fields.
func (h *DiscountCardHandler) formatCard(rec *models.DiscountCard, now time.Time) gin.H {
	return gin.H{
		"id":                  rec.ID,
		"card_id":             rec.CardID,
		"member_id":           card.FormatMemberID(rec.CardID),
		"state":               card.Resolve(rec, now),
		"active":              rec.Active,
		"name":                rec.Name,
		"phone":               rec.Phone,
		"resident":            rec.Resident,
		"activated_at":        rec.ActivatedAt,
		"expires_at":          rec.ExpiresAt,
		"expiry_display":      card.FormatExpiry(rec.ExpiresAt),
		"profile_picture_url": rec.ProfilePictureURL,
		"created_at":          rec.CreatedAt,
	}
}

// Create issues a single card in the pending state.
func (h *DiscountCardHandler) Create(c *gin.Context) {
	var body createCardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	now := time.Now().UTC()
	expiresAt, errExpiry := resolveExpiry(body.ValidDays, body.ExpiresAt, now)
	if errExpiry != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errExpiry.Error()})
		return
	}

	cardID := strings.TrimSpace(body.CardID)
	if cardID == "" {
		cardID = uuid.NewString()
	}

	rec := models.DiscountCard{
		CardID:    cardID,
		Active:    false,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&rec).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create card failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatCard(&rec, now))
}

// batchCreateCardRequest captures the payload for batch card issuance.
type batchCreateCardRequest struct {
	Count     int     `json:"count"`      // Number of cards to issue.
	ValidDays *int    `json:"valid_days"` // Optional validity period in days.
	ExpiresAt *string `json:"expires_at"` // Optional explicit expiry, RFC 3339.
}

// BatchCreate issues multiple cards in a single transaction.
func (h *DiscountCardHandler) BatchCreate(c *gin.Context) {
	var body batchCreateCardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Count <= 0 || body.Count > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 1000"})
		return
	}

	now := time.Now().UTC()
	expiresAt, errExpiry := resolveExpiry(body.ValidDays, body.ExpiresAt, now)
	if errExpiry != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errExpiry.Error()})
		return
	}

	created := make([]gin.H, 0, body.Count)
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < body.Count; i++ {
			rec := models.DiscountCard{
				CardID:    uuid.NewString(),
				Active:    false,
				ExpiresAt: expiresAt,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if errCreate := tx.Create(&rec).Error; errCreate != nil {
				return errCreate
			}
			created = append(created, h.formatCard(&rec, now))
		}
		return nil
	})
	if errTx != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "batch create cards failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cards": created})
}

// List returns cards filtered by query parameters.
func (h *DiscountCardHandler) List(c *gin.Context) {
	var (
		searchQ = strings.TrimSpace(c.Query("search"))
		stateQ  = strings.TrimSpace(c.Query("state"))
	)
	page, errPage := strconv.Atoi(c.DefaultQuery("page", "1"))
	if errPage != nil || page < 1 {
		page = 1
	}
	pageSize, errSize := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if errSize != nil || pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	now := time.Now().UTC()
	q := h.db.WithContext(c.Request.Context()).Model(&models.DiscountCard{})
	if searchQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+searchQ+"%")
		q = q.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "card_id"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "name"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "phone"), pattern),
		)
	}
	switch stateQ {
	case "":
	case string(card.StateActive):
		q = q.Where("active = ?", true).Where("expires_at IS NULL OR expires_at >= ?", now)
	case string(card.StatePendingActivation):
		q = q.Where("active = ?", false).Where("expires_at IS NULL OR expires_at >= ?", now)
	case string(card.StateExpired):
		q = q.Where("expires_at < ?", now)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count cards failed"})
		return
	}

	var rows []models.DiscountCard
	if errFind := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list cards failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatCard(&row, now))
	}
	c.JSON(http.StatusOK, gin.H{
		"cards":     out,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get fetches a single card by its public identifier.
func (h *DiscountCardHandler) Get(c *gin.Context) {
	cardID := strings.TrimSpace(c.Param("card_id"))
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing card_id"})
		return
	}

	var rec models.DiscountCard
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("card_id = ?", cardID).
		First(&rec).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, h.formatCard(&rec, time.Now().UTC()))
}
