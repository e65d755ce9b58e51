package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cardly-iq/cardly/internal/card"
	dbutil "github.com/cardly-iq/cardly/internal/db"
	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/cardly-iq/cardly/internal/models"
	"github.com/cardly-iq/cardly/internal/util"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CardFrontHandler handles card verification and activation for holders.
type CardFrontHandler struct {
	db       *gorm.DB
	resolver *i18n.Resolver
}

// NewCardFrontHandler constructs a CardFrontHandler.
func NewCardFrontHandler(db *gorm.DB, resolver *i18n.Resolver) *CardFrontHandler {
	return &CardFrontHandler{db: db, resolver: resolver}
}

// cardProfileDTO defines the card response payload. Holder fields are only
// present once the card is active.
type cardProfileDTO struct {
	CardID            string     `json:"card_id"`
	State             card.State `json:"state"`
	MemberID          string     `json:"member_id"`
	Message           string     `json:"message"`
	Name              *string    `json:"name,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	Resident          *string    `json:"resident,omitempty"`
	ActivatedAt       *time.Time `json:"activated_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	ExpiryDisplay     string     `json:"expiry_display"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty"`
}

// stateMessageKeys maps a resolved card state to its holder-facing hint.
var stateMessageKeys = map[card.State]string{
	card.StateActive:            "active.verified",
	card.StatePendingActivation: "contact.support.activate",
	card.StateExpired:           "contact.support",
}

// cardProfile renders a card record for the resolved state and language.
func cardProfile(resolver *i18n.Resolver, lang i18n.Language, rec *models.DiscountCard, state card.State) cardProfileDTO {
	dto := cardProfileDTO{
		CardID:        rec.CardID,
		State:         state,
		MemberID:      card.FormatMemberID(rec.CardID),
		Message:       resolver.Translate(lang, stateMessageKeys[state]),
		ExpiresAt:     rec.ExpiresAt,
		ExpiryDisplay: card.FormatExpiry(rec.ExpiresAt),
	}
	if state == card.StateActive {
		dto.Name = rec.Name
		dto.Phone = rec.Phone
		dto.Resident = rec.Resident
		dto.ActivatedAt = rec.ActivatedAt
		dto.ProfilePictureURL = rec.ProfilePictureURL
	}
	return dto
}

// Verify resolves a card's lifecycle state by its public identifier.
// Lookup failures are reported as not found, never as a distinct error.
func (h *CardFrontHandler) Verify(c *gin.Context) {
	lang := activeLanguage(c)
	cardID := strings.TrimSpace(c.Param("card_id"))

	var rec *models.DiscountCard
	if cardID != "" {
		var found models.DiscountCard
		errFind := h.db.WithContext(c.Request.Context()).
			Where("card_id = ?", cardID).
			First(&found).Error
		if errFind == nil {
			rec = &found
		} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).
				WithField("card_id", util.MaskCardID(cardID)).
				Warn("card lookup failed")
		}
	}

	state := card.Resolve(rec, time.Now().UTC())
	if state == card.StateNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"state": state,
			"error": h.resolver.Translate(lang, "verification.failed"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": cardProfile(h.resolver, lang, rec, state)})
}

// Activate completes a pending card with the holder's profile fields.
func (h *CardFrontHandler) Activate(c *gin.Context) {
	lang := activeLanguage(c)
	cardID := strings.TrimSpace(c.Param("card_id"))

	var body card.Activation
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.Validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   errValidate.Error(),
			"message": h.resolver.Translate(lang, errValidate.Error()),
		})
		return
	}

	now := time.Now().UTC()
	var result gin.H
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("card_id = ?", cardID)
		if !dbutil.IsSQLite(tx) {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var rec models.DiscountCard
		if errFind := query.First(&rec).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": h.resolver.Translate(lang, "verification.failed")})
				return errFind
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query card failed"})
			return errFind
		}

		switch card.Resolve(&rec, now) {
		case card.StateExpired:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "card expired",
				"message": h.resolver.Translate(lang, "contact.support"),
			})
			return errors.New("card expired")
		case card.StateActive:
			c.JSON(http.StatusConflict, gin.H{"error": "card already activated"})
			return errors.New("card already activated")
		}

		name := strings.TrimSpace(body.Name)
		phone := strings.TrimSpace(body.Phone)
		resident := strings.TrimSpace(body.Resident)
		if errUpdate := tx.Model(&rec).Updates(map[string]any{
			"name":         name,
			"phone":        phone,
			"resident":     resident,
			"active":       true,
			"activated_at": now,
		}).Error; errUpdate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "activation failed",
				"message": h.resolver.Translate(lang, "activation.failed"),
			})
			return errUpdate
		}

		rec.Name = &name
		rec.Phone = &phone
		rec.Resident = &resident
		rec.Active = true
		rec.ActivatedAt = &now
		result = gin.H{
			"card":    cardProfile(h.resolver, lang, &rec, card.StateActive),
			"message": h.resolver.Translate(lang, "activation.success"),
		}
		return nil
	})
	if errTx != nil {
		// error paths inside the transaction write their own response; a
		// begin or commit failure reaches here with nothing written yet
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "activation failed",
				"message": h.resolver.Translate(lang, "activation.failed"),
			})
		}
		return
	}

	log.WithFields(log.Fields{
		"card_id": util.MaskCardID(cardID),
		"phone":   util.MaskPhone(strings.TrimSpace(body.Phone)),
	}).Info("card activated")
	c.JSON(http.StatusOK, result)
}
