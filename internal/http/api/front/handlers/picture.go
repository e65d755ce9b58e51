package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/cardly-iq/cardly/internal/card"
	"github.com/cardly-iq/cardly/internal/models"
	"github.com/cardly-iq/cardly/internal/storage"
	"github.com/cardly-iq/cardly/internal/util"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PictureHandler handles profile picture uploads for active cards.
type PictureHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewPictureHandler constructs a PictureHandler.
func NewPictureHandler(db *gorm.DB, store storage.ObjectStore) *PictureHandler {
	return &PictureHandler{db: db, store: store}
}

// Upload validates and stores a new profile picture, replacing any previous
// one. The old object is deleted best-effort before the new upload; a failed
// delete only orphans an object and never blocks the update.
func (h *PictureHandler) Upload(c *gin.Context) {
	cardID := strings.TrimSpace(c.Param("card_id"))

	var rec models.DiscountCard
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("card_id = ?", cardID).
		First(&rec).Error; errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).
				WithField("card_id", util.MaskCardID(cardID)).
				Warn("card lookup failed")
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	if card.Resolve(&rec, time.Now().UTC()) != card.StateActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card not active"})
		return
	}

	fileHeader, errFile := c.FormFile("file")
	if errFile != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be an image"})
		return
	}
	if fileHeader.Size > storage.MaxPictureBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds 5MB limit"})
		return
	}

	if rec.ProfilePictureURL != nil {
		if oldName, ok := storage.ObjectNameFromURL(*rec.ProfilePictureURL); ok {
			if errDelete := h.store.Delete(c.Request.Context(), oldName); errDelete != nil {
				log.WithError(errDelete).
					WithField("object", oldName).
					Warn("delete previous profile picture failed")
			}
		}
	}

	src, errOpen := fileHeader.Open()
	if errOpen != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read upload failed"})
		return
	}
	defer func() { _ = src.Close() }()

	name := storage.ObjectName(rec.CardID, path.Ext(fileHeader.Filename), time.Now().UTC())
	url, errUpload := h.store.Upload(c.Request.Context(), name, contentType, src)
	if errUpload != nil {
		log.WithError(errUpload).
			WithField("card_id", util.MaskCardID(cardID)).
			Error("profile picture upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).
		Model(&rec).
		Update("profile_picture_url", url).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save picture failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_picture_url": url})
}
