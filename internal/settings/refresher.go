package settings

import (
	"context"
	"errors"
	"time"

	"github.com/cardly-iq/cardly/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Refresh reloads all settings from the database and replaces the snapshot.
//
// This is required at process startup; otherwise Value() returns empty values
// until the first timed refresh.
func Refresh(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return errors.New("settings: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []models.Setting
	if errFind := conn.WithContext(ctx).
		Select("key", "value", "updated_at").
		Order("key ASC").
		Find(&rows).Error; errFind != nil {
		return errFind
	}

	Store(rows)
	return nil
}

// StartRefresher refreshes the snapshot on a timer until ctx is cancelled.
// The interval itself is a setting, re-read after every cycle.
func StartRefresher(ctx context.Context, conn *gorm.DB) {
	if conn == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		for {
			interval := time.Duration(IntValue(RefreshIntervalSecondsKey, DefaultRefreshIntervalSeconds)) * time.Second
			if interval <= 0 {
				interval = DefaultRefreshIntervalSeconds * time.Second
			}
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return
			case <-timer.C:
			}
			if errRefresh := Refresh(ctx, conn); errRefresh != nil {
				log.WithError(errRefresh).Warn("settings: refresh failed")
			}
		}
	}()
}
