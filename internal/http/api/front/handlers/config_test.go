package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/cardly-iq/cardly/internal/models"
	"github.com/cardly-iq/cardly/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

func TestGetConfigReflectsSettingsSnapshot(t *testing.T) {
	settings.Store([]models.Setting{
		{Key: settings.SiteNameKey, Value: datatypes.JSON(`"Test Club"`)},
		{Key: settings.SupportPhoneKey, Value: datatypes.JSON(`"07700000000"`)},
	})
	t.Cleanup(func() { settings.Store(nil) })

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v0/front/config", nil)
	c.Set("language", i18n.Arabic)

	NewConfigHandler(newTestResolver(t)).Get(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		SiteName  string `json:"site_name"`
		Language  string `json:"language"`
		Direction string `json:"direction"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.SiteName != "Test Club" {
		t.Fatalf("expected site name from snapshot, got %q", resp.SiteName)
	}
	if resp.Language != "ar" || resp.Direction != "rtl" {
		t.Fatalf("expected ar/rtl, got %s/%s", resp.Language, resp.Direction)
	}
}

func TestTranslationsReturnTableForLanguage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v0/front/translations", nil)
	c.Set("language", i18n.Kurdish)

	NewConfigHandler(newTestResolver(t)).Translations(c)

	var resp struct {
		Direction string            `json:"direction"`
		Messages  map[string]string `json:"messages"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.Direction != "rtl" {
		t.Fatalf("expected rtl for kurdish, got %q", resp.Direction)
	}
	if len(resp.Messages) == 0 {
		t.Fatalf("expected non-empty message table")
	}
}

func TestSetLanguagePersistsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewReader([]byte(`{"language":"ku"}`))
	c.Request = httptest.NewRequest(http.MethodPut, "/v0/front/language", body)
	c.Request.Header.Set("Content-Type", "application/json")

	NewConfigHandler(newTestResolver(t)).SetLanguage(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, LanguageCookie+"=ku") {
		t.Fatalf("expected language cookie, got %q", cookie)
	}
}

func TestSetLanguageIgnoresUnknownCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewReader([]byte(`{"language":"xx"}`))
	c.Request = httptest.NewRequest(http.MethodPut, "/v0/front/language", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("language", i18n.Arabic)

	NewConfigHandler(newTestResolver(t)).SetLanguage(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if cookie := w.Header().Get("Set-Cookie"); cookie != "" {
		t.Fatalf("expected no cookie for unknown code, got %q", cookie)
	}
	var resp struct {
		Language string `json:"language"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.Language != "ar" {
		t.Fatalf("expected selection unchanged, got %q", resp.Language)
	}
}
