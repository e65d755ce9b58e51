package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardly-iq/cardly/internal/settings"
	"github.com/gin-gonic/gin"
)

func TestUpsertSettingRefreshesSnapshot(t *testing.T) {
	conn := newTestDB(t)
	t.Cleanup(func() { settings.Store(nil) })

	h := NewSettingsHandler(conn)
	c, w := jsonContext(t, http.MethodPut, "/v0/admin/settings", map[string]any{
		"key":   settings.SiteNameKey,
		"value": "Cardly QA",
	})
	h.Upsert(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}
	if got := settings.StringValue(settings.SiteNameKey, ""); got != "Cardly QA" {
		t.Fatalf("expected snapshot refreshed, got %q", got)
	}

	// second write must overwrite, not duplicate
	c, w = jsonContext(t, http.MethodPut, "/v0/admin/settings", map[string]any{
		"key":   settings.SiteNameKey,
		"value": "Cardly Prod",
	})
	h.Upsert(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}
	if got := settings.StringValue(settings.SiteNameKey, ""); got != "Cardly Prod" {
		t.Fatalf("expected overwritten value, got %q", got)
	}
}

func TestUpsertSettingValidatesInput(t *testing.T) {
	conn := newTestDB(t)
	h := NewSettingsHandler(conn)

	c, w := jsonContext(t, http.MethodPut, "/v0/admin/settings", map[string]any{"key": "", "value": "x"})
	h.Upsert(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty key, got %d", w.Code)
	}
}

func TestListAndDeleteSettings(t *testing.T) {
	conn := newTestDB(t)
	t.Cleanup(func() { settings.Store(nil) })

	h := NewSettingsHandler(conn)
	c, w := jsonContext(t, http.MethodPut, "/v0/admin/settings", map[string]any{
		"key":   settings.SupportEmailKey,
		"value": "help@example.test",
	})
	h.Upsert(c)
	if w.Code != http.StatusOK {
		t.Fatalf("seed upsert failed: %d", w.Code)
	}

	gin.SetMode(gin.TestMode)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v0/admin/settings", nil)
	h.List(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Settings []struct {
			Key string `json:"key"`
		} `json:"settings"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if len(resp.Settings) != 1 || resp.Settings[0].Key != settings.SupportEmailKey {
		t.Fatalf("unexpected settings listing %+v", resp.Settings)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/v0/admin/settings/"+settings.SupportEmailKey, nil)
	c.Params = gin.Params{{Key: "key", Value: settings.SupportEmailKey}}
	h.Delete(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}
	if got := settings.StringValue(settings.SupportEmailKey, "gone"); got != "gone" {
		t.Fatalf("expected value removed from snapshot, got %q", got)
	}
}
