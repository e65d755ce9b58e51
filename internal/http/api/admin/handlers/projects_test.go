package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardly-iq/cardly/internal/models"
	"github.com/gin-gonic/gin"
)

func TestCreateProjectWritesLocalizedTable(t *testing.T) {
	conn := newTestDB(t)
	h := NewProjectHandler(conn, nil)

	body := map[string]any{
		"name":            "مطعم",
		"place":           "أربيل",
		"category":        []string{"food"},
		"priority_level":  1,
		"discount_amount": 20,
	}
	c, w := jsonContext(t, http.MethodPost, "/v0/admin/projects?lang=ar", body)
	h.Create(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", w.Code, w.Body.String())
	}

	var arCount, enCount int64
	if errCount := conn.Table("projects_ar").Count(&arCount).Error; errCount != nil {
		t.Fatalf("count projects_ar: %v", errCount)
	}
	if errCount := conn.Table("projects").Count(&enCount).Error; errCount != nil {
		t.Fatalf("count projects: %v", errCount)
	}
	if arCount != 1 || enCount != 0 {
		t.Fatalf("expected row only in projects_ar, got ar=%d en=%d", arCount, enCount)
	}
}

func TestCreateProjectRejectsUnsupportedLanguage(t *testing.T) {
	conn := newTestDB(t)
	h := NewProjectHandler(conn, nil)

	c, w := jsonContext(t, http.MethodPost, "/v0/admin/projects?lang=fr", map[string]any{"name": "x", "place": "y"})
	h.Create(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestCreateProjectValidatesFields(t *testing.T) {
	conn := newTestDB(t)
	h := NewProjectHandler(conn, nil)

	c, w := jsonContext(t, http.MethodPost, "/v0/admin/projects", map[string]any{"name": "", "place": "y"})
	h.Create(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty name, got %d", w.Code)
	}

	c, w = jsonContext(t, http.MethodPost, "/v0/admin/projects", map[string]any{
		"name": "x", "place": "y", "discount_amount": 150,
	})
	h.Create(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for out-of-range discount, got %d", w.Code)
	}
}

func TestUpdateProjectReplacesFields(t *testing.T) {
	conn := newTestDB(t)
	h := NewProjectHandler(conn, nil)

	c, w := jsonContext(t, http.MethodPost, "/v0/admin/projects", map[string]any{"name": "Old Name", "place": "Erbil"})
	h.Create(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID uint64 `json:"id"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &created); errDecode != nil {
		t.Fatalf("decode created: %v", errDecode)
	}

	c, w = jsonContext(t, http.MethodPut, "/v0/admin/projects/1", map[string]any{"name": "New Name", "place": "Erbil"})
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Update(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}

	var stored models.Project
	if errFind := conn.Table("projects").Where("id = ?", created.ID).First(&stored).Error; errFind != nil {
		t.Fatalf("reload project: %v", errFind)
	}
	if stored.Name != "New Name" {
		t.Fatalf("expected updated name, got %q", stored.Name)
	}
}

func TestDeleteProjectRemovesRow(t *testing.T) {
	conn := newTestDB(t)
	h := NewProjectHandler(conn, nil)

	c, w := jsonContext(t, http.MethodPost, "/v0/admin/projects", map[string]any{"name": "Gone", "place": "Erbil"})
	h.Create(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", w.Code)
	}

	gin.SetMode(gin.TestMode)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/v0/admin/projects/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Delete(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}

	var count int64
	if errCount := conn.Table("projects").Count(&count).Error; errCount != nil {
		t.Fatalf("count projects: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected project deleted, %d rows remain", count)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/v0/admin/projects/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	h.Delete(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for repeated delete, got %d", w.Code)
	}
}

func TestAdminListReadsLocalizedTable(t *testing.T) {
	conn := newTestDB(t)
	h := NewProjectHandler(conn, nil)

	c, w := jsonContext(t, http.MethodPost, "/v0/admin/projects?lang=ku", map[string]any{"name": "Kurdish Entry", "place": "Duhok"})
	h.Create(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", w.Code)
	}

	gin.SetMode(gin.TestMode)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v0/admin/projects?lang=ku", nil)
	h.List(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Projects []struct {
			Name string `json:"name"`
		} `json:"projects"`
		Lang string `json:"lang"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.Lang != "ku" || len(resp.Projects) != 1 || resp.Projects[0].Name != "Kurdish Entry" {
		t.Fatalf("unexpected listing %+v", resp)
	}
}
