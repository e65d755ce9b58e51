package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cardly-iq/cardly/internal/config"
	dbpkg "github.com/cardly-iq/cardly/internal/db"
	"github.com/cardly-iq/cardly/internal/models"
	"github.com/cardly-iq/cardly/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := dbpkg.Open(":memory:")
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := dbpkg.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return conn
}

func seedStaff(t *testing.T, conn *gorm.DB, username, password, totpSecret string, active bool) models.Staff {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	staff := models.Staff{Username: username, Password: hash, Active: active, TOTPSecret: totpSecret}
	if errCreate := conn.Create(&staff).Error; errCreate != nil {
		t.Fatalf("create staff: %v", errCreate)
	}
	return staff
}

func jsonContext(t *testing.T, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	raw, errEncode := json.Marshal(body)
	if errEncode != nil {
		t.Fatalf("encode body: %v", errEncode)
	}
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestLoginIssuesToken(t *testing.T) {
	conn := newTestDB(t)
	seedStaff(t, conn, "admin", "secret-pw", "", true)

	h := NewAuthHandler(conn, testJWTConfig)
	c, w := jsonContext(t, http.MethodPost, "/v0/admin/login", map[string]string{"username": "admin", "password": "secret-pw"})
	h.Login(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.Token == "" || resp.Username != "admin" {
		t.Fatalf("unexpected login response %+v", resp)
	}

	claims, errParse := security.ParseStaffToken(testJWTConfig.Secret, resp.Token)
	if errParse != nil {
		t.Fatalf("parse issued token: %v", errParse)
	}
	if claims.Username != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	conn := newTestDB(t)
	seedStaff(t, conn, "admin", "secret-pw", "", true)

	h := NewAuthHandler(conn, testJWTConfig)
	c, w := jsonContext(t, http.MethodPost, "/v0/admin/login", map[string]string{"username": "admin", "password": "wrong"})
	h.Login(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	conn := newTestDB(t)
	seedStaff(t, conn, "admin", "secret-pw", "", false)

	h := NewAuthHandler(conn, testJWTConfig)
	c, w := jsonContext(t, http.MethodPost, "/v0/admin/login", map[string]string{"username": "admin", "password": "secret-pw"})
	h.Login(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestLoginRequiresTOTPWhenEnabled(t *testing.T) {
	conn := newTestDB(t)
	key, errGenerate := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: "admin"})
	if errGenerate != nil {
		t.Fatalf("generate totp: %v", errGenerate)
	}
	seedStaff(t, conn, "admin", "secret-pw", key.Secret(), true)

	h := NewAuthHandler(conn, testJWTConfig)
	c, w := jsonContext(t, http.MethodPost, "/v0/admin/login", map[string]string{"username": "admin", "password": "secret-pw"})
	h.Login(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d body=%s", w.Code, w.Body.String())
	}

	code, errCode := totp.GenerateCode(key.Secret(), time.Now())
	if errCode != nil {
		t.Fatalf("generate code: %v", errCode)
	}
	c, w = jsonContext(t, http.MethodPost, "/v0/admin/login/totp", map[string]string{
		"username": "admin",
		"password": "secret-pw",
		"code":     code,
	})
	h.LoginTOTP(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 from totp login, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestLoginPrepareReportsMFAStatus(t *testing.T) {
	conn := newTestDB(t)
	seedStaff(t, conn, "plain", "pw-plain", "", true)
	seedStaff(t, conn, "guarded", "pw-guarded", "SOMETOTPSECRET", true)

	h := NewAuthHandler(conn, testJWTConfig)

	c, w := jsonContext(t, http.MethodPost, "/v0/admin/login/prepare", map[string]string{"username": "plain"})
	h.LoginPrepare(c)
	var resp struct {
		MFAEnabled bool `json:"mfa_enabled"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.MFAEnabled {
		t.Fatalf("expected mfa disabled for plain account")
	}

	c, w = jsonContext(t, http.MethodPost, "/v0/admin/login/prepare", map[string]string{"username": "guarded"})
	h.LoginPrepare(c)
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if !resp.MFAEnabled {
		t.Fatalf("expected mfa enabled for guarded account")
	}
}

func TestChangePasswordVerifiesOld(t *testing.T) {
	conn := newTestDB(t)
	staff := seedStaff(t, conn, "admin", "old-pw", "", true)

	h := NewAuthHandler(conn, testJWTConfig)
	c, w := jsonContext(t, http.MethodPut, "/v0/admin/profile/password", map[string]string{
		"old_password": "bad",
		"new_password": "new-pw",
	})
	c.Set("staffID", staff.ID)
	h.ChangePassword(c)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for wrong old password, got %d", w.Code)
	}

	c, w = jsonContext(t, http.MethodPut, "/v0/admin/profile/password", map[string]string{
		"old_password": "old-pw",
		"new_password": "new-pw",
	})
	c.Set("staffID", staff.ID)
	h.ChangePassword(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}

	var stored models.Staff
	if errFind := conn.First(&stored, staff.ID).Error; errFind != nil {
		t.Fatalf("reload staff: %v", errFind)
	}
	if security.VerifyPassword(stored.Password, "new-pw") != nil {
		t.Fatalf("expected new password to verify")
	}
}
