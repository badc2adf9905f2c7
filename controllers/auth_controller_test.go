package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.Dish{}))
	return db
}

func testContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestLogout_ClearsGoogleTokens(t *testing.T) {
	db := newTestDB(t)

	expiry := time.Now().Add(time.Hour)
	user := models.User{
		Email:              "someone@gmail.com",
		GoogleAccessToken:  "ya29.live-access",
		GoogleRefreshToken: "1//live-refresh",
		TokenExpiry:        &expiry,
	}
	require.NoError(t, db.Create(&user).Error)

	ctrl := NewAuthController(db)
	c, w := testContext(t, http.MethodPost, "/auth/logout")
	c.Set("userID", user.ID)

	ctrl.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Empty(t, stored.GoogleAccessToken, "access token must be revoked server-side")
	assert.Empty(t, stored.GoogleRefreshToken, "refresh token must be revoked server-side")
	assert.Nil(t, stored.TokenExpiry)
	assert.Equal(t, "someone@gmail.com", stored.Email, "account itself survives logout")
}

func TestTriggerSync_RejectedAfterLogout(t *testing.T) {
	db := newTestDB(t)

	user := models.User{
		Email:              "someone@gmail.com",
		GoogleAccessToken:  "ya29.live-access",
		GoogleRefreshToken: "1//live-refresh",
	}
	require.NoError(t, db.Create(&user).Error)

	auth := NewAuthController(db)
	c, _ := testContext(t, http.MethodPost, "/auth/logout")
	c.Set("userID", user.ID)
	auth.Logout(c)

	// With the tokens gone, sync has nothing to read the inbox with.
	sync := NewSyncController(db, nil)
	c, w := testContext(t, http.MethodPost, "/api/sync")
	c.Set("userID", user.ID)
	sync.TriggerSync(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Google account not connected", body["error"])
}

func TestGetStats_ForbiddenOnBadKey(t *testing.T) {
	config.Settings.SecretKey = "super-secret"
	ctrl := NewAdminController(nil)

	c, w := testContext(t, http.MethodGet, "/admin/stats?admin_key=wrong")
	ctrl.GetStats(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext(t, http.MethodGet, "/admin/stats")
	ctrl.GetStats(c)
	assert.Equal(t, http.StatusForbidden, w.Code, "missing key is forbidden too")
}
