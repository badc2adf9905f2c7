package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

func (a *AuthController) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.Settings.GoogleClientID,
		ClientSecret: config.Settings.GoogleClientSecret,
		RedirectURL:  config.Settings.GoogleRedirectURI,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			gmail.GmailReadonlyScope,
		},
	}
}

// GoogleLogin redirects the browser into Google's consent screen.
// offline access + consent prompt so we always get a refresh token.
func (a *AuthController) GoogleLogin(c *gin.Context) {
	url := a.oauthConfig().AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleCallback exchanges the code, upserts the user with their Gmail
// tokens, and bounces back to the frontend with a session JWT.
func (a *AuthController) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	conf := a.oauthConfig()
	token, err := conf.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("OAuth exchange failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange authorization code"})
		return
	}

	info, err := fetchGoogleUserInfo(c, conf, token)
	if err != nil {
		log.Printf("Userinfo fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch user info"})
		return
	}

	if !emailAllowed(info.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "email not allowed"})
		return
	}

	user, err := a.upsertUser(info.Email, token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save user"})
		return
	}

	jwtToken, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect,
		fmt.Sprintf("%s/auth/callback?token=%s", strings.TrimRight(config.Settings.FrontendURL, "/"), jwtToken))
}

func fetchGoogleUserInfo(c *gin.Context, conf *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	client := conf.Client(c.Request.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo missing email")
	}
	return &info, nil
}

type mobileAuthRequest struct {
	IDToken      string `json:"id_token" binding:"required"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MobileGoogleAuth verifies a Google ID token from the mobile client and
// returns a session JWT directly instead of redirecting.
func (a *AuthController) MobileGoogleAuth(c *gin.Context) {
	var req mobileAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token is required"})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, config.Settings.GoogleClientID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "email not verified"})
		return
	}

	if !emailAllowed(email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "email not allowed"})
		return
	}

	token := &oauth2.Token{AccessToken: req.AccessToken, RefreshToken: req.RefreshToken}
	user, err := a.upsertUser(email, token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save user"})
		return
	}

	jwtToken, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: jwtToken,
		TokenType:   "bearer",
		User:        models.UserResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt},
	})
}

// upsertUser creates or refreshes the user row, keeping the previous
// refresh token when Google doesn't send a new one.
func (a *AuthController) upsertUser(email string, token *oauth2.Token) (*models.User, error) {
	var user models.User
	err := a.DB.Where("email = ?", email).First(&user).Error

	var expiry *time.Time
	if !token.Expiry.IsZero() {
		e := token.Expiry
		expiry = &e
	}

	if err == nil {
		user.GoogleAccessToken = token.AccessToken
		if token.RefreshToken != "" {
			user.GoogleRefreshToken = token.RefreshToken
		}
		user.TokenExpiry = expiry
		if err := a.DB.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	user = models.User{
		Email:              email,
		GoogleAccessToken:  token.AccessToken,
		GoogleRefreshToken: token.RefreshToken,
		TokenExpiry:        expiry,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func emailAllowed(email string) bool {
	allowed := config.Settings.AllowedEmailList()
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(c *gin.Context) {
	userID := c.GetUint("userID")

	var user models.User
	if err := a.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt})
}

// Logout revokes the server-side Google session: the stored Gmail
// tokens are cleared so sync can no longer read the user's inbox until
// they authenticate again. Clients drop the JWT on their side.
func (a *AuthController) Logout(c *gin.Context) {
	userID := c.GetUint("userID")

	err := a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"google_access_token":  "",
		"google_refresh_token": "",
		"token_expiry":         nil,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
