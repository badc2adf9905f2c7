package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Svc *services.AdminService
}

func NewAdminController(svc *services.AdminService) *AdminController {
	return &AdminController{Svc: svc}
}

// GetStats serves the operator dashboard. Guarded by the admin_key query
// param rather than user auth since it sits outside the user API.
func (h *AdminController) GetStats(c *gin.Context) {
	key := c.Query("admin_key")
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(config.Settings.SecretKey)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid admin key"})
		return
	}

	out, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
