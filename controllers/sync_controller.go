package controllers

import (
	"errors"
	"net/http"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/models"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SyncController struct {
	DB  *gorm.DB
	Svc *services.SyncService
}

func NewSyncController(db *gorm.DB, svc *services.SyncService) *SyncController {
	return &SyncController{DB: db, Svc: svc}
}

// TriggerSync starts a background email sync for the caller. 409 when a
// job is already running.
func (s *SyncController) TriggerSync(c *gin.Context) {
	userID := c.GetUint("userID")

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if user.GoogleAccessToken == "" && user.GoogleRefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google account not connected"})
		return
	}

	jobID, err := s.Svc.Start(c.Request.Context(), &user)
	if err != nil {
		if errors.Is(err, services.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "sync already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "status": services.SyncStateRunning})
}

// SyncStatus reports the caller's latest sync job state.
func (s *SyncController) SyncStatus(c *gin.Context) {
	userID := c.GetUint("userID")

	status, err := s.Svc.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.SyncStatusResponse{
		Status:          status.Status,
		EmailsProcessed: status.EmailsProcessed,
		OrdersCreated:   status.OrdersCreated,
		Errors:          status.Errors,
	})
}
