package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/culturallm/culturallm-backend/internal/requestdata"
	"github.com/culturallm/culturallm-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
	avatarService  services.AvatarService
}

func NewProfileHandler(profileService services.ProfileService, avatarService services.AvatarService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, avatarService: avatarService}
}

func (ph *ProfileHandler) Summary(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	summary, err := ph.profileService.Summary(c.Request.Context(), *userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ph *ProfileHandler) Update(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Username    *string `json:"username"`
		Nation      *string `json:"nation"`
		OldPassword *string `json:"old_password"`
		NewPassword *string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	update := services.ProfileUpdate{
		Username:    req.Username,
		Nation:      req.Nation,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}
	if err := ph.profileService.Update(c.Request.Context(), *userID, update); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func (ph *ProfileHandler) Questions(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	questions, err := ph.profileService.Questions(c.Request.Context(), *userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (ph *ProfileHandler) Answers(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	answers, err := ph.profileService.Answers(c.Request.Context(), *userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

// Avatar is public: any username maps to a stable identicon PNG.
func (ph *ProfileHandler) Avatar(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	png, err := ph.avatarService.Identicon(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render avatar"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
