package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/jadeswanstrom/ioweyou/internal/audit/domain"
	userdomain "github.com/jadeswanstrom/ioweyou/internal/user/domain"
)

// @Summary      Get Settings
// @Description  Return the authenticated user's profile and payout settings
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userdomain.Response
// @Router       /users/me [get]
func (s *Server) GetSettings(c *gin.Context) {
	userID, err := snowflake.ParseString(currentUserID(c))
	if err != nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.userSvc.Me(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Settings
// @Description  Update the payout handle and preferred currency
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body userdomain.UpdateSettingsRequest true "Update Settings Request"
// @Success      200  {object}  userdomain.Response
// @Router       /users/me [patch]
func (s *Server) UpdateSettings(c *gin.Context) {
	userID, err := snowflake.ParseString(currentUserID(c))
	if err != nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req userdomain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.userSvc.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.auditSvc.Record(c.Request.Context(), auditEntry(userID, auditdomain.ActionSettingsUpdate, "user", resp.ID, map[string]any{
			"payout_handle": resp.PayoutHandle,
			"currency":      resp.Currency,
		}))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
