package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/jadeswanstrom/ioweyou/internal/audit/domain"
	authdomain "github.com/jadeswanstrom/ioweyou/internal/auth/domain"
)

// @Summary      Register
// @Description  Create an account and issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body authdomain.RegisterRequest true "Register Request"
// @Success      200  {object}  authdomain.AuthResponse
// @Router       /auth/register [post]
func (s *Server) Register(c *gin.Context) {
	var req authdomain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		userID, _ := snowflake.ParseString(resp.User.ID)
		s.auditSvc.Record(c.Request.Context(), auditEntry(userID, auditdomain.ActionUserRegister, "user", resp.User.ID, nil))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Login
// @Description  Exchange credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body authdomain.LoginRequest true "Login Request"
// @Success      200  {object}  authdomain.AuthResponse
// @Router       /auth/login [post]
func (s *Server) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		userID, _ := snowflake.ParseString(resp.User.ID)
		s.auditSvc.Record(c.Request.Context(), auditEntry(userID, auditdomain.ActionUserLogin, "user", resp.User.ID, nil))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Me
// @Description  Return the authenticated principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authdomain.UserResponse
// @Router       /auth/me [get]
func (s *Server) Me(c *gin.Context) {
	resp, err := s.authSvc.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
