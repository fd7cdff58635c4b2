package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Public Invoice View
// @Description  Redacted invoice view for share-token holders
// @Tags         public
// @Produce      json
// @Param        token  path  string  true  "Share token"
// @Success      200  {object}  domain.View
// @Router       /public/invoices/{token} [get]
func (s *Server) GetPublicInvoice(c *gin.Context) {
	view, err := s.publicSvc.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}
