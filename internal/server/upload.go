package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/jadeswanstrom/ioweyou/internal/audit/domain"
	"github.com/jadeswanstrom/ioweyou/internal/storage"
)

// @Summary      Upload Receipt
// @Description  Store a receipt file and return its public location
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Receipt file"
// @Success      200  {object}  storage.Object
// @Router       /uploads/receipt [post]
func (s *Server) UploadReceipt(c *gin.Context) {
	ownerID, ok := s.ownerID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "missing_file", "file is required"))
		return
	}
	if header.Size > storage.MaxUploadBytes {
		AbortWithError(c, storage.ErrTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadBytes+1))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	obj, err := s.store.Put(c.Request.Context(), storage.Upload{
		Data:         data,
		ContentType:  header.Header.Get("Content-Type"),
		OriginalName: header.Filename,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.auditSvc.Record(c.Request.Context(), auditEntry(ownerID, auditdomain.ActionReceiptUpload, "receipt", obj.Key, map[string]any{
			"kind": obj.Kind,
		}))
	}

	c.JSON(http.StatusOK, gin.H{"data": obj})
}
