package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/jadeswanstrom/ioweyou/internal/audit/domain"
	invoicedomain "github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
)

type setStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) ownerID(c *gin.Context) (snowflake.ID, bool) {
	ownerID, err := snowflake.ParseString(currentUserID(c))
	if err != nil {
		AbortWithError(c, ErrUnauthorized)
		return 0, false
	}
	return ownerID, true
}

func (s *Server) invoiceID(c *gin.Context) (snowflake.ID, bool) {
	id, err := invoicedomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return 0, false
	}
	return id, true
}

// @Summary      Create Invoice
// @Description  Create a new invoice owned by the caller
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body invoicedomain.CreateRequest true "Create Invoice Request"
// @Success      200  {object}  invoicedomain.Response
// @Router       /invoices [post]
func (s *Server) CreateInvoice(c *gin.Context) {
	ownerID, ok := s.ownerID(c)
	if !ok {
		return
	}

	var req invoicedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.auditSvc.Record(c.Request.Context(), auditEntry(ownerID, auditdomain.ActionInvoiceCreate, "invoice", resp.ID, map[string]any{
			"title":  resp.Title,
			"client": resp.Client,
			"status": string(resp.Status),
		}))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Invoices
// @Description  List the caller's invoices newest first
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status     query  string  false  "Status filter, empty or All returns everything"
// @Param        page_token query  string  false  "Page token"
// @Param        page_size  query  int     false  "Page size"
// @Success      200  {object}  invoicedomain.ListResponse
// @Router       /invoices [get]
func (s *Server) ListInvoices(c *gin.Context) {
	ownerID, ok := s.ownerID(c)
	if !ok {
		return
	}

	var req invoicedomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), ownerID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Invoice
// @Description  Get one of the caller's invoices by id
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.Response
// @Router       /invoices/{id} [get]
func (s *Server) GetInvoiceByID(c *gin.Context) {
	ownerID, ok := s.ownerID(c)
	if !ok {
		return
	}
	id, ok := s.invoiceID(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Set Invoice Status
// @Description  Relabel an invoice; any status can follow any other
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string            true  "Invoice ID"
// @Param        request body  setStatusRequest  true  "Set Status Request"
// @Success      200  {object}  invoicedomain.Response
// @Router       /invoices/{id} [patch]
func (s *Server) SetInvoiceStatus(c *gin.Context) {
	ownerID, ok := s.ownerID(c)
	if !ok {
		return
	}
	id, ok := s.invoiceID(c)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.SetStatus(c.Request.Context(), ownerID, id, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.auditSvc.Record(c.Request.Context(), auditEntry(ownerID, auditdomain.ActionInvoiceSetStatus, "invoice", resp.ID, map[string]any{
			"status": string(resp.Status),
		}))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Publish Invoice
// @Description  Enable public sharing; idempotent, the token never changes
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.PublishResponse
// @Router       /invoices/{id}/publish [post]
func (s *Server) PublishInvoice(c *gin.Context) {
	ownerID, ok := s.ownerID(c)
	if !ok {
		return
	}
	id, ok := s.invoiceID(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.Publish(c.Request.Context(), ownerID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.auditSvc.Record(c.Request.Context(), auditEntry(ownerID, auditdomain.ActionInvoicePublish, "invoice", resp.Invoice.ID, nil))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Send Invoice
// @Description  Email the invoice to its recipients, publishing it first
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.SendResponse
// @Router       /invoices/{id}/send [post]
func (s *Server) SendInvoice(c *gin.Context) {
	ownerID, ok := s.ownerID(c)
	if !ok {
		return
	}
	id, ok := s.invoiceID(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.Send(c.Request.Context(), ownerID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.auditSvc.Record(c.Request.Context(), auditEntry(ownerID, auditdomain.ActionInvoiceSend, "invoice", id.String(), map[string]any{
			"recipients": len(resp.SentTo),
		}))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
