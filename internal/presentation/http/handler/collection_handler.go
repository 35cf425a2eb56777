package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/application/service"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/request"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/response"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
)

// CollectionHandler handles fee collection HTTP requests
type CollectionHandler struct {
	collectionService *service.CollectionService
	printerService    *service.PrinterService
	receiptMailer     *service.ReceiptMailer
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(collectionService *service.CollectionService, printerService *service.PrinterService, receiptMailer *service.ReceiptMailer) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		printerService:    printerService,
		receiptMailer:     receiptMailer,
	}
}

// List handles listing collections, newest first
func (h *CollectionHandler) List(c *gin.Context) {
	var q request.CollectionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return
	}
	filter, field, err := q.ToFilter()
	if err != nil {
		response.ValidationError(c, []apperror.FieldError{{Field: field, Message: "Date must be YYYY-MM-DD"}})
		return
	}

	result, summary, err := h.collectionService.ListCollections(c.Request.Context(), filter, GetPagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Collections retrieved successfully", gin.H{
		"items":      result.Items,
		"pagination": result.Pagination,
		"summary":    summary,
	})
}

// Get handles fetching a collection by serial number or id
func (h *CollectionHandler) Get(c *gin.Context) {
	collection, err := h.collectionService.GetCollection(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Collection retrieved successfully", collection)
}

// Quote recomputes every derived amount for the posted form without saving
func (h *CollectionHandler) Quote(c *gin.Context) {
	var req request.CollectionDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	quote, err := h.collectionService.Quote(c.Request.Context(), req.ToDraft())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote computed successfully", quote)
}

// Create handles submitting a collection
func (h *CollectionHandler) Create(c *gin.Context) {
	var req request.CollectionDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	collection, quote, err := h.collectionService.Submit(c.Request.Context(), req.ToDraft())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Collection saved successfully", gin.H{
		"collection": collection,
		"quote":      quote,
	})
}

// Update handles editing a collection
func (h *CollectionHandler) Update(c *gin.Context) {
	var req request.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	collection, err := h.collectionService.UpdateCollection(c.Request.Context(), c.Param("key"), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Collection updated successfully", collection)
}

// Delete handles removing a collection
func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.collectionService.DeleteCollection(c.Request.Context(), c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Collection deleted successfully", nil)
}

// Receipt returns the money receipt of a collection
func (h *CollectionHandler) Receipt(c *gin.Context) {
	receipt, err := h.printerService.BuildReceipt(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt generated successfully", receipt)
}

// PrintReceipt prints the money receipt of a collection
func (h *CollectionHandler) PrintReceipt(c *gin.Context) {
	receipt, err := h.printerService.PrintCollectionReceipt(c.Request.Context(), c.Param("key"))
	if err != nil {
		// If receipt was built but printing failed, return receipt with warning
		if receipt != nil {
			response.Success(c, http.StatusOK, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

// EmailReceipt emails the money receipt of a collection
func (h *CollectionHandler) EmailReceipt(c *gin.Context) {
	var req request.EmailReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	receipt, err := h.receiptMailer.EmailReceipt(c.Request.Context(), c.Param("key"), req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt emailed successfully", receipt)
}
