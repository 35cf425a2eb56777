package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/application/service"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/request"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/response"
)

// FeeHandler handles fee type and discount HTTP requests
type FeeHandler struct {
	feeTypeService  *service.FeeTypeService
	discountService *service.DiscountService
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(feeTypeService *service.FeeTypeService, discountService *service.DiscountService) *FeeHandler {
	return &FeeHandler{
		feeTypeService:  feeTypeService,
		discountService: discountService,
	}
}

// GenerateFeeTypes appends a fee schedule for one scope
func (h *FeeHandler) GenerateFeeTypes(c *gin.Context) {
	var req request.GenerateFeeTypesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	created, err := h.feeTypeService.GenerateFeeTypes(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Fee types generated successfully", created)
}

// ListFeeTypes lists fee types, optionally narrowed to a scope
func (h *FeeHandler) ListFeeTypes(c *gin.Context) {
	var q request.ScopeQuery
	_ = c.ShouldBindQuery(&q)

	feeTypes, err := h.feeTypeService.ListFeeTypes(c.Request.Context(), q.Dimensions())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fee types retrieved successfully", feeTypes)
}

// FeeTypeNames lists the distinct selectable fee type names
func (h *FeeHandler) FeeTypeNames(c *gin.Context) {
	var q request.ScopeQuery
	_ = c.ShouldBindQuery(&q)

	names, err := h.feeTypeService.FeeTypeNames(c.Request.Context(), q.Dimensions())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fee type names retrieved successfully", names)
}

// CreateDiscount handles creating a discount
func (h *FeeHandler) CreateDiscount(c *gin.Context) {
	var req request.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	discount, err := h.discountService.CreateDiscount(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Discount created successfully", discount)
}

// ListDiscounts lists discounts; active=true keeps those valid today
func (h *FeeHandler) ListDiscounts(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))

	discounts, err := h.discountService.ListDiscounts(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discounts retrieved successfully", discounts)
}

// DeleteDiscount handles deleting a discount
func (h *FeeHandler) DeleteDiscount(c *gin.Context) {
	if err := h.discountService.DeleteDiscount(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount deleted successfully", nil)
}
