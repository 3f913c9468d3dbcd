package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DurveshChavan/Medical-sub001/internal/application/service"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/internal/presentation/http/dto/request"
	"github.com/DurveshChavan/Medical-sub001/internal/presentation/http/dto/response"
)

// BillingHandler handles invoice endpoints
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Create handles POST /api/v1/invoices
func (h *BillingHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	method, ok := enum.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		response.BadRequest(c, "Unknown payment method")
		return
	}

	input := &service.CreateInvoiceInput{
		PaymentMethod: method,
		Items:         make([]service.InvoiceItemInput, 0, len(req.Items)),
	}

	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &customerID
	}

	for _, item := range req.Items {
		medicineID, err := uuid.Parse(item.MedicineID)
		if err != nil {
			response.BadRequest(c, "Invalid medicine ID")
			return
		}
		input.Items = append(input.Items, service.InvoiceItemInput{
			MedicineID: medicineID,
			Quantity:   item.Quantity,
		})
	}

	invoice, err := h.billingService.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created", invoice)
}

// Get handles GET /api/v1/invoices/:id
func (h *BillingHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.billingService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved", invoice)
}

// ListPending handles GET /api/v1/invoices/pending
func (h *BillingHandler) ListPending(c *gin.Context) {
	invoices, err := h.billingService.ListPendingInvoices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pending invoices retrieved", invoices)
}

// CreateReturn handles POST /api/v1/invoices/:id/returns
func (h *BillingHandler) CreateReturn(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Medicine and quantity are required")
		return
	}

	medicineID, err := uuid.Parse(req.MedicineID)
	if err != nil {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	ret, err := h.billingService.CreateReturn(c.Request.Context(), &service.CreateReturnInput{
		InvoiceID:  id,
		MedicineID: medicineID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Return processed", ret)
}

// ListReturns handles GET /api/v1/invoices/:id/returns
func (h *BillingHandler) ListReturns(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	returns, err := h.billingService.ListReturns(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Returns retrieved", returns)
}

// Finalize handles PUT /api/v1/invoices/:id/finalize
func (h *BillingHandler) Finalize(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.FinalizeInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Payment method is required")
		return
	}

	method, ok := enum.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		response.BadRequest(c, "Unknown payment method")
		return
	}

	invoice, err := h.billingService.FinalizeInvoice(c.Request.Context(), id, method)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice finalized", invoice)
}
