package request

// InvoiceItemRequest represents one cart line in a create invoice payload
type InvoiceItemRequest struct {
	MedicineID string `json:"medicine_id" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
}

// CreateInvoiceRequest represents the create invoice payload
type CreateInvoiceRequest struct {
	CustomerID    *string              `json:"customer_id" binding:"omitempty,uuid"`
	PaymentMethod string               `json:"payment_method" binding:"required"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// FinalizeInvoiceRequest represents the finalize invoice payload
type FinalizeInvoiceRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CreateReturnRequest represents the return invoice line payload
type CreateReturnRequest struct {
	MedicineID string `json:"medicine_id" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	Reason     string `json:"reason"`
}
