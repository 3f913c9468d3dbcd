// Package client implements the POS terminal's service ports against the
// pharmacy API. Every transport failure, timeout, non-2xx status or
// malformed body, is normalized into an error the session can display,
// never a panic into the terminal loop.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/internal/pos"
	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
)

const defaultTimeout = 15 * time.Second

// Client talks to the pharmacy API on behalf of one terminal session.
// It implements pos.DirectoryService, pos.CatalogService,
// pos.LedgerService and pos.BillingService.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var (
	_ pos.DirectoryService = (*Client)(nil)
	_ pos.CatalogService   = (*Client)(nil)
	_ pos.LedgerService    = (*Client)(nil)
	_ pos.BillingService   = (*Client)(nil)
)

// New creates an API client for the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken installs the bearer token from a successful login
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope mirrors the API's uniform response shape
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func kindFromStatus(status int) apperror.Kind {
	switch {
	case status == http.StatusConflict:
		return apperror.KindConflict
	case status == http.StatusNotFound:
		return apperror.KindNotFound
	case status == http.StatusUnauthorized:
		return apperror.KindUnauthorized
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperror.KindValidation
	default:
		return apperror.KindTransport
	}
}

// do issues a request and decodes the envelope. Any failure comes back as
// an AppError; callers branch on kind, not on HTTP details.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, headers map[string]string) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperror.NewTransportError("Failed to encode request: " + err.Error())
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return apperror.NewTransportError("Failed to build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.NewTransportError("Server unreachable: " + err.Error())
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return apperror.NewTransportError("Malformed response from server")
	}

	if !env.Success {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
		kind := apperror.Kind(env.Kind)
		if env.Kind == "" {
			kind = kindFromStatus(resp.StatusCode)
		}
		return apperror.NewAppError(resp.StatusCode, kind, message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperror.NewTransportError("Malformed response payload")
		}
	}
	return nil
}

// Login authenticates the operator and installs the returned token
func (c *Client) Login(ctx context.Context, email, password string) error {
	var result struct {
		AccessToken string `json:"access_token"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", payload, &result, nil); err != nil {
		return err
	}
	c.token = result.AccessToken
	return nil
}

type wireCustomer struct {
	ID                uuid.UUID `json:"customer_id"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Email             *string   `json:"email"`
	Address           string    `json:"address"`
	OutstandingCredit float64   `json:"outstanding_credit"`
	PaymentStatus     string    `json:"payment_status"`
}

func (w wireCustomer) toCustomer() pos.Customer {
	email := ""
	if w.Email != nil {
		email = *w.Email
	}
	return pos.Customer{
		ID:                w.ID,
		Name:              w.Name,
		Phone:             w.Phone,
		Email:             email,
		Address:           w.Address,
		OutstandingCredit: decimal.NewFromFloat(w.OutstandingCredit),
		PaymentStatus:     w.PaymentStatus,
	}
}

// ListCustomers loads the full directory, walking pages until exhausted
func (c *Client) ListCustomers(ctx context.Context) ([]pos.Customer, error) {
	var all []pos.Customer
	page := 1
	for {
		var result struct {
			Items      []wireCustomer `json:"items"`
			Pagination struct {
				HasNext bool `json:"has_next"`
			} `json:"pagination"`
		}
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", "100")
		if err := c.do(ctx, http.MethodGet, "/api/v1/customers?"+q.Encode(), nil, &result, nil); err != nil {
			return nil, err
		}
		for _, w := range result.Items {
			all = append(all, w.toCustomer())
		}
		if !result.Pagination.HasNext {
			return all, nil
		}
		page++
	}
}

// CreateCustomer creates a directory record
func (c *Client) CreateCustomer(ctx context.Context, fields pos.NewCustomer) (*pos.Customer, error) {
	payload := map[string]interface{}{
		"name":    fields.Name,
		"phone":   fields.Phone,
		"address": fields.Address,
	}
	if fields.Email != "" {
		payload["email"] = fields.Email
	}

	var w wireCustomer
	if err := c.do(ctx, http.MethodPost, "/api/v1/customers", payload, &w, nil); err != nil {
		return nil, err
	}
	customer := w.toCustomer()
	return &customer, nil
}

type wireCatalogItem struct {
	MedicineID           uuid.UUID `json:"medicine_id"`
	MedicineName         string    `json:"medicine_name"`
	GenericName          string    `json:"generic_name"`
	Brand                string    `json:"brand"`
	DosageForm           string    `json:"dosage_form"`
	Strength             string    `json:"strength"`
	PrescriptionRequired bool      `json:"prescription_required"`
	Price                float64   `json:"selling_price_per_unit"`
	TotalStock           int       `json:"total_stock"`
}

// SearchMedicines resolves a free-text query to priced catalog entries
func (c *Client) SearchMedicines(ctx context.Context, query string) ([]pos.CatalogItem, error) {
	q := url.Values{}
	q.Set("q", query)

	var wire []wireCatalogItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/medicines/search?"+q.Encode(), nil, &wire, nil); err != nil {
		return nil, err
	}

	items := make([]pos.CatalogItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, pos.CatalogItem{
			MedicineID:           w.MedicineID,
			MedicineName:         w.MedicineName,
			GenericName:          w.GenericName,
			Brand:                w.Brand,
			DosageForm:           w.DosageForm,
			Strength:             w.Strength,
			PrescriptionRequired: w.PrescriptionRequired,
			UnitPrice:            decimal.NewFromFloat(w.Price),
			Stock:                w.TotalStock,
		})
	}
	return items, nil
}

// GetCreditSummary reads a customer's credit position
func (c *Client) GetCreditSummary(ctx context.Context, customerID uuid.UUID) (*pos.CreditSummary, error) {
	var result struct {
		OutstandingCredit    float64 `json:"outstanding_credit"`
		PaymentStatus        string  `json:"payment_status"`
		HasOutstandingCredit bool    `json:"has_outstanding_credit"`
	}
	path := "/api/v1/customers/" + customerID.String() + "/credit_summary"
	if err := c.do(ctx, http.MethodGet, path, nil, &result, nil); err != nil {
		return nil, err
	}

	return &pos.CreditSummary{
		OutstandingCredit:    decimal.NewFromFloat(result.OutstandingCredit),
		PaymentStatus:        result.PaymentStatus,
		HasOutstandingCredit: result.HasOutstandingCredit,
	}, nil
}

// PayCredit records a payment against the customer's outstanding balance
func (c *Client) PayCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, method enum.PaymentMethod) error {
	payload := map[string]interface{}{
		"amount":         amount.InexactFloat64(),
		"payment_method": method.String(),
	}
	path := "/api/v1/customers/" + customerID.String() + "/pay_credit"
	return c.do(ctx, http.MethodPost, path, payload, nil, nil)
}

// CreateInvoice submits the finalized sale. Each submission carries a fresh
// idempotency key so a retry after a timeout cannot double-bill; the server
// replays the cached response instead.
func (c *Client) CreateInvoice(ctx context.Context, req *pos.InvoiceRequest) (*pos.InvoiceReceipt, error) {
	items := make([]map[string]interface{}, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, map[string]interface{}{
			"medicine_id": line.MedicineID.String(),
			"quantity":    line.Quantity,
		})
	}
	payload := map[string]interface{}{
		"payment_method": req.PaymentMethod.String(),
		"items":          items,
	}
	if req.CustomerID != nil {
		payload["customer_id"] = req.CustomerID.String()
	}

	headers := map[string]string{"Idempotency-Key": uuid.New().String()}

	var result struct {
		InvoiceID     uuid.UUID          `json:"invoice_id"`
		InvoiceNo     string             `json:"invoice_no"`
		TotalAmount   float64            `json:"total_amount"`
		TotalTax      float64            `json:"total_tax"`
		PaymentStatus enum.PaymentStatus `json:"payment_status"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/invoices", payload, &result, headers); err != nil {
		return nil, err
	}

	return &pos.InvoiceReceipt{
		InvoiceID:     result.InvoiceID,
		InvoiceNo:     result.InvoiceNo,
		TotalAmount:   decimal.NewFromFloat(result.TotalAmount),
		TotalTax:      decimal.NewFromFloat(result.TotalTax),
		PaymentStatus: result.PaymentStatus,
	}, nil
}
