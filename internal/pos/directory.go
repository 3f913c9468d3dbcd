package pos

import (
	"context"
	"strings"
	"sync"

	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
)

// SelectorState is the lifecycle of the customer picker widget
type SelectorState int

const (
	SelectorClosed SelectorState = iota
	SelectorLoading
	SelectorReady
	SelectorError
)

// String returns the string representation of the selector state
func (s SelectorState) String() string {
	switch s {
	case SelectorClosed:
		return "closed"
	case SelectorLoading:
		return "loading"
	case SelectorReady:
		return "ready"
	case SelectorError:
		return "error"
	default:
		return "unknown"
	}
}

// DirectorySelector wraps the directory service for the customer picker.
// The full customer set is loaded once when the picker opens; query changes
// filter the loaded set locally instead of re-querying the server. Each load
// carries a sequence number so a response from a superseded open never
// overwrites newer data.
type DirectorySelector struct {
	svc DirectoryService

	mu        sync.Mutex
	state     SelectorState
	customers []Customer
	loaded    bool
	lastError string
	seq       uint64
}

// NewDirectorySelector creates a selector in the Closed state
func NewDirectorySelector(svc DirectoryService) *DirectorySelector {
	return &DirectorySelector{svc: svc}
}

// State returns the current selector state
func (d *DirectorySelector) State() SelectorState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LastError returns the message from the most recent failed load
func (d *DirectorySelector) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastError
}

// Open moves the selector to Loading and fetches the directory if it has
// not been loaded yet. A failed load lands in the Error state with a
// displayable message; the in-progress cart is never affected.
func (d *DirectorySelector) Open(ctx context.Context) error {
	d.mu.Lock()
	if d.loaded {
		d.state = SelectorReady
		d.mu.Unlock()
		return nil
	}
	d.state = SelectorLoading
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	customers, err := d.svc.ListCustomers(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		// A later open superseded this load; drop the result.
		return nil
	}
	if err != nil {
		d.state = SelectorError
		d.lastError = apperror.GetAppError(err).Message
		return err
	}
	d.customers = customers
	d.loaded = true
	d.lastError = ""
	d.state = SelectorReady
	return nil
}

// Close returns the selector to the Closed state. Loaded data is kept so
// reopening is instant.
func (d *DirectorySelector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = SelectorClosed
}

// Filter matches the query against name, phone and email of the loaded
// set, case-insensitive substring. An empty query returns everything.
func (d *DirectorySelector) Filter(query string) []Customer {
	d.mu.Lock()
	defer d.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Customer, len(d.customers))
		copy(out, d.customers)
		return out
	}

	var out []Customer
	for _, c := range d.customers {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Phone), query) ||
			strings.Contains(strings.ToLower(c.Email), query) {
			out = append(out, c)
		}
	}
	if out == nil {
		out = []Customer{}
	}
	return out
}

// Create validates and creates a customer record mid-checkout. The created
// record is appended to the loaded set and returned so the session can
// select it immediately.
func (d *DirectorySelector) Create(ctx context.Context, fields NewCustomer) (*Customer, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(fields.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if strings.TrimSpace(fields.Phone) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone", Message: "Phone is required"})
	}
	if strings.TrimSpace(fields.Address) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "address", Message: "Address is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	customer, err := d.svc.CreateCustomer(ctx, fields)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.loaded {
		d.customers = append(d.customers, *customer)
	}
	d.mu.Unlock()

	return customer, nil
}
