package pos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
)

type fakeDirectory struct {
	customers []Customer
	listErr   error
	listCalls int
	created   []NewCustomer
}

func (f *fakeDirectory) ListCustomers(ctx context.Context) ([]Customer, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.customers, nil
}

func (f *fakeDirectory) CreateCustomer(ctx context.Context, fields NewCustomer) (*Customer, error) {
	f.created = append(f.created, fields)
	return &Customer{ID: uuid.New(), Name: fields.Name, Phone: fields.Phone, Address: fields.Address}, nil
}

func TestDirectorySelectorFilter(t *testing.T) {
	dir := &fakeDirectory{customers: []Customer{
		{Name: "Asha Verma", Phone: "9876543210", Email: "asha@example.com"},
		{Name: "Ravi Kumar", Phone: "9123456780"},
	}}
	sel := NewDirectorySelector(dir)

	require.NoError(t, sel.Open(context.Background()))
	assert.Equal(t, SelectorReady, sel.State())

	// Phone substring match
	got := sel.Filter("9876")
	require.Len(t, got, 1)
	assert.Equal(t, "Asha Verma", got[0].Name)

	// Case-insensitive name match
	got = sel.Filter("ravi")
	require.Len(t, got, 1)
	assert.Equal(t, "Ravi Kumar", got[0].Name)

	// Email match
	got = sel.Filter("asha@")
	require.Len(t, got, 1)

	// No match is an empty list, never an error
	assert.Empty(t, sel.Filter("zzz"))

	// Empty query returns the full set
	assert.Len(t, sel.Filter(""), 2)
}

func TestDirectorySelectorLoadsOnce(t *testing.T) {
	dir := &fakeDirectory{customers: []Customer{{Name: "Asha"}}}
	sel := NewDirectorySelector(dir)

	require.NoError(t, sel.Open(context.Background()))
	sel.Close()
	assert.Equal(t, SelectorClosed, sel.State())

	require.NoError(t, sel.Open(context.Background()))
	assert.Equal(t, 1, dir.listCalls)
	assert.Equal(t, SelectorReady, sel.State())
}

func TestDirectorySelectorLoadFailure(t *testing.T) {
	dir := &fakeDirectory{listErr: apperror.NewTransportError("Server unreachable")}
	sel := NewDirectorySelector(dir)

	err := sel.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, SelectorError, sel.State())
	assert.Equal(t, "Server unreachable", sel.LastError())

	// Recovery: backend comes back, reopening loads successfully
	dir.listErr = nil
	dir.customers = []Customer{{Name: "Asha"}}
	require.NoError(t, sel.Open(context.Background()))
	assert.Equal(t, SelectorReady, sel.State())
	assert.Len(t, sel.Filter(""), 1)
}

func TestDirectorySelectorCreateValidation(t *testing.T) {
	dir := &fakeDirectory{}
	sel := NewDirectorySelector(dir)

	_, err := sel.Create(context.Background(), NewCustomer{Name: "  ", Phone: "98", Address: "x"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, dir.created)

	created, err := sel.Create(context.Background(), NewCustomer{Name: "Asha", Phone: "9876543210", Address: "MG Road"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", created.Name)
	assert.Len(t, dir.created, 1)
}

func TestDirectorySelectorCreateAppendsToLoadedSet(t *testing.T) {
	dir := &fakeDirectory{customers: []Customer{{Name: "Ravi", Phone: "91"}}}
	sel := NewDirectorySelector(dir)
	require.NoError(t, sel.Open(context.Background()))

	_, err := sel.Create(context.Background(), NewCustomer{Name: "Asha", Phone: "98", Address: "MG Road"})
	require.NoError(t, err)

	assert.Len(t, sel.Filter(""), 2)
}
