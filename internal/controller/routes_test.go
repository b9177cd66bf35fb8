package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/acme-customers-backend/internal/auth"
	"github.com/unclebandit/acme-customers-backend/internal/controller"
	"github.com/unclebandit/acme-customers-backend/internal/dto"
	appErrors "github.com/unclebandit/acme-customers-backend/internal/errors"
	"github.com/unclebandit/acme-customers-backend/internal/events"
	"github.com/unclebandit/acme-customers-backend/internal/handler"
	"github.com/unclebandit/acme-customers-backend/internal/model"
	"github.com/unclebandit/acme-customers-backend/internal/service"
)

const apiKey = "s3cret"

// memoryRepo is an in-memory customer store.
type memoryRepo struct {
	mu        sync.Mutex
	customers map[int]model.Customer
	nextID    int
}

func (m *memoryRepo) ListAll(ctx context.Context) ([]model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Customer{}
	for id := 1; id < m.nextID; id++ {
		if c, ok := m.customers[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memoryRepo) Create(ctx context.Context, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	m.customers[c.ID] = *c
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return appErrors.NewCustomerNotFound(c.ID)
	}
	m.customers[c.ID] = *c
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.customers[id]
	delete(m.customers, id)
	return ok, nil
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	svc := &service.CustomerService{
		CustomerRepo: &memoryRepo{customers: map[int]model.Customer{}, nextID: 1},
		Publisher:    events.NopPublisher{},
		Log:          zerolog.Nop(),
	}
	authenticator, err := auth.NewAuthenticator(apiKey, zerolog.Nop())
	require.NoError(t, err)

	ctrl := &controller.CustomerController{CustomerService: svc, Log: zerolog.Nop(), BasePath: controller.APIBasePath}
	return controller.NewRouter(ctrl, handler.NewHealthHandler(okPinger{}, zerolog.Nop()), authenticator.Middleware, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path, body string, withKey bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if withKey {
		req.Header.Set(auth.HeaderName, apiKey)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCustomerLifecycle(t *testing.T) {
	h := newTestRouter(t)

	// create
	w := do(t, h, http.MethodPost, "/api/customers", `{"name":"John Doe","email":"john@example.com"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.CustomerDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotZero(t, created.ID)
	assert.Equal(t, fmt.Sprintf("/api/customers/%d", created.ID), w.Header().Get("Location"))

	path := fmt.Sprintf("/api/customers/%d", created.ID)

	// get
	w = do(t, h, http.MethodGet, path, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched dto.CustomerDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&fetched))
	assert.Equal(t, "John Doe", fetched.Name)
	assert.Equal(t, "john@example.com", fetched.Email)

	// update with a different id in the body
	w = do(t, h, http.MethodPut, path, fmt.Sprintf(`{"id":%d,"name":"Changed"}`, created.ID+1), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, path, "", true)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&fetched))
	assert.Equal(t, "John Doe", fetched.Name)

	// delete
	w = do(t, h, http.MethodDelete, path, "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, path, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// deleting again is still a success
	w = do(t, h, http.MethodDelete, path, "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestEveryAPIRouteRequiresKey(t *testing.T) {
	h := newTestRouter(t)

	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/api/customers", ""},
		{http.MethodGet, "/api/customers/1", ""},
		{http.MethodPost, "/api/customers", `{"name":"x"}`},
		{http.MethodPut, "/api/customers/1", `{"id":1}`},
		{http.MethodDelete, "/api/customers/1", ""},
	}
	for _, rt := range routes {
		w := do(t, h, rt.method, rt.path, rt.body, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestHealthIsOpen(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListAfterCreates(t *testing.T) {
	h := newTestRouter(t)

	for _, name := range []string{"A", "B", "C"} {
		w := do(t, h, http.MethodPost, "/api/customers", fmt.Sprintf(`{"name":%q}`, name), true)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, h, http.MethodGet, "/api/customers", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var all []dto.CustomerDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
	assert.Len(t, all, 3)
}
