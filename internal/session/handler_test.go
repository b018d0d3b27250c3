package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/autocare-booking/internal/schedule"
)

type handlerFixture struct {
	router  http.Handler
	tokens  *Tokens
	manager *Manager
	clock   *schedule.ManualClock
	pub     *recordingPublisher
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	m, clock, pub, _ := newTestManager(t, nil)
	// Same lifetime as the manager's idle TTL, on the same clock.
	tokens := NewTokens("test-secret", time.Hour)
	tokens.now = clock.Now
	h := NewHandler(m, tokens, nil, nil)

	r := chi.NewRouter()
	r.Post("/sessions", h.Create)
	r.Route("/session", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				token := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
				id, err := tokens.Parse(token)
				if err != nil {
					h.writeError(w, err)
					return
				}
				next.ServeHTTP(w, req.WithContext(WithID(req.Context(), id)))
			})
		})
		r.Get("/", h.Get)
		r.Delete("/", h.End)
		r.Post("/catalog/open", h.OpenCategory)
		r.Post("/cart/items", h.AddToCart)
		r.Delete("/cart/items/{itemID}", h.RemoveFromCart)
		r.Post("/vehicle/brand", h.SelectBrand)
		r.Patch("/booking", h.UpdateBooking)
		r.Post("/booking/submit", h.SubmitBooking)
		r.Post("/faq/{index}/toggle", h.ToggleFAQ)
		r.Post("/nav", h.Navigate)
	})
	return &handlerFixture{router: r, tokens: tokens, manager: m, clock: clock, pub: pub}
}

func (f *handlerFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *handlerFixture) create(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, 0, resp.Session.FAQ.Expanded)
	return resp.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandlerCartFlow(t *testing.T) {
	f := newHandlerFixture(t)
	token := f.create(t)

	rec := f.do(t, http.MethodPost, "/session/catalog/open", token, map[string]string{"category_id": "periodic"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/cart/items", token, map[string]string{"item_id": "svc-basic"})
	require.Equal(t, http.StatusOK, rec.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 2499, snap.Cart.Subtotal)
	assert.True(t, snap.Cart.Open)

	f.do(t, http.MethodPost, "/session/catalog/open", token, map[string]string{"category_id": "periodic"})
	rec = f.do(t, http.MethodPost, "/session/cart/items", token, map[string]string{"item_id": "svc-basic"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_item", decodeError(t, rec).Error)

	rec = f.do(t, http.MethodDelete, "/session/cart/items/svc-basic", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.True(t, snap.Cart.Empty)
}

func TestHandlerBookingValidation(t *testing.T) {
	f := newHandlerFixture(t)
	token := f.create(t)

	rec := f.do(t, http.MethodPatch, "/session/booking", token, map[string]string{"name": "Kiran", "slot": "11:00 AM"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/booking/submit", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "validation_failed", body.Error)
	assert.Equal(t, []string{"date", "service_type", "phone"}, body.Missing)

	rec = f.do(t, http.MethodPatch, "/session/booking", token, map[string]string{"slot": "01:00 PM"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_id", decodeError(t, rec).Error)
}

func TestHandlerErrors(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodGet, "/session/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	orphan, err := f.tokens.Issue("no-such-session")
	require.NoError(t, err)
	rec = f.do(t, http.MethodGet, "/session/", orphan, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	token := f.create(t)
	rec = f.do(t, http.MethodPost, "/session/nav", token, map[string]string{"option": "pricing"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/faq/x/toggle", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/cart/items", token, map[string]string{"item_id": "svc-basic"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_category", decodeError(t, rec).Error)

	req := httptest.NewRequest(http.MethodPost, "/session/vehicle/brand", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/session/", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, "/session/", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerTokenSlidesWithActivity(t *testing.T) {
	f := newHandlerFixture(t)
	token := f.create(t)

	// Stay active well past the token lifetime, half an hour at a time.
	for i := 0; i < 5; i++ {
		f.clock.Advance(30 * time.Minute)
		rec := f.do(t, http.MethodPost, "/session/nav", token, map[string]string{"option": "services"})
		require.Equal(t, http.StatusOK, rec.Code, "step %d", i)
		renewed := rec.Header().Get(TokenHeader)
		require.NotEmpty(t, renewed)
		token = renewed
	}

	assert.Zero(t, f.manager.Sweep(f.clock.Now()))
	_, err := f.tokens.Parse(token)
	assert.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/session/", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerTokenExpiresWhenIdle(t *testing.T) {
	f := newHandlerFixture(t)
	token := f.create(t)

	f.clock.Advance(time.Hour + time.Minute)
	rec := f.do(t, http.MethodGet, "/session/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get(TokenHeader))
}

func TestHandlerGetSavesSnapshot(t *testing.T) {
	f := newHandlerFixture(t)
	token := f.create(t)
	before := f.pub.count()

	rec := f.do(t, http.MethodGet, "/session/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(TokenHeader))
	assert.Equal(t, before+1, f.pub.count())
}
