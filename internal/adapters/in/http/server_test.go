package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tableside/internal/core/application/actor"
	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSequencer records submissions without executing them, so routing and
// command construction can be tested without a database behind the handlers.
type stubSequencer struct {
	err  error
	keys []string
}

func (s *stubSequencer) Do(_ context.Context, key string, _ func(ctx context.Context) error) error {
	s.keys = append(s.keys, key)
	return s.err
}

func newTestServer(seq *stubSequencer) *echo.Echo {
	e := echo.New()
	srv := NewServer(seq, CommandHandlers{}, QueryHandlers{})
	srv.RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const ordersPath = "/api/v1/orgs/org-1/sites/site-1/orders"

func TestServer_CommandRoutes(t *testing.T) {
	orderID := kernel.NewUUID().String()
	lineID := kernel.NewUUID().String()

	t.Run("should dispatch close on the order's key", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost, ordersPath+"/"+orderID+"/close",
			`{"actor": "alice"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.Len(t, seq.keys, 1)
		assert.Contains(t, seq.keys[0], orderID)
		assert.Contains(t, seq.keys[0], "org-1")
	})

	t.Run("should answer 503 when the dispatcher is shut down", func(t *testing.T) {
		seq := &stubSequencer{err: actor.ErrDispatcherClosed}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost, ordersPath+"/"+orderID+"/close",
			`{"actor": "alice"}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("should reject a malformed order id", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost, ordersPath+"/not-a-uuid/close",
			`{"actor": "alice"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, seq.keys)
	})

	t.Run("should reject a malformed line id", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodDelete,
			ordersPath+"/"+orderID+"/lines/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, seq.keys)
	})

	t.Run("should reject a malformed request body", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost, ordersPath+"/"+orderID+"/lines",
			`{"name": `)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, seq.keys)
	})

	t.Run("should reject an unknown order type on open", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost, ordersPath,
			`{"order_type": "RoomService", "guest_count": 2}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, seq.keys)
	})

	t.Run("should reject an invalid command before dispatching", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost, ordersPath+"/"+orderID+"/lines",
			`{"name": "", "quantity": 0, "unit_price": 0, "tax_rate": 0}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, seq.keys)
	})

	t.Run("should reject a void without a reason", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost,
			ordersPath+"/"+orderID+"/lines/"+lineID+"/void",
			`{"actor": "alice", "reason": ""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, seq.keys)
	})

	t.Run("should reject a merge with a malformed source id", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost, ordersPath+"/"+orderID+"/merge",
			`{"source_order_id": "nope", "actor": "alice"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject malformed line ids on hold", func(t *testing.T) {
		seq := &stubSequencer{}
		e := newTestServer(seq)

		rec := doJSON(e, http.MethodPost, ordersPath+"/"+orderID+"/hold",
			`{"line_ids": ["nope"], "actor": "alice"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, seq.keys)
	})
}

func TestServer_QueryRoutes(t *testing.T) {
	t.Run("should reject a malformed order id on get", func(t *testing.T) {
		e := newTestServer(&stubSequencer{})

		rec := doJSON(e, http.MethodGet, ordersPath+"/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject a malformed order id on totals", func(t *testing.T) {
		e := newTestServer(&stubSequencer{})

		rec := doJSON(e, http.MethodGet, ordersPath+"/not-a-uuid/totals", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWriteError(t *testing.T) {
	statusFor := func(t *testing.T, err error) int {
		t.Helper()
		e := echo.New()
		rec := httptest.NewRecorder()
		ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, writeError(ctx, err))
		return rec.Code
	}

	t.Run("should map validation errors to 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest,
			statusFor(t, errs.NewValidationError("quantity")))
	})

	t.Run("should map not found errors to 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound,
			statusFor(t, errs.NewNotFoundError("order", "abc")))
	})

	t.Run("should map invalid state errors to 409", func(t *testing.T) {
		assert.Equal(t, http.StatusConflict,
			statusFor(t, errs.NewInvalidStateError("order is closed")))
	})

	t.Run("should map already exists errors to 409", func(t *testing.T) {
		assert.Equal(t, http.StatusConflict,
			statusFor(t, errs.NewAlreadyExistsError("order", "abc")))
	})

	t.Run("should map a closed dispatcher to 503", func(t *testing.T) {
		assert.Equal(t, http.StatusServiceUnavailable,
			statusFor(t, actor.ErrDispatcherClosed))
	})

	t.Run("should map wrapped domain errors through their cause", func(t *testing.T) {
		wrapped := errs.NewNotFoundErrorWithCause("order", "abc", errors.New("no rows"))
		assert.Equal(t, http.StatusNotFound, statusFor(t, wrapped))
	})

	t.Run("should default to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError,
			statusFor(t, errors.New("boom")))
	})
}

func TestParseLineIDs(t *testing.T) {
	t.Run("should parse every id", func(t *testing.T) {
		a, b := kernel.NewUUID(), kernel.NewUUID()

		ids, err := parseLineIDs([]string{a.String(), b.String()})

		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.Equal(t, a, ids[0])
		assert.Equal(t, b, ids[1])
	})

	t.Run("should fail on the first malformed id", func(t *testing.T) {
		_, err := parseLineIDs([]string{kernel.NewUUID().String(), "nope"})

		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}
