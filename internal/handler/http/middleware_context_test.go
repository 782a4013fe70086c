package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-web-server/internal/request"
	"github.com/MKhiriev/go-web-server/models"
)

func TestWithRequestContext_SnapshotIgnoresLaterMutation(t *testing.T) {
	p := newTestPipeline()

	var rc request.Context
	var ok bool

	populate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := request.StateFrom(r.Context())
			s.Origin = "https://app.example"
			s.User = &models.User{ID: "u-1", Roles: []string{"admin"}}
			s.Token = "tok"
			next.ServeHTTP(w, r)
		})
	}

	mutateLater := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := request.StateFrom(r.Context())
			s.Origin = "https://changed.example"
			s.User.ID = "someone-else"
			s.User.Roles[0] = "guest"
			s.Token = ""
			next.ServeHTTP(w, r)
		})
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, ok = request.FromContext(r.Context())
	})

	h := p.withRequestState(populate(withRequestContext(mutateLater(final))))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://api.example/", nil))

	require.True(t, ok)
	assert.Equal(t, "api.example", rc.Host)
	assert.Equal(t, "https://app.example", rc.Origin)
	require.NotNil(t, rc.User)
	assert.Equal(t, "u-1", rc.User.ID)
	assert.Equal(t, []string{"admin"}, rc.User.Roles)
	assert.Equal(t, "tok", rc.Token)
}

func TestWithRequestContext_BuiltOnce(t *testing.T) {
	p := newTestPipeline()

	var first, second request.Context
	capture := func(dst *request.Context) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				*dst, _ = request.FromContext(r.Context())
				next.ServeHTTP(w, r)
			})
		}
	}
	changeOrigin := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			request.StateFrom(r.Context()).Origin = "late"
			next.ServeHTTP(w, r)
		})
	}

	final := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	h := p.withRequestState(
		withRequestContext(capture(&first)(changeOrigin(withRequestContext(capture(&second)(final))))),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, first, second)
	assert.Empty(t, second.Origin)
}

func TestWithRequestContext_AbsentFieldsAreExplicit(t *testing.T) {
	p := newTestPipeline()

	var rc request.Context
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, _ = request.FromContext(r.Context())
	})

	p.withRequestState(withRequestContext(final)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Nil(t, rc.User)
	assert.Nil(t, rc.Session)
	assert.Empty(t, rc.Token)
	assert.False(t, rc.Authenticated())
}
