package mount

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	myHTTP "github.com/MKhiriev/go-web-server/internal/handler/http"
)

func init() {
	RegisterRoutes("test-echo", func(r chi.Router, deps Deps) error {
		body := deps.Option("body", "echo").(string)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body + " " + deps.Prefix))
		})
		return nil
	})
	RegisterRoutes("test-ping", func(r chi.Router, deps Deps) error {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("pong"))
		})
		return nil
	})
	RegisterRoutes("test-failing", func(r chi.Router, deps Deps) error {
		return errors.New("boom")
	})
	RegisterRoutes("test-conflict", func(r chi.Router, deps Deps) error {
		r.Mount("/sub", http.NotFoundHandler())
		r.Mount("/sub", http.NotFoundHandler())
		return nil
	})
	RegisterMiddleware("test-header-a", func() myHTTP.Middleware {
		return headerMiddleware("a")
	})
	RegisterMiddleware("test-header-b", func() myHTTP.Middleware {
		return headerMiddleware("b")
	})
	RegisterMiddleware("test-nil", func() myHTTP.Middleware { return nil })
}

func headerMiddleware(value string) myHTTP.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", value)
			next.ServeHTTP(w, r)
		})
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRegister_Panics(t *testing.T) {
	assert.Panics(t, func() { RegisterRoutes("test-echo", func(chi.Router, Deps) error { return nil }) })
	assert.Panics(t, func() { RegisterRoutes("test-nil-routes", nil) })
	assert.Panics(t, func() { RegisterMiddleware("test-header-a", func() myHTTP.Middleware { return nil }) })
	assert.Panics(t, func() { RegisterMiddleware("test-nil-mw", nil) })
}

func TestRegistry_Names(t *testing.T) {
	assert.Contains(t, Routes(), "test-echo")
	assert.Contains(t, Middlewares(), "test-header-a")
	assert.IsIncreasing(t, Routes())
}

func TestReadDescriptors(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		want    []Descriptor
		wantErr error
	}{
		{
			name: "missing folder",
			fsys: fstest.MapFS{},
			want: nil,
		},
		{
			name: "lexical order and defaults",
			fsys: fstest.MapFS{
				"b.json":           {Data: []byte(`{"factory":"test-ping","prefix":"/b/"}`)},
				"a.yaml":           {Data: []byte("factory: test-echo\n")},
				"README.md":        {Data: []byte("ignored")},
				"middleware/x.yml": {Data: []byte("factory: test-header-a\n")},
			},
			want: []Descriptor{
				{File: "a.yaml", Factory: "test-echo", Prefix: "/"},
				{File: "b.json", Factory: "test-ping", Prefix: "/b"},
			},
		},
		{
			name:    "no factory",
			fsys:    fstest.MapFS{"a.yaml": {Data: []byte("prefix: /a\n")}},
			wantErr: ErrMalformedModule,
		},
		{
			name:    "relative prefix",
			fsys:    fstest.MapFS{"a.yaml": {Data: []byte("factory: test-echo\nprefix: a\n")}},
			wantErr: ErrMalformedModule,
		},
		{
			name:    "broken json",
			fsys:    fstest.MapFS{"a.json": {Data: []byte("{")}},
			wantErr: ErrMalformedModule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readDescriptors(tt.fsys, ".")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("discovery order", func(t *testing.T) {
		fsys := fstest.MapFS{
			"middleware/20-b.yaml": {Data: []byte("factory: test-header-b\n")},
			"middleware/10-a.yaml": {Data: []byte("factory: test-header-a\n")},
		}

		chain, err := Middleware(fsys)
		require.NoError(t, err)
		require.Len(t, chain, 2)
		assert.Equal(t, "test-header-a", chain[0].Name)
		assert.Equal(t, "middleware/10-a.yaml", chain[0].File)

		r := chi.NewRouter()
		r.Use(chain.Handlers()...)
		r.Get("/", func(http.ResponseWriter, *http.Request) {})
		rec := get(t, r, "/")
		assert.Equal(t, []string{"a", "b"}, rec.Header().Values("X-Chain"))

		_, ok := chain.Lookup("test-header-b")
		assert.True(t, ok)
		_, ok = chain.Lookup("missing")
		assert.False(t, ok)
	})

	t.Run("no middleware folder", func(t *testing.T) {
		chain, err := Middleware(fstest.MapFS{})
		require.NoError(t, err)
		assert.Empty(t, chain)
	})

	t.Run("unknown factory", func(t *testing.T) {
		_, err := Middleware(fstest.MapFS{"middleware/a.yaml": {Data: []byte("factory: nope\n")}})
		assert.ErrorIs(t, err, ErrUnknownFactory)
	})

	t.Run("nil middleware", func(t *testing.T) {
		_, err := Middleware(fstest.MapFS{"middleware/a.yaml": {Data: []byte("factory: test-nil\n")}})
		assert.ErrorIs(t, err, ErrMalformedModule)
	})
}

func TestMount(t *testing.T) {
	t.Run("prefixes and options", func(t *testing.T) {
		fsys := fstest.MapFS{
			"echo.yaml": {Data: []byte("factory: test-echo\nprefix: /echo\noptions:\n  body: hello\n")},
			"root.json": {Data: []byte(`{"factory":"test-ping"}`)},
		}

		r := chi.NewRouter()
		mounted, err := Mount(r, fsys, Deps{Name: "test"})
		require.NoError(t, err)
		assert.Equal(t, []Module{
			{File: "echo.yaml", Factory: "test-echo", Prefix: "/echo"},
			{File: "root.json", Factory: "test-ping", Prefix: "/"},
		}, mounted)

		rec := get(t, r, "/echo")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello /echo", rec.Body.String())

		rec = get(t, r, "/ping")
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("deterministic", func(t *testing.T) {
		fsys := fstest.MapFS{
			"c.yaml": {Data: []byte("factory: test-echo\nprefix: /c\n")},
			"a.yaml": {Data: []byte("factory: test-echo\nprefix: /a\n")},
			"b.yaml": {Data: []byte("factory: test-echo\nprefix: /b\n")},
		}

		first, err := Mount(chi.NewRouter(), fsys, Deps{})
		require.NoError(t, err)
		second, err := Mount(chi.NewRouter(), fsys, Deps{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, "/a", first[0].Prefix)
	})

	t.Run("unknown factory", func(t *testing.T) {
		_, err := Mount(chi.NewRouter(), fstest.MapFS{"a.yaml": {Data: []byte("factory: nope\n")}}, Deps{})
		assert.ErrorIs(t, err, ErrUnknownFactory)
	})

	t.Run("factory error", func(t *testing.T) {
		_, err := Mount(chi.NewRouter(), fstest.MapFS{"a.yaml": {Data: []byte("factory: test-failing\n")}}, Deps{})
		assert.ErrorIs(t, err, ErrMalformedModule)
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("route conflict", func(t *testing.T) {
		_, err := Mount(chi.NewRouter(), fstest.MapFS{"a.yaml": {Data: []byte("factory: test-conflict\nprefix: /x\n")}}, Deps{})
		assert.ErrorIs(t, err, ErrMalformedModule)
	})

	t.Run("options are not shared", func(t *testing.T) {
		fsys := fstest.MapFS{"a.yaml": {Data: []byte("factory: test-echo\nprefix: /a\n")}}
		deps := Deps{Options: map[string]any{"body": "outer"}}

		r := chi.NewRouter()
		_, err := Mount(r, fsys, deps)
		require.NoError(t, err)
		assert.Equal(t, "echo /a", get(t, r, "/a").Body.String())
		assert.Equal(t, "outer", deps.Options["body"])
	})
}
