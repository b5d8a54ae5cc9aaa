package healthcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunori-kiku/textholder/directory"
	"github.com/kunori-kiku/textholder/failban"
	"github.com/kunori-kiku/textholder/handlers"
	"github.com/kunori-kiku/textholder/kv"
)

func TestCheckHealth(t *testing.T) {
	t.Run("basic case (200)", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/healthz", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		err := CheckHealth(srv.URL, 5*time.Second, false)
		assert.NoError(t, err)
	})

	t.Run("basic case (302)", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "/login")
			w.WriteHeader(http.StatusFound)
		}))
		defer srv.Close()

		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
		t.Cleanup(func() {
			client.CheckRedirect = nil
		})

		err := CheckHealth(srv.URL, 5*time.Second, false)
		assert.NoError(t, err)
	})

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := CheckHealth(srv.URL, 5*time.Second, false)
		assert.Error(t, err)
	})

	t.Run("passes against the real router without touching ban state", func(t *testing.T) {
		store := kv.NewMemoryStore()
		e := &handlers.Env{
			Directory:  directory.New(store),
			Tracker:    failban.NewTracker(store, 3, 10*time.Minute),
			SuperToken: "supersecret",
		}

		srv := httptest.NewServer(e.BuildRouter())
		defer srv.Close()

		err := CheckHealth(srv.URL, 5*time.Second, false)
		assert.NoError(t, err)

		// the probe must not land in the super-token gate and count as a
		// failed authentication for localhost
		superKeys, err := store.List(context.Background(), failban.PurposeSuper)
		require.NoError(t, err)
		assert.Empty(t, superKeys)
	})

	t.Run("refuses non-localhost hosts", func(t *testing.T) {
		err := CheckHealth("http://example.com", 5*time.Second, false)
		assert.ErrorContains(t, err, "can only check health on localhost")
	})

	t.Run("unreachable server", func(t *testing.T) {
		err := CheckHealth("http://127.0.0.1:1", 1*time.Second, false)
		assert.Error(t, err)
	})
}
