package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/kunori-kiku/textholder/directory"
	"github.com/kunori-kiku/textholder/failban"
	"github.com/kunori-kiku/textholder/kv"
	"github.com/kunori-kiku/textholder/mocks"
)

const (
	testSuperToken = "supersecret"
	testFailLimit  = 3
	testBanTime    = 10 * time.Minute
)

func makeTestEnv(t *testing.T) (*kv.MemoryStore, *mocks.Fetcher, *Env) {
	t.Helper()

	store := kv.NewMemoryStore()
	f := mocks.NewFetcher(t)

	e := &Env{
		Directory:  directory.New(store),
		Tracker:    failban.NewTracker(store, testFailLimit, testBanTime),
		Fetcher:    f,
		SuperToken: testSuperToken,
	}

	return store, f, e
}

func makeTestRequest(t *testing.T, path string, params url.Values, ip string) *http.Request {
	t.Helper()

	target := path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.RemoteAddr = ip + ":9999"

	return r
}
