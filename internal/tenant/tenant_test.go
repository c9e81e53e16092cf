package tenant

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"hansmakler.neko24.de", "hansmakler"},
		{"hansmakler.neko24.de:8080", "hansmakler"},
		{"HansMakler.Neko24.de", "hansmakler"},
		{"neko24.de", ""},
		{"a.b.neko24.de", ""},
		{"hansmakler.other.de", ""},
		{"evilneko24.de", ""},
		{"localhost:8080", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, Subdomain(tt.host, DefaultBaseDomain))
		})
	}
}

func TestMergeOverridesOnlyPresentKeys(t *testing.T) {
	cfg, err := Merge(Default(), []byte(`{"maklerName":"Hans Makler","farbe":"#FF0000"}`))
	require.NoError(t, err)

	want := Default()
	want.MaklerName = "Hans Makler"
	want.Farbe = "#FF0000"
	assert.Equal(t, want, cfg)
}

func TestMergeStripsMarkup(t *testing.T) {
	cfg, err := Merge(Default(), []byte(`{"maklerName":"<b>Müller & Partner</b><script>x()</script>"}`))
	require.NoError(t, err)
	assert.Equal(t, "Müller & Partner", cfg.MaklerName)
}

func TestMergeInvalidJSON(t *testing.T) {
	_, err := Merge(Default(), []byte(`not json`))
	assert.Error(t, err)
}

func TestLoaderFetchesTenantFile(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"maklerName":"Wind Immobilien","telefon":"02223 12345"}`))
	}))
	defer srv.Close()

	cfg := NewLoader(srv.URL+"/").Load(context.Background(), "wind")

	assert.Equal(t, "/configs/wind.json", gotPath)
	assert.Equal(t, "Wind Immobilien", cfg.MaklerName)
	assert.Equal(t, "02223 12345", cfg.Telefon)
	assert.Equal(t, Default().BueroStadt, cfg.BueroStadt)
}

func TestLoaderFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"maklerName":`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			l := NewLoader(srv.URL, WithLogger(slog.New(slog.DiscardHandler)))
			assert.Equal(t, Default(), l.Load(context.Background(), "wind"))

			_, err := l.Fetch(context.Background(), "wind")
			assert.Error(t, err)
		})
	}
}

func TestLoaderWithoutTenantSkipsFetch(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	l := NewLoader(srv.URL)
	assert.Equal(t, Default(), l.Load(context.Background(), ""))
	assert.Equal(t, Default(), l.LoadHost(context.Background(), "www.example.org", DefaultBaseDomain))
	assert.False(t, called)

	assert.Equal(t, Default(), NewLoader("").Load(context.Background(), "wind"))

	cfg, err := l.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoaderClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	l := NewLoader(srv.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	start := time.Now()
	_, err := l.Fetch(context.Background(), "wind")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestOffice(t *testing.T) {
	assert.Equal(t, "Siebengebirgsstr. 59, 53639 Königswinter", Default().Office())
}
