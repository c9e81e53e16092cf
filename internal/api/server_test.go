package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/formstate"
	"github.com/abhisek/immowert/internal/logging"
	"github.com/abhisek/immowert/internal/submission"
	"github.com/abhisek/immowert/internal/tenant"
)

func houseAnswers() answers.AnswerSet {
	return answers.AnswerSet{
		PropertyType:      answers.Ptr(answers.House),
		HouseType:         answers.Ptr("detached_house"),
		LivingArea:        answers.Ptr(140),
		PlotArea:          answers.Ptr(520),
		RoomCount:         answers.Ptr(5),
		YearBuilt:         answers.Ptr("1990_2009"),
		HasBasement:       answers.Ptr(false),
		ZipCode:           answers.Ptr("53639"),
		City:              answers.Ptr("Königswinter"),
		ConditionGeneral:  answers.Ptr("gepflegt"),
		EquipmentQuality:  answers.Ptr("standard"),
		HeatingType:       answers.Ptr("heat_pump_air"),
		WindowType:        answers.Ptr("triple_glazed"),
		FlooringType:      []string{"parquet", "tiles"},
		KitchenDetails:    &answers.Kitchen{Included: false},
		ParkingType:       answers.Ptr("single_garage"),
		EnergyCertificate: &answers.EnergyCertificate{Available: true, Class: answers.Ptr("B")},
		CurrentlyRented:   answers.Ptr(false),
		UserIntent:        answers.Ptr("sell_future"),
	}
}

type apiFixture struct {
	srv      *httptest.Server
	hook     *httptest.Server
	hookBody string
	hookCode int

	mu       sync.Mutex
	requests [][]byte
	slots    map[string]*formstate.MemoryPersistence
}

func newFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		hookBody: "Accepted",
		hookCode: http.StatusOK,
		slots:    make(map[string]*formstate.MemoryPersistence),
	}
	f.hook = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, b)
		f.mu.Unlock()
		w.WriteHeader(f.hookCode)
		w.Write([]byte(f.hookBody))
	}))
	t.Cleanup(f.hook.Close)

	configs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configs, "wind.json"), []byte(`{"maklerName":"Wind Immobilien"}`), 0o644))

	api := NewServer(Options{
		Persistence: func(id string) formstate.Persistence {
			if _, ok := f.slots[id]; !ok {
				f.slots[id] = formstate.NewMemoryPersistence()
			}
			return f.slots[id]
		},
		Gateway: func(string) submission.Gateway {
			return submission.NewHTTPGateway(f.hook.URL)
		},
		BaseDomain: tenant.DefaultBaseDomain,
		ConfigsDir: configs,
		Logger:     logging.Discard(),
	})
	f.srv = httptest.NewServer(api)
	t.Cleanup(f.srv.Close)

	// Tenant files are served by the API itself.
	api.opts.Tenants = tenant.NewLoader(f.srv.URL, tenant.WithLogger(logging.Discard()))
	return f
}

func (f *apiFixture) sent(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]any
	for _, b := range f.requests {
		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		out = append(out, m)
	}
	return out
}

func (f *apiFixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func (f *apiFixture) create(t *testing.T) string {
	t.Helper()
	code, out := f.do(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, code)
	return out["id"].(string)
}

func patchBody(t *testing.T, a answers.AnswerSet) string {
	t.Helper()
	b, err := json.Marshal(a)
	require.NoError(t, err)
	return string(b)
}

// walk presses next until the wizard submits and returns the last response.
func (f *apiFixture) walk(t *testing.T, id string) (int, map[string]any) {
	t.Helper()
	for i := 0; i < 30; i++ {
		code, out := f.do(t, http.MethodPost, "/api/sessions/"+id+"/next", "")
		if code != http.StatusOK || out["submitted"] == true {
			return code, out
		}
	}
	t.Fatal("wizard never submitted")
	return 0, nil
}

func TestCreateAndState(t *testing.T) {
	f := newFixture(t)
	id := f.create(t)

	code, state := f.do(t, http.MethodGet, "/api/sessions/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "at_step", state["phase"])
	assert.Equal(t, float64(0), state["position"])
	assert.Equal(t, false, state["canProceed"])

	current := state["current"].(map[string]any)
	assert.Equal(t, "property_type", current["id"])
	assert.Contains(t, current["subtitle"], "Ihr Immobilienexperte")
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)
	code, _ := f.do(t, http.MethodGet, "/api/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.do(t, http.MethodGet, "/api/sessions/6f1c0c5e-5b5e-4a47-9a1e-0d6f2b7b8c11", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNextBlockedReturnsConflict(t *testing.T) {
	f := newFixture(t)
	id := f.create(t)

	code, out := f.do(t, http.MethodPost, "/api/sessions/"+id+"/next", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, out["error"], "required answers missing")

	code, _ = f.do(t, http.MethodPost, "/api/sessions/"+id+"/back", "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestPatchValidation(t *testing.T) {
	f := newFixture(t)
	id := f.create(t)

	code, _ := f.do(t, http.MethodPatch, "/api/sessions/"+id+"/answers", `{"propertyType":"castle"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPatch, "/api/sessions/"+id+"/answers", `{"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, state := f.do(t, http.MethodPatch, "/api/sessions/"+id+"/answers", `{"propertyType":"apartment"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, state["canProceed"])

	var ids []string
	for _, st := range state["steps"].([]any) {
		ids = append(ids, st.(map[string]any)["id"].(string))
	}
	assert.Contains(t, ids, "apartment_size")
	assert.NotContains(t, ids, "house_size")
}

func TestFullWalkSubmitsAndEdits(t *testing.T) {
	f := newFixture(t)
	id := f.create(t)

	code, _ := f.do(t, http.MethodPatch, "/api/sessions/"+id+"/answers", patchBody(t, houseAnswers()))
	require.Equal(t, http.StatusOK, code)

	code, out := f.walk(t, id)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["submitted"])
	assert.Equal(t, "done", out["state"].(map[string]any)["phase"])

	sent := f.sent(t)
	require.Len(t, sent, 1)
	assert.Equal(t, "Königswinter", sent[0]["city"])
	assert.NotContains(t, sent[0], "isComparison")

	code, rec := f.do(t, http.MethodGet, "/api/sessions/"+id+"/result", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(450000), rec["estimated_property_value_eur"])

	code, state := f.do(t, http.MethodPost, "/api/sessions/"+id+"/edit", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "at_step", state["phase"])
	assert.Equal(t, float64(0), state["position"])
	assert.Equal(t, "Königswinter", state["answers"].(map[string]any)["city"])

	code, _ = f.do(t, http.MethodGet, "/api/sessions/"+id+"/result", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSubmissionFailureReturnsBadGateway(t *testing.T) {
	f := newFixture(t)
	f.hookCode = http.StatusInternalServerError
	id := f.create(t)
	f.do(t, http.MethodPatch, "/api/sessions/"+id+"/answers", patchBody(t, houseAnswers()))

	code, out := f.walk(t, id)
	require.Equal(t, http.StatusBadGateway, code)
	state := out["state"].(map[string]any)
	assert.Equal(t, "at_step", state["phase"])
	assert.Equal(t, true, state["isLast"])
	assert.NotEmpty(t, state["error"])
}

func TestCompare(t *testing.T) {
	f := newFixture(t)
	f.hookBody = `{"estimated_property_value_eur": 510000, "confidence_level": "hoch"}`
	id := f.create(t)

	code, _ := f.do(t, http.MethodPost, "/api/sessions/"+id+"/comparisons", `{"zipCode":"53111","city":"Bonn"}`)
	assert.Equal(t, http.StatusConflict, code, "compare needs a finished valuation")

	f.do(t, http.MethodPatch, "/api/sessions/"+id+"/answers", patchBody(t, houseAnswers()))
	f.walk(t, id)

	code, _ = f.do(t, http.MethodPost, "/api/sessions/"+id+"/comparisons", `{"city":"Bonn"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, rec := f.do(t, http.MethodPost, "/api/sessions/"+id+"/comparisons", `{"zipCode":"53111","city":"Bonn"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(510000), rec["estimated_property_value_eur"])

	all := f.sent(t)
	sent := all[len(all)-1]
	assert.Equal(t, true, sent["isComparison"])
	assert.Equal(t, "Bonn", sent["city"])
	assert.Equal(t, "Königswinter", sent["originalData"].(map[string]any)["city"])
}

func TestSessionRevivedFromPersistence(t *testing.T) {
	f := newFixture(t)
	id := f.create(t)
	f.do(t, http.MethodPatch, "/api/sessions/"+id+"/answers", `{"propertyType":"house"}`)

	// A fresh server over the same slots resumes the session.
	api := NewServer(Options{
		Persistence: func(sid string) formstate.Persistence { return f.slots[sid] },
		Logger:      logging.Discard(),
	})
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var state map[string]any
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&state))
	assert.Equal(t, "house", state["answers"].(map[string]any)["propertyType"])
}

func TestTenantByHost(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/api/tenant", nil)
	require.NoError(t, err)
	req.Host = "wind.neko24.de"
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var cfg tenant.Config
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, "Wind Immobilien", cfg.MaklerName)
	assert.Equal(t, tenant.Default().Telefon, cfg.Telefon)

	code, def := f.do(t, http.MethodGet, "/api/tenant", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, tenant.Default().MaklerName, def["maklerName"])
}

func TestConfigsServed(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.srv.URL + "/configs/wind.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(f.srv.URL + "/configs/missing.json")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func tenantRequest(host string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/tenant", nil)
	req.Host = host
	return req
}

func TestSlowTenantDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	configs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/configs/slow.json" {
			<-release
		}
		w.Write([]byte(`{"maklerName":"Fast Immobilien"}`))
	}))
	defer configs.Close()
	defer close(release)

	api := NewServer(Options{
		Tenants:    tenant.NewLoader(configs.URL, tenant.WithLogger(logging.Discard())),
		BaseDomain: tenant.DefaultBaseDomain,
		Logger:     logging.Discard(),
	})

	go api.tenantFor(tenantRequest("slow.neko24.de"))

	done := make(chan tenant.Config, 1)
	go func() { done <- api.tenantFor(tenantRequest("fast.neko24.de")) }()
	select {
	case cfg := <-done:
		assert.Equal(t, "Fast Immobilien", cfg.MaklerName)
	case <-time.After(2 * time.Second):
		t.Fatal("fast tenant waited for the slow one")
	}
}

func TestFailedTenantLoadIsRetried(t *testing.T) {
	var mu sync.Mutex
	status := http.StatusServiceUnavailable
	calls := 0
	configs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"maklerName":"Hans Makler"}`))
		}
	}))
	defer configs.Close()

	api := NewServer(Options{
		Tenants:    tenant.NewLoader(configs.URL, tenant.WithLogger(logging.Discard())),
		BaseDomain: tenant.DefaultBaseDomain,
		Logger:     logging.Discard(),
	})

	assert.Equal(t, tenant.Default().MaklerName, api.tenantFor(tenantRequest("hans.neko24.de")).MaklerName)

	mu.Lock()
	status = http.StatusOK
	mu.Unlock()
	assert.Equal(t, "Hans Makler", api.tenantFor(tenantRequest("hans.neko24.de")).MaklerName)

	// A successful load is served from the cache.
	assert.Equal(t, "Hans Makler", api.tenantFor(tenantRequest("hans.neko24.de")).MaklerName)
	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}
