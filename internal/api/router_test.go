package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/backoffice-api/internal/api/handler"
	"github.com/99minutos/backoffice-api/internal/core/service"
	"github.com/99minutos/backoffice-api/internal/infrastructure/db/memory"
	"github.com/99minutos/backoffice-api/internal/infrastructure/hashing"
	"github.com/99minutos/backoffice-api/internal/infrastructure/token"
)

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

func newServer(t *testing.T, strict bool) *echo.Echo {
	t.Helper()
	store := memory.NewStore()
	hasher, err := hashing.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	codec, err := token.NewJWTCodec("router-test-secret-0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	var opts []service.AuthOption
	if strict {
		opts = append(opts, service.WithStrictRevocation(store.Users()))
	}
	log := zerolog.Nop()
	vendors := service.NewVendorService(store.Vendors(), log)
	reg := prometheus.NewRegistry()

	return NewRouter(Deps{
		Auth:       service.NewAuthService(store.Users(), store.Clients(), hasher, codec, log, opts...),
		Users:      service.NewUserService(store.Users(), store.Clients(), hasher, nil, log),
		Clients:    service.NewClientService(store.Clients(), log),
		Projects:   service.NewProjectService(store.Projects(), store.Clients(), vendors, log),
		Vendors:    vendors,
		Log:        log,
		Readiness:  map[string]handler.Pinger{"memory": store},
		Registerer: reg,
		Gatherer:   reg,
	})
}

func do(t *testing.T, e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type authBody struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID       int64  `json:"id"`
		Role     string `json:"role"`
		ClientID *int64 `json:"clientId"`
	} `json:"user"`
}

type idBody struct {
	ID int64 `json:"id"`
}

func register(t *testing.T, e *echo.Echo, body string) authBody {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", body, rec.Code, rec.Body)
	}
	return decode[authBody](t, rec)
}

func create(t *testing.T, e *echo.Echo, path, body, bearer string) int64 {
	t.Helper()
	rec := do(t, e, http.MethodPost, path, body, bearer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST %s: expected 201, got %d: %s", path, rec.Code, rec.Body)
	}
	return decode[idBody](t, rec).ID
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body)
	}
}

// tenants registers an admin, two clients and one user bound to the first client.
type tenants struct {
	admin, user      string
	clientA, clientB int64
}

func seedTenants(t *testing.T, e *echo.Echo) tenants {
	t.Helper()
	admin := register(t, e, `{"email":"root@x.com","password":"secret1","role":"ADMIN"}`).AccessToken
	a := create(t, e, "/clients", `{"companyName":"Acme","contactEmail":"ops@acme.com"}`, admin)
	b := create(t, e, "/clients", `{"companyName":"Globex","contactEmail":"ops@globex.com"}`, admin)
	user := register(t, e, fmt.Sprintf(`{"email":"a@acme.com","password":"secret1","clientId":%d}`, a)).AccessToken
	return tenants{admin: admin, user: user, clientA: a, clientB: b}
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

func TestRegister_DefaultsToClientWithoutTenant(t *testing.T) {
	e := newServer(t, false)
	rec := do(t, e, http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret1"}`, "")
	expectStatus(t, rec, http.StatusCreated)

	raw := decode[map[string]map[string]any](t, rec)
	if raw["user"]["role"] != "CLIENT" {
		t.Errorf("role = %v, want CLIENT", raw["user"]["role"])
	}
	if _, ok := raw["user"]["clientId"]; ok {
		t.Errorf("clientId should be absent, got %v", raw["user"]["clientId"])
	}

	rec = do(t, e, http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"other1"}`, "")
	expectStatus(t, rec, http.StatusConflict)

	rec = do(t, e, http.MethodPost, "/auth/register", `{"email":"b@x.com","password":"secret1","clientId":42}`, "")
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	e := newServer(t, false)
	register(t, e, `{"email":"a@x.com","password":"secret1"}`)

	wrong := do(t, e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"nope12"}`, "")
	unknown := do(t, e, http.MethodPost, "/auth/login", `{"email":"ghost@x.com","password":"nope12"}`, "")
	expectStatus(t, wrong, http.StatusUnauthorized)
	expectStatus(t, unknown, http.StatusUnauthorized)
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", wrong.Body, unknown.Body)
	}

	ok := do(t, e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	expectStatus(t, ok, http.StatusOK)
	tok := decode[authBody](t, ok).AccessToken

	profile := do(t, e, http.MethodGet, "/auth/profile", "", tok)
	expectStatus(t, profile, http.StatusOK)
}

// ---------------------------------------------------------------------------
// Gates
// ---------------------------------------------------------------------------

func TestAuthenticationGate(t *testing.T) {
	e := newServer(t, false)

	expectStatus(t, do(t, e, http.MethodGet, "/auth/profile", "", ""), http.StatusUnauthorized)
	expectStatus(t, do(t, e, http.MethodGet, "/auth/profile", "", "garbage"), http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)

	// Public routes ignore a stale or bogus bearer token.
	register(t, e, `{"email":"a@x.com","password":"secret1"}`)
	rec = do(t, e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`, "garbage")
	expectStatus(t, rec, http.StatusOK)
	rec = do(t, e, http.MethodPost, "/auth/register", `{"email":"b@x.com","password":"secret1"}`, "garbage")
	expectStatus(t, rec, http.StatusCreated)
}

func TestRoleGate_AdminOnlyRoutes(t *testing.T) {
	e := newServer(t, false)
	ten := seedTenants(t, e)

	for _, r := range []struct{ method, path, body string }{
		{http.MethodGet, "/users", ""},
		{http.MethodGet, "/clients", ""},
		{http.MethodPost, "/clients", `{"companyName":"X","contactEmail":"x@x.com"}`},
		{http.MethodPost, "/vendors", `{"name":"V","countriesSupported":["US"],"servicesOffered":["SEO"],"rating":4,"responseSlaHours":4}`},
		{http.MethodDelete, "/vendors/1", ""},
	} {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			expectStatus(t, do(t, e, r.method, r.path, r.body, ten.user), http.StatusForbidden)
		})
	}

	expectStatus(t, do(t, e, http.MethodGet, "/users", "", ten.admin), http.StatusOK)
	expectStatus(t, do(t, e, http.MethodGet, "/vendors", "", ten.user), http.StatusOK)
}

func TestOwnershipGate_Projects(t *testing.T) {
	e := newServer(t, false)
	ten := seedTenants(t, e)

	foreign := create(t, e, "/projects",
		fmt.Sprintf(`{"clientId":%d,"country":"US","servicesNeeded":["SEO"],"budget":1000}`, ten.clientB), ten.admin)
	own := create(t, e, "/projects",
		fmt.Sprintf(`{"clientId":%d,"country":"US","servicesNeeded":["SEO"],"budget":500}`, ten.clientA), ten.user)

	// CLIENT bound to A reading B's project.
	rec := do(t, e, http.MethodGet, fmt.Sprintf("/projects/%d", foreign), "", ten.user)
	expectStatus(t, rec, http.StatusForbidden)

	// ADMIN sees any project.
	expectStatus(t, do(t, e, http.MethodGet, fmt.Sprintf("/projects/%d", foreign), "", ten.admin), http.StatusOK)
	expectStatus(t, do(t, e, http.MethodGet, fmt.Sprintf("/projects/%d", own), "", ten.user), http.StatusOK)

	// Existence is checked before ownership.
	expectStatus(t, do(t, e, http.MethodGet, "/projects/9999", "", ten.user), http.StatusNotFound)

	// Creating for another tenant, and creating for a missing client.
	rec = do(t, e, http.MethodPost, "/projects",
		fmt.Sprintf(`{"clientId":%d,"country":"US","servicesNeeded":["SEO"]}`, ten.clientB), ten.user)
	expectStatus(t, rec, http.StatusForbidden)
	rec = do(t, e, http.MethodPost, "/projects", `{"clientId":9999,"country":"US","servicesNeeded":["SEO"]}`, ten.admin)
	expectStatus(t, rec, http.StatusBadRequest)

	// Cancelling someone else's project is refused; own succeeds.
	expectStatus(t, do(t, e, http.MethodDelete, fmt.Sprintf("/projects/%d", foreign), "", ten.user), http.StatusForbidden)
	expectStatus(t, do(t, e, http.MethodDelete, fmt.Sprintf("/projects/%d", own), "", ten.user), http.StatusNoContent)

	// Listing is scoped to the caller's tenant whatever clientId says.
	rec = do(t, e, http.MethodGet, fmt.Sprintf("/projects?clientId=%d", ten.clientB), "", ten.user)
	expectStatus(t, rec, http.StatusOK)
	list := decode[struct {
		Data []struct {
			ClientID int64 `json:"clientId"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}](t, rec)
	if list.Meta.Total != 1 || len(list.Data) != 1 || list.Data[0].ClientID != ten.clientA {
		t.Fatalf("unexpected listing: %+v", list)
	}
}

func TestOwnershipGate_Clients(t *testing.T) {
	e := newServer(t, false)
	ten := seedTenants(t, e)

	expectStatus(t, do(t, e, http.MethodGet, fmt.Sprintf("/clients/%d", ten.clientA), "", ten.user), http.StatusOK)
	expectStatus(t, do(t, e, http.MethodGet, fmt.Sprintf("/clients/%d", ten.clientB), "", ten.user), http.StatusForbidden)
	expectStatus(t, do(t, e, http.MethodGet, "/clients/9999", "", ten.user), http.StatusNotFound)

	unlinked := register(t, e, `{"email":"solo@x.com","password":"secret1"}`).AccessToken
	expectStatus(t, do(t, e, http.MethodGet, fmt.Sprintf("/clients/%d", ten.clientA), "", unlinked), http.StatusForbidden)
}

// ---------------------------------------------------------------------------
// Vendors
// ---------------------------------------------------------------------------

func TestVendorSearch_FiltersAndRanks(t *testing.T) {
	e := newServer(t, false)
	ten := seedTenants(t, e)

	for _, v := range []string{
		`{"name":"Alpha","countriesSupported":["US"],"servicesOffered":["SEO"],"rating":4.5,"responseSlaHours":24}`,
		`{"name":"Beta","countriesSupported":["US","MX"],"servicesOffered":["ADS"],"rating":4.5,"responseSlaHours":12}`,
		`{"name":"Gamma","countriesSupported":["US"],"servicesOffered":["SEO"],"rating":3.9,"responseSlaHours":1}`,
		`{"name":"Delta","countriesSupported":["MX"],"servicesOffered":["SEO"],"rating":5,"responseSlaHours":2}`,
		`{"name":"Epsilon","countriesSupported":["US"],"servicesOffered":["SEO"],"rating":4,"responseSlaHours":48}`,
	} {
		create(t, e, "/vendors", v, ten.admin)
	}

	type listing struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}

	rec := do(t, e, http.MethodGet, "/vendors?minRating=4&country=US&page=1&limit=10", "", ten.user)
	expectStatus(t, rec, http.StatusOK)
	got := decode[listing](t, rec)

	var names []string
	for _, v := range got.Data {
		names = append(names, v.Name)
	}
	if strings.Join(names, ",") != "Beta,Alpha,Epsilon" {
		t.Fatalf("order = %v, want Beta,Alpha,Epsilon", names)
	}
	if got.Pagination.Total != 3 || got.Pagination.Pages != 1 || got.Pagination.Limit != 10 {
		t.Fatalf("unexpected pagination: %+v", got.Pagination)
	}

	rec = do(t, e, http.MethodGet, "/vendors?minRating=4&country=US&page=2&limit=2", "", ten.user)
	got = decode[listing](t, rec)
	if len(got.Data) != 1 || got.Data[0].Name != "Epsilon" || got.Pagination.Total != 3 || got.Pagination.Pages != 2 {
		t.Fatalf("unexpected second page: %+v", got)
	}
}

func TestListings_OversizedLimitIsClamped(t *testing.T) {
	e := newServer(t, false)
	ten := seedTenants(t, e)

	rec := do(t, e, http.MethodGet, "/vendors?limit=500", "", ten.user)
	expectStatus(t, rec, http.StatusOK)
	vendors := decode[struct {
		Pagination struct {
			Limit int `json:"limit"`
		} `json:"pagination"`
	}](t, rec)
	if vendors.Pagination.Limit != 100 {
		t.Fatalf("vendor limit = %d, want 100", vendors.Pagination.Limit)
	}

	rec = do(t, e, http.MethodGet, "/projects?limit=500", "", ten.admin)
	expectStatus(t, rec, http.StatusOK)
	projects := decode[struct {
		Meta struct {
			Limit int `json:"limit"`
		} `json:"meta"`
	}](t, rec)
	if projects.Meta.Limit != 100 {
		t.Fatalf("project limit = %d, want 100", projects.Meta.Limit)
	}
}

// ---------------------------------------------------------------------------
// Revocation
// ---------------------------------------------------------------------------

func TestDeactivation(t *testing.T) {
	tests := []struct {
		name        string
		strict      bool
		wantProfile int
	}{
		{"token outlives deactivation by default", false, http.StatusOK},
		{"strict revocation rejects token", true, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newServer(t, tc.strict)
			admin := register(t, e, `{"email":"root@x.com","password":"secret1","role":"ADMIN"}`).AccessToken
			victim := register(t, e, `{"email":"v@x.com","password":"secret1"}`)

			expectStatus(t, do(t, e, http.MethodDelete, fmt.Sprintf("/users/%d", victim.User.ID), "", admin), http.StatusNoContent)
			expectStatus(t, do(t, e, http.MethodGet, "/auth/profile", "", victim.AccessToken), tc.wantProfile)

			rec := do(t, e, http.MethodPost, "/auth/login", `{"email":"v@x.com","password":"secret1"}`, "")
			expectStatus(t, rec, http.StatusUnauthorized)
			if !strings.Contains(rec.Body.String(), "deactivated") {
				t.Fatalf("expected deactivation message, got %s", rec.Body)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Operational endpoints
// ---------------------------------------------------------------------------

func TestOperationalEndpoints(t *testing.T) {
	e := newServer(t, false)

	expectStatus(t, do(t, e, http.MethodGet, "/health", "", ""), http.StatusOK)
	expectStatus(t, do(t, e, http.MethodGet, "/health/ready", "", ""), http.StatusOK)

	rec := do(t, e, http.MethodGet, "/metrics", "", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("expected request metrics in /metrics output")
	}

	rec = do(t, e, http.MethodGet, "/nope", "", "")
	expectStatus(t, rec, http.StatusNotFound)
	if rid := rec.Header().Get(echo.HeaderXRequestID); rid == "" {
		t.Fatalf("expected %s header", echo.HeaderXRequestID)
	}
}
