package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/client/config"
	"github.com/dmitrijs2005/pvisualizer/internal/client/credentials"
	"github.com/dmitrijs2005/pvisualizer/internal/client/models"
	"github.com/dmitrijs2005/pvisualizer/internal/client/session"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- stub API ----

type stubAPI struct {
	mu      sync.Mutex
	hits    map[string]int
	updated models.ProfileUpdate
	signup  models.SignupRequest
}

func (s *stubAPI) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.mu.Unlock()

	authorized := r.Header.Get("Authorization") == "Bearer tok123"

	switch r.URL.Path {
	case "/":
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	case "/auth/login":
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "a@b.com" || body.Password != "x" {
			http.Error(w, `{"detail":"Invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `"tok123"`)
	case "/auth/signup":
		s.mu.Lock()
		_ = json.NewDecoder(r.Body).Decode(&s.signup)
		s.mu.Unlock()
		_, _ = io.WriteString(w, `"tok123"`)
	case "/auth/verify":
		if !authorized {
			http.Error(w, `{"detail":"expired"}`, http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `true`)
	case "/auth/me":
		if !authorized {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"name":"Ada Lovelace","email":"ada@example.com","role":"INDIVIDUAL_INVESTOR","country":"UNITED_KINGDOM","market_region":"EUROPE","company":"Engines","firm_type":"RIA"}`)
	case "/auth/update":
		s.mu.Lock()
		_ = json.NewDecoder(r.Body).Decode(&s.updated)
		s.mu.Unlock()
		_, _ = io.WriteString(w, `{"ok":true}`)
	case "/strategy/all":
		_, _ = io.WriteString(w, `{"strategies":[{"id":"m1","name":"Momentum","benchmark":"SPY","daysToRefresh":30}]}`)
	case "/strategy/m1":
		_, _ = io.WriteString(w, `{"strategy":{"name":"Momentum","ticker_strategy_map":[{"ticker":"AAPL"}]},"annual_return":[{"year":2023,"value":21.25}]}`)
	case "/monthly-stats/all":
		_, _ = io.WriteString(w, `[{"model_id":"m1","year":2024,"month":3,"return":1.2}]`)
	default:
		http.NotFound(w, r)
	}
}

// ---- helpers ----

func newTestApp(t *testing.T, stored string) (*App, *stubAPI, *credentials.MemoryStore, *bytes.Buffer) {
	t.Helper()
	api := &stubAPI{hits: map[string]int{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL
	cfg.StoreBackend = config.StoreMemory
	cfg.RequestTimeout = 2 * time.Second
	cfg.VerifyRetries = 0
	cfg.Plain = true

	store := credentials.NewMemoryStore()
	if stored != "" {
		require.NoError(t, store.Save(context.Background(), stored))
	}

	var out bytes.Buffer
	app, err := New(cfg, store, strings.NewReader(""), &out, logging.NewDiscard())
	require.NoError(t, err)
	return app, api, store, &out
}

// stubAnswers feeds answers to every text prompt, then reports EOF.
func stubAnswers(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(_ io.Writer) (string, error) { return password, nil }
}

func storedToken(t *testing.T, s *credentials.MemoryStore) string {
	t.Helper()
	tok, err := s.Load(context.Background())
	if errors.Is(err, credentials.ErrNoCredential) {
		return ""
	}
	require.NoError(t, err)
	return tok
}

// ---- tests ----

func TestLogin_Success(t *testing.T) {
	app, _, store, out := newTestApp(t, "")
	stubAnswers(t, "x", "a@b.com")

	require.NoError(t, app.Login(context.Background()))
	assert.Contains(t, out.String(), "Login successful.")
	assert.Equal(t, "tok123", storedToken(t, store))
	assert.True(t, app.isLoggedIn())
}

func TestLogin_WrongPassword(t *testing.T) {
	app, _, store, out := newTestApp(t, "")
	stubAnswers(t, "bad", "a@b.com")

	require.Error(t, app.Login(context.Background()))
	assert.Contains(t, out.String(), "Login unsuccessful")
	assert.Empty(t, storedToken(t, store))
	assert.False(t, app.isLoggedIn())
}

func TestLogin_AlreadyLoggedIn(t *testing.T) {
	app, api, _, out := newTestApp(t, "tok123")
	stubAnswers(t, "")

	require.NoError(t, app.Login(context.Background()))
	assert.Contains(t, out.String(), "Already logged in.")
	assert.Equal(t, 0, api.count("/auth/login"))
}

func TestSignup(t *testing.T) {
	app, api, store, out := newTestApp(t, "")
	stubAnswers(t, "pw", "Ada", "Lovelace", "ada@example.com", "Engines", "1", "3", "2", "RIA")

	require.NoError(t, app.Signup(context.Background()))
	assert.Contains(t, out.String(), "you are logged in")
	assert.Equal(t, "tok123", storedToken(t, store))

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, models.SignupRequest{
		FullName:      "Ada Lovelace",
		BusinessEmail: "ada@example.com",
		Password:      "pw",
		ProfileType:   models.ProfileIndividualInvestor,
		Company:       "Engines",
		Country:       models.CountryUnitedKingdom,
		FirmType:      models.FirmRIA,
		MarketRegion:  models.RegionEurope,
	}, api.signup)
}

func TestProtected_NoCredentialRedirects(t *testing.T) {
	app, api, _, out := newTestApp(t, "")

	err := app.Strategies(context.Background())
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Contains(t, out.String(), "Login required")
	assert.Equal(t, 0, api.count("/auth/verify"))
	assert.Equal(t, 0, api.count("/strategy/all"))
}

func TestProtected_ExpiredCredentialEvicted(t *testing.T) {
	app, api, store, _ := newTestApp(t, "expired")

	err := app.Strategy(context.Background(), "m1")
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 1, api.count("/auth/verify"))
	assert.Equal(t, 0, api.count("/strategy/m1"))
	assert.Empty(t, storedToken(t, store))
}

func TestProtected_RendersWithValidCredential(t *testing.T) {
	app, api, _, out := newTestApp(t, "tok123")

	require.NoError(t, app.Strategies(context.Background()))
	s := out.String()
	assert.Contains(t, s, "Checking session...")
	assert.Contains(t, s, "| m1 | Momentum | SPY | 30 |")

	out.Reset()
	require.NoError(t, app.Strategy(context.Background(), "m1"))
	assert.Contains(t, out.String(), "Tickers: AAPL")
	assert.Contains(t, out.String(), "| 2023 | 21.25% |")
	assert.NotContains(t, out.String(), "Checking session...")

	out.Reset()
	require.NoError(t, app.MonthlyStats(context.Background(), "m1", false, 0, 0))
	assert.Contains(t, out.String(), "| 2024 | Mar | 1.20% |")

	assert.Equal(t, 1, api.count("/auth/verify"))
}

func TestProfileAndUpdate(t *testing.T) {
	app, api, _, out := newTestApp(t, "tok123")

	require.NoError(t, app.Profile(context.Background()))
	assert.Contains(t, out.String(), "| Name | Ada Lovelace |")

	// keep everything but the company
	stubAnswers(t, "", "", "", "", "Looms", "", "", "", "")
	require.NoError(t, app.UpdateProfile(context.Background()))

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, "Ada Lovelace", api.updated.FullName)
	assert.Equal(t, "Looms", api.updated.Company)
	assert.Equal(t, models.CountryUnitedKingdom, api.updated.Country)
	assert.Equal(t, models.FirmRIA, api.updated.FirmType)
}

func TestLogoutAndStatus(t *testing.T) {
	app, _, store, out := newTestApp(t, "tok123")

	require.NoError(t, app.Status(context.Background()))
	assert.Contains(t, out.String(), "Session: AUTHENTICATED")

	require.NoError(t, app.Logout(context.Background()))
	assert.Empty(t, storedToken(t, store))
	assert.Equal(t, session.Unauthenticated, app.guard.State())

	out.Reset()
	require.NoError(t, app.Status(context.Background()))
	assert.Contains(t, out.String(), "Session: UNAUTHENTICATED")
}

func TestGetStatus(t *testing.T) {
	app, _, _, _ := newTestApp(t, "")
	assert.Equal(t, "(unknown)", app.getStatus())
}

func TestSubcommands(t *testing.T) {
	app, _, _, out := newTestApp(t, "tok123")
	var errBuf bytes.Buffer
	origErr := errOut
	errOut = &errBuf
	t.Cleanup(func() { errOut = origErr })

	run := func(args ...string) subcommands.ExitStatus {
		fs := flag.NewFlagSet("pv", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		cdr := subcommands.NewCommander(fs, "pv")
		cdr.Output = io.Discard
		cdr.Error = io.Discard
		Register(cdr)
		require.NoError(t, fs.Parse(args))
		return cdr.Execute(context.Background(), app)
	}

	assert.Equal(t, subcommands.ExitSuccess, run("strategies"))
	assert.Contains(t, out.String(), "Momentum")

	assert.Equal(t, subcommands.ExitSuccess, run("stats", "-yearly", "-limit", "5", "m1"))
	assert.Equal(t, subcommands.ExitUsageError, run("strategy"))
	assert.Equal(t, subcommands.ExitUsageError, run("status", "extra"))

	assert.Equal(t, subcommands.ExitFailure, run("strategy", "nope"))
	assert.Contains(t, errBuf.String(), "not found")

	assert.Equal(t, subcommands.ExitSuccess, run("version"))
	assert.Contains(t, out.String(), "Build version: ")

	errBuf.Reset()
	assert.Equal(t, subcommands.ExitSuccess, run("logout"))
	assert.Equal(t, subcommands.ExitFailure, run("profile"))
	assert.Empty(t, errBuf.String())
}
