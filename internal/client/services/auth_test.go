package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/client/api"
	"github.com/dmitrijs2005/pvisualizer/internal/client/credentials"
	"github.com/dmitrijs2005/pvisualizer/internal/client/models"
	"github.com/dmitrijs2005/pvisualizer/internal/client/session"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

// tokenVerifier accepts exactly the tokens in valid.
type tokenVerifier struct {
	valid map[string]bool
	calls int
}

func (v *tokenVerifier) Verify(_ context.Context, token string) error {
	v.calls++
	if v.valid[token] {
		return nil
	}
	return api.ErrUnauthorized
}

func newGuard(t *testing.T, stored string, valid ...string) (*session.Guard, *credentials.MemoryStore, *tokenVerifier) {
	t.Helper()
	store := credentials.NewMemoryStore()
	if stored != "" {
		require.NoError(t, store.Save(context.Background(), stored))
	}
	v := &tokenVerifier{valid: map[string]bool{}}
	for _, tok := range valid {
		v.valid[tok] = true
	}
	g := session.New(store, v, session.Options{RetryBase: time.Millisecond}, logging.NewDiscard())
	return g, store, v
}

func stored(t *testing.T, s *credentials.MemoryStore) string {
	t.Helper()
	tok, err := s.Load(context.Background())
	if errors.Is(err, credentials.ErrNoCredential) {
		return ""
	}
	require.NoError(t, err)
	return tok
}

// ---- fake client ----

type fakeAuthClient struct {
	LoginRet string
	LoginErr error

	SignupRet string
	SignupErr error

	MeRet *models.Profile
	MeErr error

	UpdateErr error

	LastEmail    string
	LastPassword string
	LastSignup   models.SignupRequest
	LastToken    string
	LastUpdate   models.ProfileUpdate
}

func (f *fakeAuthClient) Login(_ context.Context, email, password string) (string, error) {
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthClient) Signup(_ context.Context, req models.SignupRequest) (string, error) {
	f.LastSignup = req
	return f.SignupRet, f.SignupErr
}

func (f *fakeAuthClient) Me(_ context.Context, token string) (*models.Profile, error) {
	f.LastToken = token
	return f.MeRet, f.MeErr
}

func (f *fakeAuthClient) UpdateProfile(_ context.Context, token string, upd models.ProfileUpdate) error {
	f.LastToken = token
	f.LastUpdate = upd
	return f.UpdateErr
}

// ---- tests ----

func TestLogin_AcquiresAndVerifies(t *testing.T) {
	g, store, _ := newGuard(t, "", "tok123")
	fc := &fakeAuthClient{LoginRet: "tok123"}
	svc := NewAuthService(fc, g, logging.NewDiscard())

	require.NoError(t, svc.Login(context.Background(), "a@b.com", "x"))
	assert.Equal(t, "a@b.com", fc.LastEmail)
	assert.Equal(t, "x", fc.LastPassword)
	assert.Equal(t, session.Authenticated, g.State())
	assert.Equal(t, "tok123", stored(t, store))
}

func TestLogin_RequestErrorKeepsNothing(t *testing.T) {
	g, store, v := newGuard(t, "")
	fc := &fakeAuthClient{LoginErr: api.ErrUnauthorized}
	svc := NewAuthService(fc, g, logging.NewDiscard())

	err := svc.Login(context.Background(), "a@b.com", "bad")
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, stored(t, store))
	assert.Equal(t, 0, v.calls)
}

func TestLogin_TokenThatDoesNotVerifyIsEvicted(t *testing.T) {
	g, store, _ := newGuard(t, "")
	fc := &fakeAuthClient{LoginRet: "bogus"}
	svc := NewAuthService(fc, g, logging.NewDiscard())

	err := svc.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, ErrLoginFailed)
	assert.Empty(t, stored(t, store))
	assert.Equal(t, session.Unauthenticated, g.State())
}

func TestLoggedIn(t *testing.T) {
	g, _, _ := newGuard(t, "tok", "tok")
	svc := NewAuthService(&fakeAuthClient{}, g, logging.NewDiscard())

	ok, err := svc.LoggedIn(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Logout(context.Background()))
	ok, err = svc.LoggedIn(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignup_SendsFullName(t *testing.T) {
	g, store, _ := newGuard(t, "", "fresh")
	fc := &fakeAuthClient{SignupRet: "fresh"}
	svc := NewAuthService(fc, g, logging.NewDiscard())

	acc := models.Account{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		BusinessEmail: "ada@example.com",
		ProfileType:   models.ProfileIndividualInvestor,
		Country:       models.CountryUnitedKingdom,
		MarketRegion:  models.RegionEurope,
		Company:       "Engines",
		FirmType:      models.FirmRIA,
	}
	require.NoError(t, svc.Signup(context.Background(), acc, "pw"))
	assert.Equal(t, "Ada Lovelace", fc.LastSignup.FullName)
	assert.Equal(t, "pw", fc.LastSignup.Password)
	assert.Equal(t, models.RegionEurope, fc.LastSignup.MarketRegion)
	assert.Equal(t, "fresh", stored(t, store))
}

func TestSignup_ErrorWrapped(t *testing.T) {
	g, _, _ := newGuard(t, "")
	svc := NewAuthService(&fakeAuthClient{SignupErr: api.ErrServer}, g, logging.NewDiscard())

	err := svc.Signup(context.Background(), models.Account{}, "pw")
	require.ErrorIs(t, err, api.ErrServer)
	assert.Contains(t, err.Error(), "signup")
}

func TestLogout_NoNetwork(t *testing.T) {
	g, store, v := newGuard(t, "tok", "tok")
	svc := NewAuthService(&fakeAuthClient{}, g, logging.NewDiscard())

	require.NoError(t, svc.Logout(context.Background()))
	assert.Empty(t, stored(t, store))
	assert.Equal(t, session.Unauthenticated, g.State())
	assert.Equal(t, 0, v.calls)
}

func TestProfile_RequiresVerifiedSession(t *testing.T) {
	g, _, _ := newGuard(t, "tok", "tok")
	fc := &fakeAuthClient{MeRet: &models.Profile{Name: "Ada Lovelace"}}
	svc := NewAuthService(fc, g, logging.NewDiscard())

	_, err := svc.Profile(context.Background())
	require.ErrorIs(t, err, session.ErrNotAuthenticated)

	_, err = g.Verify(context.Background())
	require.NoError(t, err)

	p, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "tok", fc.LastToken)
}

func TestProfile_UnauthorizedReleasesSession(t *testing.T) {
	g, store, _ := newGuard(t, "tok", "tok")
	fc := &fakeAuthClient{MeErr: api.ErrUnauthorized}
	svc := NewAuthService(fc, g, logging.NewDiscard())
	_, err := g.Verify(context.Background())
	require.NoError(t, err)

	_, err = svc.Profile(context.Background())
	require.Error(t, err)
	assert.Equal(t, session.Unauthenticated, g.State())
	assert.Empty(t, stored(t, store))
}

func TestUpdateProfile(t *testing.T) {
	g, store, _ := newGuard(t, "tok", "tok")
	fc := &fakeAuthClient{}
	svc := NewAuthService(fc, g, logging.NewDiscard())
	_, err := g.Verify(context.Background())
	require.NoError(t, err)

	acc := models.Account{FirstName: "Ada", LastName: "Byron", Company: "Engines"}
	require.NoError(t, svc.UpdateProfile(context.Background(), acc))
	assert.Equal(t, "Ada Byron", fc.LastUpdate.FullName)
	assert.Equal(t, "Engines", fc.LastUpdate.Company)

	fc.UpdateErr = api.ErrServer
	err = svc.UpdateProfile(context.Background(), acc)
	require.ErrorIs(t, err, api.ErrServer)
	// a server error is not a verdict on the token
	assert.Equal(t, session.Authenticated, g.State())
	assert.Equal(t, "tok", stored(t, store))
}
