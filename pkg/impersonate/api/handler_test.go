package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-admin/pkg/audit"
	"github.com/tendant/simple-admin/pkg/credential"
	"github.com/tendant/simple-admin/pkg/directory"
	"github.com/tendant/simple-admin/pkg/impersonate"
)

const testSigningKey = "api-test-signing-key-0123456789abcdef"

type testServer struct {
	router *chi.Mux
	auth   *jwtauth.JWTAuth
	admin  directory.User
	target directory.User
	sink   *audit.InMemorySink
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := directory.NewInMemoryUserRepository()
	admin, err := repo.CreateUser(context.Background(), directory.CreateUserParams{
		Email: "admin@example.com", Name: "Admin", Role: directory.RoleAdmin,
	})
	require.NoError(t, err)
	target, err := repo.CreateUser(context.Background(), directory.CreateUserParams{
		Email: "user@example.com", Name: "User", Role: directory.RoleUser,
	})
	require.NoError(t, err)

	issuer, err := credential.NewIssuer(testSigningKey, "test", "test", 30*time.Minute)
	require.NoError(t, err)
	sink := audit.NewInMemorySink()
	service := impersonate.NewService(directory.NewService(repo), issuer, sink)

	auth := jwtauth.New("HS256", []byte(testSigningKey), nil)
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(auth))
		r.Use(jwtauth.Authenticator(auth))
		NewHandler(service).RegisterRoutes(r)
	})

	return &testServer{router: router, auth: auth, admin: admin, target: target, sink: sink}
}

func (s *testServer) bearerToken(t *testing.T, subject string) string {
	t.Helper()
	_, tokenString, err := s.auth.Encode(map[string]interface{}{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return tokenString
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestStartImpersonation_Success(t *testing.T) {
	s := newTestServer(t)
	token := s.bearerToken(t, s.admin.ID.String())

	rec := s.do(t, http.MethodPost, "/impersonate/"+s.target.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result impersonate.StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, s.target.ID, result.Target.ID)
	assert.Equal(t, s.target.Email, result.Target.Email)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestStartImpersonation_SelfIsForbidden(t *testing.T) {
	s := newTestServer(t)
	token := s.bearerToken(t, s.admin.ID.String())

	rec := s.do(t, http.MethodPost, "/impersonate/"+s.admin.ID.String(), token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "forbidden", errResp.Code)
	assert.Equal(t, "cannot impersonate yourself", errResp.Message)
}

func TestStartImpersonation_RateLimited(t *testing.T) {
	s := newTestServer(t)
	token := s.bearerToken(t, s.admin.ID.String())
	path := "/impersonate/" + s.target.ID.String()

	for i := 0; i < impersonate.DefaultMaxPerHour; i++ {
		rec := s.do(t, http.MethodPost, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, "call %d", i+1)
	}

	rec := s.do(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "rate_limited", errResp.Code)
	assert.Contains(t, errResp.Message, fmt.Sprintf("%d", impersonate.DefaultMaxPerHour))
}

func TestStartImpersonation_InvalidTargetID(t *testing.T) {
	s := newTestServer(t)
	token := s.bearerToken(t, s.admin.ID.String())

	rec := s.do(t, http.MethodPost, "/impersonate/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartImpersonation_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/impersonate/"+s.target.ID.String(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEndImpersonation_Success(t *testing.T) {
	s := newTestServer(t)
	token := s.bearerToken(t, s.admin.ID.String())

	rec := s.do(t, http.MethodPost, "/impersonate/end", token,
		EndImpersonationRequest{TargetID: s.target.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result impersonate.EndResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "impersonation ended", result.Message)

	events := s.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionImpersonationEnd, events[0].Action)
}

func TestEndImpersonation_MissingTarget(t *testing.T) {
	s := newTestServer(t)
	token := s.bearerToken(t, s.admin.ID.String())

	rec := s.do(t, http.MethodPost, "/impersonate/end", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartImpersonation_SubjectMustBeUUID(t *testing.T) {
	s := newTestServer(t)
	token := s.bearerToken(t, "not-a-uuid")

	rec := s.do(t, http.MethodPost, "/impersonate/"+uuid.New().String(), token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
