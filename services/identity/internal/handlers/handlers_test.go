package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voyago/travelbook/services/identity/internal/domain"
	"github.com/voyago/travelbook/services/identity/internal/handlers"
)

// stubIdentityService returns canned results per method so handler tests
// can exercise the status mapping without a database.
type stubIdentityService struct {
	registerUser *domain.User
	registerErr  error
	loginResp    *domain.LoginResponse
	loginErr     error
	forgotToken  string
	forgotErr    error
	resetEmail   string
	resetErr     error
	changeErr    error
	logoutErr    error

	loggedOutToken string
}

func (s *stubIdentityService) Register(context.Context, *domain.RegisterRequest) (*domain.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubIdentityService) Login(context.Context, *domain.LoginRequest) (*domain.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubIdentityService) ForgotPassword(context.Context, string) (string, error) {
	return s.forgotToken, s.forgotErr
}

func (s *stubIdentityService) ResetPassword(context.Context, *domain.ResetPasswordRequest) (string, error) {
	return s.resetEmail, s.resetErr
}

func (s *stubIdentityService) ChangePassword(context.Context, *domain.ChangePasswordRequest) error {
	return s.changeErr
}

func (s *stubIdentityService) Logout(_ context.Context, tokenString string) error {
	s.loggedOutToken = tokenString
	return s.logoutErr
}

type envelope struct {
	Status    int               `json:"status"`
	Data      map[string]string `json:"data"`
	Timestamp string            `json:"timestamp"`
}

func do(t *testing.T, handler http.HandlerFunc, body string, header http.Header) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/x", strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	handler(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rec.Body.String())
	}
	if env.Status != rec.Code {
		t.Errorf("envelope status %d != http status %d", env.Status, rec.Code)
	}
	if env.Timestamp == "" {
		t.Error("envelope missing timestamp")
	}
	return rec.Code, env
}

func TestRegisterHandler(t *testing.T) {
	stub := &stubIdentityService{
		registerUser: &domain.User{ID: 1, Email: "alice@example.com"},
	}
	h := handlers.New(stub)

	code, env := do(t, h.Register, `{"name":"Alice","email":"alice@example.com"}`, nil)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	if env.Data["email"] != "alice@example.com" {
		t.Errorf("data.email = %q", env.Data["email"])
	}

	code, env = do(t, h.Register, `{not json`, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d, want 400", code)
	}
	if env.Data["error"] == "" {
		t.Error("bad json: no error message in data.error")
	}

	stub.registerUser = nil
	stub.registerErr = domain.ErrDuplicateUser
	if code, _ := do(t, h.Register, `{}`, nil); code != http.StatusConflict {
		t.Fatalf("duplicate: status = %d, want 409", code)
	}
}

func TestLoginHandler(t *testing.T) {
	stub := &stubIdentityService{
		loginResp: &domain.LoginResponse{Message: "Login successful", Email: "alice@example.com", Role: "TRAVELER", Token: "signed"},
	}
	h := handlers.New(stub)

	code, _ := do(t, h.Login, `{"email":"alice@example.com","password":"x"}`, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	stub.loginResp = nil
	stub.loginErr = domain.ErrUserNotFound
	if code, _ := do(t, h.Login, `{}`, nil); code != http.StatusNotFound {
		t.Fatalf("unknown user: status = %d, want 404", code)
	}

	stub.loginErr = domain.ErrInvalidCredentials
	code, env := do(t, h.Login, `{}`, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("bad password: status = %d, want 401", code)
	}
	if env.Data["error"] != domain.ErrInvalidCredentials.Error() {
		t.Errorf("data.error = %q", env.Data["error"])
	}
}

func TestForgotPasswordHandler(t *testing.T) {
	stub := &stubIdentityService{forgotToken: "reset-123"}
	h := handlers.New(stub)

	code, env := do(t, h.ForgotPassword, `{"email":"alice@example.com"}`, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if env.Data["resetToken"] != "reset-123" {
		t.Errorf("data.resetToken = %q", env.Data["resetToken"])
	}

	stub.forgotToken = ""
	stub.forgotErr = domain.ErrUserNotFound
	if code, _ := do(t, h.ForgotPassword, `{"email":"x@y.zz"}`, nil); code != http.StatusNotFound {
		t.Fatalf("unknown user: status = %d, want 404", code)
	}
}

func TestResetPasswordHandler(t *testing.T) {
	stub := &stubIdentityService{resetEmail: "alice@example.com"}
	h := handlers.New(stub)

	if code, _ := do(t, h.ResetPassword, `{"resetToken":"t"}`, nil); code != http.StatusOK {
		t.Fatal("reset did not succeed")
	}

	stub.resetErr = domain.ErrInvalidResetToken
	if code, _ := do(t, h.ResetPassword, `{}`, nil); code != http.StatusBadRequest {
		t.Fatal("invalid token should map to 400")
	}

	stub.resetErr = domain.ErrPasswordMismatch
	if code, _ := do(t, h.ResetPassword, `{}`, nil); code != http.StatusBadRequest {
		t.Fatal("password mismatch should map to 400")
	}
}

func TestChangePasswordHandler(t *testing.T) {
	stub := &stubIdentityService{}
	h := handlers.New(stub)

	if code, _ := do(t, h.ChangePassword, `{"email":"alice@example.com"}`, nil); code != http.StatusOK {
		t.Fatal("change did not succeed")
	}

	stub.changeErr = domain.ErrInvalidCredentials
	if code, _ := do(t, h.ChangePassword, `{}`, nil); code != http.StatusUnauthorized {
		t.Fatal("wrong current password should map to 401")
	}
}

func TestLogoutHandler(t *testing.T) {
	stub := &stubIdentityService{}
	h := handlers.New(stub)

	// No bearer header: nothing to revoke.
	code, env := do(t, h.Logout, "", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("missing header: status = %d, want 400", code)
	}
	if env.Data["error"] != "Invalid or missing token" {
		t.Errorf("data.error = %q", env.Data["error"])
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer the-token")
	code, _ = do(t, h.Logout, "", header)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if stub.loggedOutToken != "the-token" {
		t.Errorf("service received token %q", stub.loggedOutToken)
	}
}

func TestUnexpectedErrorIsOpaque(t *testing.T) {
	stub := &stubIdentityService{loginErr: context.DeadlineExceeded}
	h := handlers.New(stub)

	code, env := do(t, h.Login, `{}`, nil)
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if strings.Contains(env.Data["error"], "deadline") {
		t.Errorf("internal detail leaked: %q", env.Data["error"])
	}
}
