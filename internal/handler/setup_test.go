package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/sportmate/internal/handler"
	"github.com/xxxsen/sportmate/internal/middleware"
	"github.com/xxxsen/sportmate/internal/otp"
	"github.com/xxxsen/sportmate/internal/service"
	"github.com/xxxsen/sportmate/internal/testutil"
)

var jwtSecret = []byte("test-secret")

type fixture struct {
	router http.Handler
	users  *testutil.UserStore
	outbox *testutil.Outbox
	admin  *service.AdminService
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T, limiter middleware.Limiter) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := testutil.NewUserStore()
	admins := testutil.NewAdminStore()
	outbox := &testutil.Outbox{}
	codes := otp.NewManager(otp.NewMemoryStore(), outbox, otp.Config{})

	authService := service.NewAuthService(users, codes, jwtSecret, time.Hour)
	discoveryService := service.NewDiscoveryService(users, service.DiscoveryConfig{})
	adminService := service.NewAdminService(admins, users, jwtSecret, time.Hour)
	presenceService := service.NewPresenceService(users, time.Second, 100)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService, presenceService),
		Users:     handler.NewUserHandler(discoveryService),
		Admin:     handler.NewAdminHandler(adminService),
		Presence:  presenceService,
		Admins:    adminService,
		Limiter:   limiter,
		JWTSecret: jwtSecret,
	}

	engine, err := webapi.NewEngine(
		"/api",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return &fixture{router: engine, users: users, outbox: outbox, admin: adminService}
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return env
}

func decode(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.Zero(t, env.Code, env.Msg)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

// signup registers and verifies a user, returning its token.
func (f *fixture) signup(t *testing.T, email, sport, city, area string, lat, lon float64) string {
	t.Helper()
	env := f.do(t, http.MethodPost, "/api/auth/signup/send-otp", "", map[string]interface{}{
		"name":      "Player " + email,
		"email":     email,
		"password":  "secret1",
		"sport":     sport,
		"city":      city,
		"area":      area,
		"latitude":  lat,
		"longitude": lon,
	})
	require.Zero(t, env.Code, env.Msg)
	sent, ok := f.outbox.Last(email)
	require.True(t, ok)

	env = f.do(t, http.MethodPost, "/api/auth/signup/verify-otp", "", map[string]string{"email": email, "otp": sent.Code})
	var out struct {
		Token string `json:"token"`
	}
	decode(t, env, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}
