package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/devconnector/internal/auth"
	"github.com/yoockh/devconnector/internal/utils"
)

func init() { gin.SetMode(gin.TestMode) }

func newGate(t *testing.T) (*gin.Engine, *auth.TokenCodec, *test.Hook) {
	t.Helper()
	codec, err := auth.NewTokenCodec("middleware-test-secret", time.Hour)
	require.NoError(t, err)
	l, hook := test.NewNullLogger()

	r := gin.New()
	r.GET("/private", TokenAuth(codec, l), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r, codec, hook
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenAuth_MissingHeader(t *testing.T) {
	r, _, hook := newGate(t)

	w := get(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"No token, authorization denied"}`, w.Body.String())
	assert.Empty(t, hook.AllEntries())
}

func TestTokenAuth_ValidTokenPasses(t *testing.T) {
	r, codec, _ := newGate(t)
	tok, err := codec.Issue(auth.Identity{ID: "user-1"})
	require.NoError(t, err)

	w := get(r, tok)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestTokenAuth_RejectionsLookTheSame(t *testing.T) {
	r, codec, hook := newGate(t)

	other, err := auth.NewTokenCodec("some-other-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue(auth.Identity{ID: "user-1"})
	require.NoError(t, err)
	valid, err := codec.Issue(auth.Identity{ID: "user-1"})
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	cases := map[string]string{
		"malformed": "garbage",
		"forged":    forged,
		"tampered":  tampered,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			hook.Reset()
			w := get(r, tok)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"msg":"Token is not valid"}`, w.Body.String())

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, logrus.WarnLevel, entry.Level)
			assert.Contains(t, []any{"malformed", "invalid"}, entry.Data["kind"])
		})
	}
}

func TestTokenAuth_LogsMalformedKind(t *testing.T) {
	r, _, hook := newGate(t)

	get(r, "garbage")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "malformed", hook.LastEntry().Data["kind"])
}

func TestTokenAuth_ExpiredToken(t *testing.T) {
	codec := stubDecoder{err: errors.Join(auth.ErrInvalidToken, errors.New("token is expired"))}
	l, hook := test.NewNullLogger()
	r := gin.New()
	r.GET("/private", TokenAuth(codec, l), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "expired")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"Token is not valid"}`, w.Body.String())
	assert.Equal(t, "invalid", hook.LastEntry().Data["kind"])
}

type stubDecoder struct {
	id  auth.Identity
	err error
}

func (s stubDecoder) Decode(string) (auth.Identity, error) { return s.id, s.err }

func TestRequestLogger_LogsErrorsAndRequestID(t *testing.T) {
	l, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/boom", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		_ = c.Error(errors.New("db down"))
		c.String(http.StatusInternalServerError, "Server Error")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "req-123", entry.Data["request_id"])
	assert.Equal(t, "user-1", entry.Data["user_id"])
	assert.Equal(t, 500, entry.Data["status"])
	assert.Contains(t, entry.Data["errors"], "db down")
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	l, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func serveLogged(t *testing.T, method, path string, register func(r *gin.Engine)) (*httptest.ResponseRecorder, *test.Hook) {
	t.Helper()
	l, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(l))
	register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w, hook
}

func TestRequestLogger_Levels(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		level logrus.Level
		code  utils.Code
	}{
		{"validation", utils.Invalid("ProfileService.Upsert", utils.FieldError{Msg: "Status is required"}), logrus.InfoLevel, utils.CodeInvalidArgument},
		{"not found", utils.E(utils.CodeNotFound, "ProfileService.GetMe", "There is no profile for this user", nil), logrus.WarnLevel, utils.CodeNotFound},
		{"fault", utils.E(utils.CodeInternal, "ProfileService.List", "failed to list profiles", errors.New("db down")), logrus.ErrorLevel, utils.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, hook := serveLogged(t, http.MethodGet, "/thing", func(r *gin.Engine) {
				r.GET("/thing", func(c *gin.Context) {
					_ = c.Error(tc.err)
					c.Status(utils.HTTPStatus(tc.err))
				})
			})

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tc.level, entry.Level)
			assert.Equal(t, tc.code, entry.Data["code"])
			assert.NotEmpty(t, entry.Data["op"])
			assert.Equal(t, "/thing", entry.Data["route"])
		})
	}
}

func TestRequestLogger_PingOnlyLoggedOnFailure(t *testing.T) {
	_, hook := serveLogged(t, http.MethodGet, "/ping", func(r *gin.Engine) {
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	})
	assert.Empty(t, hook.AllEntries())

	_, hook = serveLogged(t, http.MethodGet, "/ping", func(r *gin.Engine) {
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	})
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRequestLogger_UnmatchedRoute(t *testing.T) {
	w, hook := serveLogged(t, http.MethodGet, "/api/nope", func(*gin.Engine) {})

	assert.Equal(t, http.StatusNotFound, w.Code)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "unmatched", entry.Data["route"])
	assert.Equal(t, "/api/nope", entry.Data["path"])
	assert.Equal(t, logrus.WarnLevel, entry.Level)
}
