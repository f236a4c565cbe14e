package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
	"github.com/noah-isme/tutor-scheduling-api/pkg/logger"
)

type validatorStub struct {
	claims *models.JWTClaims
	token  string
}

func (v *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	v.token = token
	if v.claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.ContextActorKey))
	})...)
	return router
}

func serve(router *gin.Engine, header string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestJWTMiddleware(t *testing.T) {
	stub := &validatorStub{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleTutor}}
	router := newRouter(JWT(stub))

	if rec := serve(router, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: unexpected status %d", rec.Code)
	}
	if rec := serve(router, "Token abc"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad scheme: unexpected status %d", rec.Code)
	}

	rec := serve(router, "Bearer abc")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if stub.token != "abc" {
		t.Fatalf("unexpected token passed to validator: %q", stub.token)
	}
	if rec.Body.String() != "u1" {
		t.Fatalf("actor id not exposed to access log: %q", rec.Body.String())
	}

	stub.claims = nil
	if rec := serve(router, "Bearer abc"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: unexpected status %d", rec.Code)
	}
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	stub := &validatorStub{}
	router := newRouter(OptionalJWT(stub))

	for _, header := range []string{"", "Bearer bad", "garbage"} {
		if rec := serve(router, header); rec.Code != http.StatusOK {
			t.Fatalf("header %q: unexpected status %d", header, rec.Code)
		}
	}

	stub.claims = &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}
	if rec := serve(router, "Bearer ok"); rec.Body.String() != "s1" {
		t.Fatalf("claims not attached: %q", rec.Body.String())
	}
}

func TestRequireRoles(t *testing.T) {
	stub := &validatorStub{claims: &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}}
	router := newRouter(JWT(stub), RequireRoles(models.RoleTutor, models.RoleAdmin))

	if rec := serve(router, "Bearer x"); rec.Code != http.StatusForbidden {
		t.Fatalf("student: unexpected status %d", rec.Code)
	}

	stub.claims = &models.JWTClaims{UserID: "t1", Role: models.RoleTutor}
	if rec := serve(router, "Bearer x"); rec.Code != http.StatusOK {
		t.Fatalf("tutor: unexpected status %d", rec.Code)
	}

	unauthenticated := newRouter(RequireRoles(models.RoleTutor))
	if rec := serve(unauthenticated, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no claims: unexpected status %d", rec.Code)
	}
}

type observerStub struct {
	method string
	path   string
	status int
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	o.method, o.path, o.status = method, path, status
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &observerStub{}
	router := gin.New()
	router.Use(Metrics(observer))
	router.GET("/appointments/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/appointments/apt-1", nil))
	if observer.path != "/appointments/:id" || observer.status != http.StatusNoContent {
		t.Fatalf("unexpected observation: %+v", observer)
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if observer.path != "unmatched" || observer.status != http.StatusNotFound {
		t.Fatalf("unexpected observation for unknown route: %+v", observer)
	}
}
