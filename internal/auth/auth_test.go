package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_IssueAndParse(t *testing.T) {
	v := NewVerifier("secret")
	token, err := v.Issue("ann@example.com", []string{"ROLE_ADMIN"}, time.Minute)
	require.NoError(t, err)

	id, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.True(t, id.HasRole(RoleAdmin))
	assert.Equal(t, token, id.Token)

	_, err = NewVerifier("other").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := v.Issue("ann@example.com", nil, -time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestContextHelpers(t *testing.T) {
	assert.Empty(t, GetEmail(context.Background()))
	ctx := WithIdentity(context.Background(), Identity{Email: " bob@example.com ", Token: "t"})
	assert.Equal(t, "bob@example.com", GetEmail(ctx))
	assert.Equal(t, "t", GetToken(ctx))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := NewVerifier("secret")
	tr := i18n.MustTranslator()

	r := gin.New()
	r.Use(Middleware(v, logger.NewNop()))
	r.GET("/me", RequireAuth(tr), func(c *gin.Context) {
		c.String(http.StatusOK, GetEmail(c.Request.Context()))
	})
	r.GET("/admin", RequireRole(tr, RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	shopper, _ := v.Issue("ann@example.com", []string{"USER"}, time.Minute)
	admin, _ := v.Issue("root@example.com", []string{"ADMIN"}, time.Minute)

	cases := []struct {
		path   string
		token  string
		status int
	}{
		{"/me", "", http.StatusUnauthorized},
		{"/me", "garbage", http.StatusUnauthorized},
		{"/me", shopper, http.StatusOK},
		{"/admin", shopper, http.StatusForbidden},
		{"/admin", admin, http.StatusNoContent},
		{"/admin", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "%s with %q", tc.path, tc.token)
	}
}
