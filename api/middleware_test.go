package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/carrental/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(a *Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUserID(c), "is_dealer": c.GetBool(ContextIsDealer)})
	}
	r.GET("/user", a.RequireUser(), whoami)
	r.GET("/dealer", a.RequireUser(), a.RequireDealer(), whoami)
	return r
}

func TestAuthenticator(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", "HS256")
	a := NewAuthenticator(verifier, "auth_token")
	router := newAuthRouter(a)

	customer, err := verifier.Issue(auth.Claims{UserID: 11}, time.Hour)
	require.NoError(t, err)
	dealerToken, err := verifier.Issue(auth.Claims{UserID: 30, IsDealer: true}, time.Hour)
	require.NoError(t, err)
	expired, err := verifier.Issue(auth.Claims{UserID: 11}, -time.Hour)
	require.NoError(t, err)
	foreign, err := auth.NewVerifier("other-secret", "HS256").Issue(auth.Claims{UserID: 11}, time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name           string
		path           string
		header         string
		cookie         string
		expectedStatus int
		expectedBody   string
	}{
		{name: "bearer header", path: "/user", header: "Bearer " + customer, expectedStatus: http.StatusOK, expectedBody: `{"user_id": 11, "is_dealer": false}`},
		{name: "lowercase scheme", path: "/user", header: "bearer " + customer, expectedStatus: http.StatusOK, expectedBody: `{"user_id": 11, "is_dealer": false}`},
		{name: "cookie", path: "/user", cookie: customer, expectedStatus: http.StatusOK, expectedBody: `{"user_id": 11, "is_dealer": false}`},
		{name: "no token", path: "/user", expectedStatus: http.StatusUnauthorized, expectedBody: `{"detail": "Unauthorized"}`},
		{name: "wrong scheme", path: "/user", header: "Basic " + customer, expectedStatus: http.StatusUnauthorized, expectedBody: `{"detail": "Unauthorized"}`},
		{name: "expired", path: "/user", header: "Bearer " + expired, expectedStatus: http.StatusUnauthorized, expectedBody: `{"detail": "Unauthorized"}`},
		{name: "foreign signature", path: "/user", header: "Bearer " + foreign, expectedStatus: http.StatusUnauthorized, expectedBody: `{"detail": "Unauthorized"}`},
		{name: "dealer route as customer", path: "/dealer", header: "Bearer " + customer, expectedStatus: http.StatusForbidden, expectedBody: `{"detail": "Dealers only"}`},
		{name: "dealer route as dealer", path: "/dealer", cookie: dealerToken, expectedStatus: http.StatusOK, expectedBody: `{"user_id": 30, "is_dealer": true}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tc.cookie})
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}
