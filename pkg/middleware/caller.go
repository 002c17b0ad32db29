package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"allgecare/pkg/fetch"
)

const ClientIDHeader = "X-Client-ID"

// CallerID identifies who is looking at a view: the signed-in email, then
// the client supplied id, then the remote address.
func CallerID(c *gin.Context) string {
	if email := c.GetString(EmailKey); email != "" {
		return "user:" + email
	}
	if id := strings.TrimSpace(c.GetHeader(ClientIDHeader)); id != "" {
		return "client:" + id
	}
	return "ip:" + c.ClientIP()
}

// RateLimitKey ignores X-Client-ID since a client can mint a new one per
// request.
func RateLimitKey(c *gin.Context) string {
	if email := c.GetString(EmailKey); email != "" {
		return "user:" + email
	}
	return "ip:" + c.ClientIP()
}

// Caller tags the request context with the caller and, when the caller is
// known by email or client id, with the route being loaded. Upstream
// requests are then superseded per route and caller. Callers known only by
// address share it with their NAT and are never superseded.
func Caller() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerID(c)
		ctx := fetch.WithCaller(c.Request.Context(), caller)
		if path := c.FullPath(); path != "" && !strings.HasPrefix(caller, "ip:") {
			ctx = fetch.WithView(ctx, c.Request.Method+" "+path)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
