package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	core "document-downloader/api/internal/service"
)

// Nonce headers accepted on the public endpoints. A session token carries a
// logged-in admin session; the doc nonce is the short-lived widget nonce,
// passed either as a header or as a "nonce" field in the JSON body.
const (
	HeaderSessionNonce = "X-Session-Nonce"
	HeaderDocNonce     = "X-Doc-Nonce"
)

// SameOriginMiddleware rejects cross-origin calls to the public endpoints.
// The Origin host wins when present, otherwise the Referer host; a request
// carrying neither is only let through with a valid session token.
func SameOriginMiddleware(publicHost, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		siteHost := publicHost
		if siteHost == "" {
			siteHost = hostOnly(c.Request.Host)
		}

		originHost := headerHost(c.GetHeader("Origin"))
		refererHost := headerHost(c.GetHeader("Referer"))

		sameOrigin := false
		switch {
		case originHost != "":
			sameOrigin = strings.EqualFold(originHost, siteHost)
		case refererHost != "":
			sameOrigin = strings.EqualFold(refererHost, siteHost)
		default:
			// Server-to-server callers identify themselves with a session
			// token instead of browser headers.
			if token := c.GetHeader(HeaderSessionNonce); token != "" {
				_, err := core.VerifyToken(token, secret)
				sameOrigin = err == nil
			}
		}

		if !sameOrigin {
			c.AbortWithStatusJSON(http.StatusForbidden, wireError{Error: "forbidden_origin"})
			return
		}
		c.Next()
	}
}

// NonceMiddleware enforces the nonce contract on the public endpoints: a
// valid session token, the doc nonce header, or a nonce field in the body.
func NonceMiddleware(nonces *core.NonceService, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader(HeaderSessionNonce); token != "" {
			if _, err := core.VerifyToken(token, secret); err == nil {
				c.Next()
				return
			}
		}

		nonce := c.GetHeader(HeaderDocNonce)
		if nonce == "" {
			var ok bool
			nonce, ok = peekBodyNonce(c)
			if !ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, wireError{Error: "bad_request"})
				return
			}
		}
		if nonce != "" && nonces.Verify(nonce, core.NonceAction) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, wireError{Error: "missing_nonce"})
	}
}

// RateLimitMiddleware applies the per-IP limit to the query endpoint
func RateLimitMiddleware(limiter core.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, wireError{Error: "rate_limited"})
			return
		}
		c.Next()
	}
}

// AuthMiddleware verifies the admin JWT on protected routes
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			core.AbortWithMessage(c, core.ErrUnauthorized, "missing credentials")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			core.AbortWithMessage(c, core.ErrUnauthorized, "malformed authorization header")
			return
		}

		claims, err := core.VerifyToken(parts[1], secret)
		if err != nil {
			if err == core.ErrTokenExpired {
				core.AbortWithMessage(c, core.ErrUnauthorized, "token expired")
			} else {
				core.AbortWithMessage(c, core.ErrUnauthorized, "invalid token")
			}
			return
		}

		c.Set("claims", claims)
		c.Set("username", claims["sub"])

		c.Next()
	}
}

// maxNonceBodyBytes bounds how much of a body the nonce peek will buffer.
// The public payloads are a few hundred bytes at most.
const maxNonceBodyBytes = 64 << 10

// peekBodyNonce reads the nonce field out of the JSON body without consuming
// it, so the handler can still bind the full request. A body over the buffer
// cap cannot be restored intact, so it reports not-ok instead of handing the
// handler a truncated payload.
func peekBodyNonce(c *gin.Context) (string, bool) {
	if c.Request.Body == nil {
		return "", true
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNonceBodyBytes+1))
	if err != nil {
		return "", true
	}
	if len(raw) > maxNonceBodyBytes {
		return "", false
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", true
	}
	return body.Nonce, true
}

// headerHost extracts the bare hostname from an Origin or Referer value
func headerHost(value string) string {
	if value == "" {
		return ""
	}
	u, err := url.Parse(value)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// hostOnly strips a port from a host:port value
func hostOnly(host string) string {
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}

// noCacheHeaders marks a response as uncacheable
func noCacheHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate, max-age=0")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}
