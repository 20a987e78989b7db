package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duality-rp/duality/internal/auth"
)

// claimsKey is the gin context key holding verified session claims.
// Signature-authenticated requests carry no claims.
const claimsKey = "sessionClaims"

// signedFields is the subset of a JSON body that signature auth needs. The
// body is peeked and restored so the handler can bind it again in full.
type signedFields struct {
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
}

// authenticate gates the API routes. Two caller kinds are accepted: web UI
// requests with a Bearer session token, and in-world object requests with a
// timestamp + HMAC signature in the query string or request body.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			claims, err := s.tokens.Verify(token)
			if err != nil {
				abortUnauthorized(c, "invalid or expired session token")
				return
			}
			c.Set(claimsKey, claims)
			c.Next()
			return
		}

		timestamp := c.Query("timestamp")
		signature := c.Query("signature")
		if timestamp == "" && signature == "" && c.Request.Body != nil {
			timestamp, signature = s.peekSignedFields(c)
		}

		if err := s.signatures.Validate(timestamp, signature); err != nil {
			abortUnauthorized(c, authFailureMessage(err))
			return
		}
		c.Next()
	}
}

// peekSignedFields reads the body for the signature fields and restores it
// for the handler's own binding.
func (s *Server) peekSignedFields(c *gin.Context) (timestamp, signature string) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var fields signedFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", ""
	}
	return fields.Timestamp, fields.Signature
}

// sessionClaims returns the verified claims for a token-authenticated
// request, or nil for a signature-authenticated one.
func sessionClaims(c *gin.Context) *auth.SessionClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.SessionClaims)
	return claims
}

func authFailureMessage(err error) string {
	switch err {
	case auth.ErrMissingSignature:
		return "missing request signature"
	case auth.ErrStaleTimestamp:
		return "request timestamp outside the accepted window"
	default:
		return "invalid request signature"
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   msg,
	})
}
