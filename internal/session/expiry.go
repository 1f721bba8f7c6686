// AngelaMos | 2026
// expiry.go

package session

import (
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// TokenExpired reports whether a JWT-shaped token carries an exp claim in
// the past. The signature is not verified; the backend remains the
// authority and a token that cannot be parsed is treated as fresh.
func TokenExpired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}

	parsed, err := jwt.ParseInsecure([]byte(token))
	if err != nil {
		return false
	}

	exp, ok := parsed.Expiration()
	if !ok || exp.IsZero() {
		return false
	}

	return !now.Before(exp)
}
