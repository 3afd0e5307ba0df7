package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims carried by an issued access token. The
// subject claim holds the numeric user id.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim into the numeric user id.
func (c *AccessClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, jwt.ErrTokenInvalidSubject
	}
	return id, nil
}
