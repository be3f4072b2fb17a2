package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel errors for token verification outcomes
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are the only credential the
// API issues; there is no server-side session state and no revocation
// list, so a token stays valid until Exp regardless of later account
// changes.  Protected endpoints compensate by re-checking the user's
// active flag on every request.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// ErrTokenExpired is returned by ParseAccessToken when the token's
// signature is valid but its expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned by ParseAccessToken for every other
// verification failure: bad signature, wrong algorithm, malformed or
// missing claims.
var ErrTokenInvalid = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID and a TTL in minutes, and returns an
// AccessToken containing the signed token and its expiration time.  The
// JWT includes standard claims: subject (sub), expiration (exp) and
// issued at (iat).
func NewAccessToken(secret string, userID uint64, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies a raw JWT string and returns the embedded user
// ID.  Verification is purely a function of the signature and the embedded
// expiry at call time; nothing is looked up server-side.  Expired tokens
// report ErrTokenExpired, every other failure ErrTokenInvalid.
func ParseAccessToken(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC; accepting "none" or
        // an asymmetric method here would defeat signature verification.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return 0, ErrTokenExpired
        }
        return 0, ErrTokenInvalid
    }
    if !tok.Valid {
        return 0, ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrTokenInvalid
    }
    // JWT numbers decode as float64; sub must be present and positive.
    sub, ok := claims["sub"].(float64)
    if !ok || sub <= 0 {
        return 0, ErrTokenInvalid
    }
    return uint64(sub), nil
}
