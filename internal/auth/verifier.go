package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/SajidCurious/starflix/internal/httpx"
)

type ctxKeySubject struct{}

// Verifier checks bearer tokens issued by the identity provider. The key
// comes either from a static PEM string or from the provider's JWKS
// endpoint, fetched on demand and cached per kid.
type Verifier struct {
	PublicKeyPEM string
	JWKSURL      string
	Audience     string
	Issuer       string

	staticKey *rsa.PublicKey
	keys      jwksCache
}

// Enabled reports whether any verification key source is configured. An
// unconfigured verifier passes requests through untouched; the hosted app
// shipped without server-side token checks and this keeps that mode working.
func (v *Verifier) Enabled() bool {
	return v != nil && (v.PublicKeyPEM != "" || v.JWKSURL != "")
}

func (v *Verifier) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	if v.PublicKeyPEM != "" {
		if v.staticKey == nil {
			key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(v.PublicKeyPEM))
			if err != nil {
				return nil, err
			}
			v.staticKey = key
		}
		return v.staticKey, nil
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("token has no kid")
	}
	if key, ok := v.keys.get(kid); ok {
		return key, nil
	}
	key, err := fetchJWK(v.JWKSURL, kid)
	if err != nil {
		return nil, err
	}
	v.keys.set(kid, key)
	return key, nil
}

// Subject extracts and validates the bearer token, returning its sub claim.
func (v *Verifier) Subject(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return "", errors.New("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len("bearer "):])

	opts := []jwt.ParserOption{}
	if v.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.Audience))
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	token, err := jwt.Parse(raw, v.keyFunc, opts...)
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// RequireOwner guards user-scoped routes: the token subject must match the
// externalId path parameter. With no key configured it is a no-op.
//
// Attach it inline (chi's With, or inside the route-owning Routes method),
// never on an outer router: chi populates route parameters only once the
// route has matched, so an outer placement would see an empty externalId.
func (v *Verifier) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !v.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		sub, err := v.Subject(r)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		// An empty parameter means the middleware was mounted somewhere the
		// route had not matched yet; fail closed rather than skip the check.
		if chi.URLParam(r, "externalId") != sub {
			httpx.Error(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), ctxKeySubject{}, sub)))
	})
}

// SubjectFrom returns the verified token subject, if any.
func SubjectFrom(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeySubject{}).(string); ok {
		return s
	}
	return ""
}

func fetchJWK(jwksURL, kid string) (*rsa.PublicKey, error) {
	res, err := http.Get(jwksURL)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks fetch status %d", res.StatusCode)
	}
	var set jwks
	if err := json.NewDecoder(res.Body).Decode(&set); err != nil {
		return nil, err
	}
	for _, k := range set.Keys {
		if k.Kid == kid {
			return k.rsaKey()
		}
	}
	return nil, errors.New("kid not in jwks")
}
