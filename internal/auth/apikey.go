// Package auth admits requests carrying the process-wide shared API key.
//
// There is exactly one credential and one principal. The decision is a pure
// function of the request header and the expected key; nothing is cached and
// nothing expires.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/acme-customers-backend/internal/errors"
	"github.com/unclebandit/acme-customers-backend/internal/middleware"
)

const (
	// HeaderName carries the shared secret on every request.
	HeaderName = "X-API-KEY"

	// Principal is the only identity this scheme can produce.
	Principal = "ApiKeyUser"

	// Scheme is advertised in WWW-Authenticate on 401 responses.
	Scheme = "ApiKey"

	invalidKeyReason = "Invalid API Key provided."
)

// Outcome is the category of an authentication decision.
type Outcome int

const (
	// NoCredential means no attempt was made: header absent or blank.
	NoCredential Outcome = iota
	// Invalid means a non-blank key was supplied and did not match.
	Invalid
	// Authenticated means the key matched exactly.
	Authenticated
)

func (o Outcome) String() string {
	switch o {
	case NoCredential:
		return "no_credential"
	case Invalid:
		return "invalid"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Result of a single authentication decision.
type Result struct {
	Outcome   Outcome
	Principal string // set only when Authenticated
	Reason    string // set only when Invalid
}

// Succeeded reports whether access is granted.
func (r Result) Succeeded() bool { return r.Outcome == Authenticated }

// Authenticate decides on a header value. present is false when the header
// was not sent at all. The comparison is byte-exact and constant-time.
func Authenticate(header string, present bool, expectedKey string) Result {
	if !present || strings.TrimSpace(header) == "" {
		return Result{Outcome: NoCredential}
	}
	if subtle.ConstantTimeCompare([]byte(header), []byte(expectedKey)) == 1 {
		return Result{Outcome: Authenticated, Principal: Principal}
	}
	return Result{Outcome: Invalid, Reason: invalidKeyReason}
}

// Authenticator holds the expected key loaded once at startup.
type Authenticator struct {
	key string
	log zerolog.Logger
}

// NewAuthenticator fails when key is blank; callers treat that as fatal.
func NewAuthenticator(key string, log zerolog.Logger) (*Authenticator, error) {
	if strings.TrimSpace(key) == "" {
		return nil, appErrors.ErrMissingAPIKey
	}
	return &Authenticator{key: key, log: log}, nil
}

// Authenticate evaluates r and emits one log event tagged with auth_outcome.
func (a *Authenticator) Authenticate(r *http.Request) Result {
	values, present := r.Header[http.CanonicalHeaderKey(HeaderName)]
	header := ""
	if present && len(values) > 0 {
		header = values[0]
	}

	res := Authenticate(header, present && len(values) > 0, a.key)

	var event *zerolog.Event
	switch res.Outcome {
	case NoCredential:
		if !present {
			event = a.log.Warn().Str("detail", "header not found")
		} else {
			event = a.log.Warn().Str("detail", "header is empty")
		}
	case Invalid:
		event = a.log.Warn().Str("reason", res.Reason)
	default:
		event = a.log.Info().Str("principal", res.Principal)
	}
	event.
		Str("auth_outcome", res.Outcome.String()).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("path", r.URL.Path).
		Msg("api key authentication")

	return res
}

// Middleware rejects every request that does not authenticate with 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := a.Authenticate(r)
		if !res.Succeeded() {
			w.Header().Set("WWW-Authenticate", Scheme)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), res.Principal)))
	})
}

type principalKey struct{}

func withPrincipal(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, principalKey{}, name)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(principalKey{}).(string)
	return name, ok
}
