// Package auth provides bearer-token authentication for the rowfilter Flight service.
package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAuthHeader is returned when the authorization header is malformed.
	ErrInvalidAuthHeader = errors.New("authorization header must use Bearer scheme")

	// ErrTokenIsEmpty is returned when the bearer token is missing or empty.
	ErrTokenIsEmpty = errors.New("authorization token is empty")

	// ErrUnauthenticated is returned when authentication fails.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when an identity may not read a table.
	ErrForbidden = errors.New("access to table denied")
)

// Authenticator validates bearer tokens and returns user identity.
// Implementations MUST be goroutine-safe.
type Authenticator interface {
	// Authenticate validates a bearer token and returns user identity.
	// Context allows timeout for auth backend calls.
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

// TableAuthorizer is an optional interface an Authenticator can implement to
// restrict which tables an identity may filter.
//
// The Flight handlers call AuthorizeTable after the interceptor has put the
// identity into the context. A non-nil error is reported as PermissionDenied.
type TableAuthorizer interface {
	AuthorizeTable(ctx context.Context, table string) error
}

// NoAuth returns an Authenticator that allows all requests.
// Useful for development/testing. DO NOT use in production.
func NoAuth() Authenticator {
	return noAuthenticator{}
}

type noAuthenticator struct{}

func (noAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return "anonymous", nil
}

// BearerAuth creates an Authenticator from a validation function.
//
// Example:
//
//	auth := auth.BearerAuth(func(token string) (string, error) {
//	    if token != os.Getenv("ROWFILTER_TOKEN") {
//	        return "", rowfilter.ErrUnauthorized
//	    }
//	    return "analyst", nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return &bearerAuthenticator{validateFunc: validateFunc}
}

type bearerAuthenticator struct {
	validateFunc func(token string) (identity string, err error)
}

func (b *bearerAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return b.validateFunc(token)
}

// AnyIdentity is the TableACL key holding the allow list for identities that
// have no entry of their own. AnyTable in an allow list grants every table.
const (
	AnyIdentity = "*"
	AnyTable    = "*"
)

// TableACL wraps an Authenticator with a static per-identity table allow list.
// Identities missing from allowed fall back to the AnyIdentity entry and are
// denied every table when there is none.
//
// Example:
//
//	acl := auth.TableACL(base, map[string][]string{
//	    "analyst":        {"quotes", "trades"},
//	    "ops":            {auth.AnyTable},
//	    auth.AnyIdentity: {"quotes"},
//	})
func TableACL(base Authenticator, allowed map[string][]string) Authenticator {
	return &aclAuthenticator{Authenticator: base, allowed: allowed}
}

type aclAuthenticator struct {
	Authenticator
	allowed map[string][]string
}

func (a *aclAuthenticator) AuthorizeTable(ctx context.Context, table string) error {
	tables, ok := a.allowed[IdentityFromContext(ctx)]
	if !ok {
		tables = a.allowed[AnyIdentity]
	}
	for _, t := range tables {
		if t == table || t == AnyTable {
			return nil
		}
	}
	return ErrForbidden
}

// AuthorizeTable checks table access when authenticator implements
// TableAuthorizer. Nil authenticators and plain authenticators allow everything.
func AuthorizeTable(ctx context.Context, authenticator Authenticator, table string) error {
	az, ok := authenticator.(TableAuthorizer)
	if !ok {
		return nil
	}
	return az.AuthorizeTable(ctx, table)
}
