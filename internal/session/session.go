// Package session keeps server-side login sessions and the signed cookie
// token that references them.
package session

import (
	"context"
	"errors"
	"time"
)

// CookieName is the cookie that carries the session token.
const CookieName = "lively_session"

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Data is the server-side record of an authenticated user.
type Data struct {
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists session records keyed by an opaque id.
type Store interface {
	Create(ctx context.Context, data Data) (string, error)
	Get(ctx context.Context, id string) (*Data, error)
	Delete(ctx context.Context, id string) error
	TTL() time.Duration
}
