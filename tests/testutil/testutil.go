// Package testutil provides shared harnesses for the RestOps backend
// tests: a sqlmock-backed gorm handle for repository tests and a prepared
// gin context for handler tests.
package testutil

import (
	"github.com/google/uuid"
)

// NewTestUUID derives a deterministic UUID from seed, so fixtures agree
// across test runs and packages.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// LocationID is the stock restaurant location used by fixtures.
func LocationID() uuid.UUID {
	return NewTestUUID("location-main-street")
}

// UserID is the stock on-shift employee used by fixtures.
func UserID() uuid.UUID {
	return NewTestUUID("employee-on-shift")
}
