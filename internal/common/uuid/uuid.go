package uuid

import (
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/pkalinn/revolver/internal/common/uuid UUID

// UUID generates unique identifiers
type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface using the uuid package
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.New().String()
}

// ShortToken derives a compact n-character token from a generated UUID.
// Game and player identifiers on the wire use these instead of full UUIDs.
func ShortToken(gen UUID, n int) string {
	s := strings.ReplaceAll(gen.NewUUID(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
