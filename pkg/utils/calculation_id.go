package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateCalculationID creates a short, human-readable id for a route calculation.
// Format: {kind}-{fromSlug}-{toSlug}-{8charHexUUID}
//
// Example:
//   - Input: kind="simple", from="Sol", to="Blu Thua AI-A c14-0"
//   - Output: "simple-Sol-Blu_Thua_AI-A_c14-0-a3f8e2b1"
func GenerateCalculationID(kind, from, to string) string {
	return kind + "-" + SystemSlug(from) + "-" + SystemSlug(to) + "-" + generateShortUUID()
}

// SystemSlug converts a system name into a token usable in file names and cache keys.
// Spaces become underscores and asterisks are dropped.
func SystemSlug(system string) string {
	return strings.ReplaceAll(strings.ReplaceAll(system, " ", "_"), "*", "")
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
