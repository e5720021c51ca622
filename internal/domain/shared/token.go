package shared

import (
	"strings"

	"github.com/google/uuid"
)

// NewToken returns a random 32 character hex token for QR labels and badges
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
