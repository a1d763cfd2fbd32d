package invoicing

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateNumber produces a display code of the form INV-#<year>-<4 digits>.
// The 4-digit suffix is random, so collisions are possible; callers that
// need per-owner uniqueness should check the repository and regenerate.
func GenerateNumber(at time.Time) string {
	return fmt.Sprintf("INV-#%d-%04d", at.Year(), 1000+rand.Intn(9000))
}
