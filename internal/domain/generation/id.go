package generation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/slidegen/pkg/util"
)

const filenamePrefix = "presentation_"

// NewID combines a base36 millisecond timestamp with eight random hex characters.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return util.Base36Millis(now) + suffix
}

func defaultIDSource() string {
	return NewID(util.NowUTC())
}
