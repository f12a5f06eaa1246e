package employees

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewCode returns a badge code such as EMP-1718000000000-3f9a. The random
// suffix keeps codes unique when two signups share a millisecond.
func NewCode(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return "EMP-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}
