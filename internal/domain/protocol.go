package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewProtocol returns a report protocol number: "VST", the date as yyyyMMdd
// and four random digits.
func NewProtocol(now time.Time) string {
	return fmt.Sprintf("VST%s%04d", now.Format("20060102"), rand.IntN(10000))
}
