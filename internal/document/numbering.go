package document

import (
	"fmt"
	"sync"
	"time"

	"github.com/antarakost/service-rental/internal/domain/rental"
	"github.com/google/uuid"
)

// Clock abstracts time for the numbering service so document numbers are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// romanMonths maps calendar months to uppercase Roman numerals for the
// contract metadata on booking slips.
var romanMonths = [...]string{
	time.January:   "I",
	time.February:  "II",
	time.March:     "III",
	time.April:     "IV",
	time.May:       "V",
	time.June:      "VI",
	time.July:      "VII",
	time.August:    "VIII",
	time.September: "IX",
	time.October:   "X",
	time.November:  "XI",
	time.December:  "XII",
}

// RomanMonth returns the month of t as an uppercase Roman numeral (I-XII).
func RomanMonth(t time.Time) string {
	return romanMonths[t.Month()]
}

// ContractMeta holds the contract-series metadata derived from the rental
// start date. Both values are required template substitutions on the
// booking slip; they are not part of the document number itself.
type ContractMeta struct {
	MonthRoman string
	Year       string
}

// ContractMetaFor derives the contract metadata from a rental start date.
func ContractMetaFor(startDate time.Time) ContractMeta {
	return ContractMeta{
		MonthRoman: RomanMonth(startDate),
		Year:       fmt.Sprintf("%04d", startDate.Year()),
	}
}

// NumberingService issues unique, human-readable document numbers of the
// form PREFIX-idFragment-epochMillis. Uniqueness is guaranteed only within
// the process: two calls in the same millisecond still receive distinct
// numbers via a monotonic floor, but there is no cross-process sequence
// authority.
type NumberingService struct {
	clock Clock

	mu         sync.Mutex
	lastMillis int64
}

// NewNumberingService creates a NumberingService on the given clock.
func NewNumberingService(clock Clock) *NumberingService {
	return &NumberingService{clock: clock}
}

// Next issues a document number for the given rental and document type.
func (s *NumberingService) Next(rentalID uuid.UUID, docType rental.DocumentType) (string, error) {
	prefix, err := docType.NumberPrefix()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	millis := s.clock.Now().UnixMilli()
	if millis <= s.lastMillis {
		millis = s.lastMillis + 1
	}
	s.lastMillis = millis
	s.mu.Unlock()

	idFragment := rentalID.String()[:8]
	return fmt.Sprintf("%s-%s-%d", prefix, idFragment, millis), nil
}
