package clientdata

import (
	"strings"
	"time"
)

// Kind identifies the shape of a cached payload and selects its TTL policy.
type Kind string

const (
	KindQuote        Kind = "quote"
	KindHistory      Kind = "history"
	KindNews         Kind = "news"
	KindFundamentals Kind = "fundamentals"
	KindEarnings     Kind = "earnings"
)

// Policy holds the independent TTLs of the two tiers.
// Memory entries expire by elapsed time since they were written, file
// entries by the age of the file's modification time.
type Policy struct {
	Memory time.Duration `yaml:"memory"`
	File   time.Duration `yaml:"file"`
}

// TTL defaults per kind.
const (
	TTLQuoteMemory = 60 * time.Second // quotes move constantly
	TTLQuoteFile   = 15 * time.Minute

	TTLHistoryMemory = 5 * time.Minute
	TTLHistoryFile   = time.Hour

	TTLNewsMemory = 5 * time.Minute
	TTLNewsFile   = time.Hour

	TTLFundamentalsMemory = time.Hour
	TTLFundamentalsFile   = 24 * time.Hour

	TTLEarningsMemory = time.Hour
	TTLEarningsFile   = 24 * time.Hour
)

// DefaultPolicies returns a fresh copy of the default TTL table.
func DefaultPolicies() map[Kind]Policy {
	return map[Kind]Policy{
		KindQuote:        {Memory: TTLQuoteMemory, File: TTLQuoteFile},
		KindHistory:      {Memory: TTLHistoryMemory, File: TTLHistoryFile},
		KindNews:         {Memory: TTLNewsMemory, File: TTLNewsFile},
		KindFundamentals: {Memory: TTLFundamentalsMemory, File: TTLFundamentalsFile},
		KindEarnings:     {Memory: TTLEarningsMemory, File: TTLEarningsFile},
	}
}

const keySep = "|"

// NewKey builds a cache key from kind, symbol and query shape (period,
// interval, lookback...). Distinct shapes never collide.
func NewKey(kind Kind, symbol string, shape ...string) string {
	parts := append([]string{string(kind), strings.ToUpper(symbol)}, shape...)
	return strings.Join(parts, keySep)
}

// KindOf extracts the kind encoded in a key built by NewKey.
func KindOf(key string) Kind {
	kind, _, _ := strings.Cut(key, keySep)
	return Kind(kind)
}
