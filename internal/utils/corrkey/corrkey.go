// Package corrkey builds and parses the correlation keys carried on ledger
// entries. The string formats are a wire convention shared with other
// subsystems and persisted data; they must be preserved bit-for-bit. Inside
// this service only the typed Key is passed around.
package corrkey

import (
	"fmt"
	"strings"
	"time"
)

const (
	valuationPrefix = "investment_valuation_"
	tradePrefix     = "investment_trade_"
	transferPrefix  = "transfer_"
)

// Kind discriminates what produced a correlation key.
type Kind int

const (
	KindNone Kind = iota
	KindValuation
	KindTrade
	KindTransfer
)

// Key is the parsed form of a correlation key.
type Key struct {
	Kind Kind
	// ID is the snapshot ID for KindValuation, the trade ID for KindTrade,
	// and the full shared pair token for KindTransfer.
	ID string
}

// ForValuation returns the key pairing a ledger entry with a valuation snapshot.
func ForValuation(snapshotID string) string {
	return valuationPrefix + snapshotID
}

// ForTrade returns the key pairing a ledger entry with a recorded trade.
func ForTrade(tradeID string) string {
	return tradePrefix + tradeID
}

// ForTransfer returns a new shared key for a transfer pair. The timestamp and
// random suffix keep keys unique without coordination.
func ForTransfer(now time.Time, suffix string) string {
	return fmt.Sprintf("%s%d_%s", transferPrefix, now.UTC().Unix(), suffix)
}

// Parse classifies a raw reference string. An empty or unrecognized
// reference parses as KindNone; callers treat those entries as manual.
func Parse(reference string) Key {
	switch {
	case strings.HasPrefix(reference, valuationPrefix):
		return Key{Kind: KindValuation, ID: strings.TrimPrefix(reference, valuationPrefix)}
	case strings.HasPrefix(reference, tradePrefix):
		return Key{Kind: KindTrade, ID: strings.TrimPrefix(reference, tradePrefix)}
	case strings.HasPrefix(reference, transferPrefix):
		return Key{Kind: KindTransfer, ID: reference}
	default:
		return Key{Kind: KindNone}
	}
}

// IsAutomated reports whether the reference was set by an automated process
// and therefore must never be edited or reused.
func IsAutomated(reference string) bool {
	return Parse(reference).Kind != KindNone
}

// IsTransfer reports whether the entry already belongs to a transfer pair.
func IsTransfer(reference string) bool {
	return Parse(reference).Kind == KindTransfer
}
