package raise

import "strings"

var (
	configKey           = []byte("raise/config")
	pendingSubsKey      = []byte("raise/subs/pending")
	eligibleSubsKey     = []byte("raise/subs/eligible")
	acceptedSubsKey     = []byte("raise/subs/accepted")
	assetExchangePrefix = []byte("raise/exchanges/")
	redemptionsKey      = []byte("raise/redemptions")
)

func assetExchangeKey(subscription string) []byte {
	trimmed := strings.TrimSpace(subscription)
	buf := make([]byte, len(assetExchangePrefix)+len(trimmed))
	copy(buf, assetExchangePrefix)
	copy(buf[len(assetExchangePrefix):], trimmed)
	return buf
}
