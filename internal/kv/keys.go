package kv

import "fmt"

// Key builders for the four key templates the store uses: session,
// session lock, idempotency marker, and ingress dedup marker.

func SessionKey(tenantID, waID string) string {
	return fmt.Sprintf("session:%s:%s", tenantID, waID)
}

func SessionLockKey(tenantID, waID string) string {
	return SessionKey(tenantID, waID) + ":lock"
}

func ProcessedKey(messageID string) string {
	return fmt.Sprintf("turn:processed:%s", messageID)
}

func OrchestratedKey(messageID string) string {
	return fmt.Sprintf("orchestrated:%s", messageID)
}
