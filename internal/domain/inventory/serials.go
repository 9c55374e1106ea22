package inventory

import "strings"

// NormalizeSerial canonicalizes a serial number: trimmed, uppercase.
// All ledger paths normalize before comparing or persisting.
func NormalizeSerial(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeSerials normalizes a batch, dropping empties, preserving order.
// The second result names duplicates found within the batch itself.
func NormalizeSerials(in []string) (out []string, dups []string) {
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		n := NormalizeSerial(s)
		if n == "" {
			continue
		}
		if seen[n] {
			dups = append(dups, n)
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, dups
}
