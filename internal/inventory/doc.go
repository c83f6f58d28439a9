// Package inventory builds the local side of a reconciliation: it walks a
// backup tree, classifies entries by media kind, and derives the normalized
// identity key used to match files against the remote library listing.
//
// Scans are fresh on every invocation; nothing is cached between runs. A scan
// fails only when the root itself is unusable. Individual unreadable entries
// are recorded on the result and skipped so one bad file cannot abort a
// backup-wide reconciliation.
package inventory
