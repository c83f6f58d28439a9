// Package diffengine computes the set of backup files with no matching entry
// in the remote inventory, keyed by normalized identity keys.
package diffengine

import (
	"sort"

	"photosift/internal/inventory"
	"photosift/internal/remote"
)

// Result is the ordered sequence of backup files missing from the remote
// library, sorted by relative path so repeated runs over unchanged input are
// identical and "apply to all remaining" is well-defined.
type Result struct {
	Missing []inventory.MediaFile
}

// Diff intersects the backup inventory with the remote identity-key set and
// returns the backup files whose key is absent. Duplicate backup files that
// normalize to the same key are retained independently; presence in the
// remote is the only criterion.
func Diff(backup []inventory.MediaFile, remoteEntries []remote.Entry) Result {
	remoteKeys := make(map[string]struct{}, len(remoteEntries))
	for _, entry := range remoteEntries {
		remoteKeys[entry.IdentityKey] = struct{}{}
	}

	var missing []inventory.MediaFile
	for _, file := range backup {
		if _, ok := remoteKeys[file.IdentityKey]; !ok {
			missing = append(missing, file)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		return missing[i].RelativePath < missing[j].RelativePath
	})
	return Result{Missing: missing}
}
