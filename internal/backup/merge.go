// Package backup serializes the local store into snapshots, reconciles them
// with snapshots downloaded from the cloud object store, and replaces the
// local store atomically with the result.
package backup

import (
	"sort"

	"github.com/donfanning/pushclip/internal/models"
)

// Merge reconciles a remote snapshot into a local one and returns the merged
// result. Neither input is mutated. Every conflict has a deterministic
// resolution, so Merge cannot fail.
//
// Labels are matched by name; remote ids are renumbered past the local
// range and every clip reference is rewritten accordingly. Clips are
// matched by text: favorite is sticky once true, the newer timestamp wins
// the origin fields, and label sets union. localDisplayName decides whether
// an adopted clip counts as remote-origin on this device.
func Merge(local, remote models.Snapshot, localDisplayName string) models.Snapshot {
	merged := models.Snapshot{
		Labels: append([]models.Label(nil), local.Labels...),
		Clips:  make([]models.ClipItem, 0, len(local.Clips)+len(remote.Clips)),
	}
	for _, c := range local.Clips {
		merged.Clips = append(merged.Clips, cloneClip(c))
	}

	idMap := reconcileLabels(&merged, remote.Labels)

	for _, rc := range remote.Clips {
		remoteClip := cloneClip(rc)
		remoteClip.LabelIDs = rewriteLabelRefs(remoteClip.LabelIDs, idMap)

		target := merged.FindClipByText(remoteClip.Text)
		if target == nil {
			adoptOrigin(&remoteClip, localDisplayName)
			merged.Clips = append(merged.Clips, remoteClip)
			continue
		}

		target.Favorite = target.Favorite || remoteClip.Favorite
		if remoteClip.Timestamp.After(target.Timestamp) {
			target.Timestamp = remoteClip.Timestamp
			target.SourceDevice = remoteClip.SourceDevice
			adoptOrigin(target, localDisplayName)
		}
		target.LabelIDs = unionLabelRefs(target.LabelIDs, remoteClip.LabelIDs)
	}

	return merged
}

// reconcileLabels appends remote labels that are new by name, assigning ids
// past the local range, and returns the remote-id to merged-id mapping.
func reconcileLabels(merged *models.Snapshot, remoteLabels []models.Label) map[int64]int64 {
	nextID := merged.MaxLabelID() + 1
	idMap := make(map[int64]int64, len(remoteLabels))

	for _, rl := range remoteLabels {
		if existing := merged.FindLabelByName(rl.Name); existing != nil {
			idMap[rl.ID] = existing.ID
			continue
		}
		idMap[rl.ID] = nextID
		merged.Labels = append(merged.Labels, models.Label{ID: nextID, Name: rl.Name})
		nextID++
	}
	return idMap
}

func rewriteLabelRefs(ids []int64, idMap map[int64]int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if mapped, ok := idMap[id]; ok {
			out = append(out, mapped)
		}
	}
	return out
}

func unionLabelRefs(a, b []int64) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, id := range append(append([]int64(nil), a...), b...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// adoptOrigin recomputes the origin fields of a clip taken from a remote
// snapshot relative to this device.
func adoptOrigin(c *models.ClipItem, localDisplayName string) {
	c.RemoteOrigin = c.SourceDevice != localDisplayName
}

func cloneClip(c models.ClipItem) models.ClipItem {
	c.LabelIDs = append([]int64(nil), c.LabelIDs...)
	return c
}
