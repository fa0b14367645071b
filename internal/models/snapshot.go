package models

// Snapshot is the full set of labels and clips at one point in time: the
// unit of backup and merge. It is a transient projection of the local store
// or the deserialized content of a downloaded backup blob, never persisted
// on its own.
type Snapshot struct {
	Labels []Label    `json:"labels"`
	Clips  []ClipItem `json:"clips"`
}

// FindLabelByName returns the label with the given name, or nil.
func (s *Snapshot) FindLabelByName(name string) *Label {
	for i := range s.Labels {
		if s.Labels[i].Name == name {
			return &s.Labels[i]
		}
	}
	return nil
}

// MaxLabelID returns the highest label id in the snapshot, 0 when empty.
func (s *Snapshot) MaxLabelID() int64 {
	var max int64
	for _, l := range s.Labels {
		if l.ID > max {
			max = l.ID
		}
	}
	return max
}

// FindClipByText returns the clip with the given text, or nil.
func (s *Snapshot) FindClipByText(text string) *ClipItem {
	for i := range s.Clips {
		if s.Clips[i].Text == text {
			return &s.Clips[i]
		}
	}
	return nil
}
