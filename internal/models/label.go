package models

// Label is a user-defined tag for clips. Names are globally meaningful;
// ids are surrogate keys stable only within one snapshot or store, and are
// renumbered when snapshots merge.
type Label struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
