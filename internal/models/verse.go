package models

// Verse is the content unit delivered to a subscriber. It is produced by the
// content provider and consumed immediately; only the delivery log keeps a copy.
type Verse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Version   string `json:"version"`
}
