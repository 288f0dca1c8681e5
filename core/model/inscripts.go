package model

// Inscription is one applied operation as recorded in the ledger journal.
// Hash is the medium-specific identifier assigned by a publisher; it stays
// empty until the payload has been published.
type Inscription struct {
	Number      uint64 `json:"number"`
	Hash        string `json:"hash,omitempty"`
	Timestamp   uint64 `json:"timestamp"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}
