package domain

import "time"

// StoredFile records an uploaded blob in the content area and which account
// put it there. The bytes themselves live on disk under the stored name.
type StoredFile struct {
	// StoredName is the server-generated unique name, also the on-disk name.
	StoredName string `json:"filename"`

	// AccountID is the uploader. Persisted so ownership survives the session.
	AccountID string `json:"-"`

	// OriginalName is the client-supplied filename, informational only.
	OriginalName string `json:"originalname"`

	SizeBytes int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
