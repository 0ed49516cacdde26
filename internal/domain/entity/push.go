package entity

// PushKind is the closed set of notification kinds a partner can share.
type PushKind string

const (
	// PushKindImage announces a shared photo.
	PushKindImage PushKind = "image"
	// PushKindNote announces a shared colored note.
	PushKindNote PushKind = "note"
)

// Valid reports whether the kind is one of the supported values.
func (k PushKind) Valid() bool {
	return k == PushKindImage || k == PushKindNote
}

// DeliveryResult captures the outcome of one per-device send attempt.
// A fan-out produces one result per input token, in input order.
type DeliveryResult struct {
	Token     string `json:"token"`
	Delivered bool   `json:"delivered"`
	MessageID string `json:"message_id,omitempty"` // Provider message name on success.
	Error     string `json:"error,omitempty"`      // Provider failure reason on error.
}
