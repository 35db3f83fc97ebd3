package types

// EmbedSessionData identifies one overlay opened by a host page. It is
// carried inside the embed handle token.
type EmbedSessionData struct {
	ID        string `json:"id" validate:"required"`
	PublicKey string `json:"public_key" validate:"required"`
	Reference string `json:"reference" validate:"required"`
}
