// Package entity defines domain entities for cardex.
package entity

// unknownType is shown for characters whose type is not reported by the source.
const unknownType = "unknown type"

// Character is a single catalog record as served by the remote API.
// The page cache treats it as an opaque payload.
type Character struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	Status  string `json:"status"`
	Species string `json:"species"`
	Type    string `json:"type,omitempty"`
	Gender  string `json:"gender"`
	Created string `json:"created"`
}

// DisplayType returns the character type, or a placeholder when the source left it empty.
func (c Character) DisplayType() string {
	if c.Type == "" {
		return unknownType
	}
	return c.Type
}
