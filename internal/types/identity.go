package types

// Identity is the verified caller as asserted by the identity provider.
type Identity struct {
	ClerkUserID string `json:"sub"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// DisplayName returns the name to store for a newly provisioned user.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}
