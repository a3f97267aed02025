package models

// Identity is the username of whoever is logged in. The zero value is anonymous.
type Identity string

// Anonymous reports whether nobody is logged in.
func (i Identity) Anonymous() bool { return i == "" }

// Owns reports whether the pin was created under this identity. Two anonymous
// parties compare equal.
func (i Identity) Owns(p Pin) bool { return p.Username == string(i) }

// Ptr returns the identity as a JSON-nullable username.
func (i Identity) Ptr() *string {
	if i.Anonymous() {
		return nil
	}
	s := string(i)
	return &s
}
