package keycloak

// Wire shapes of the Keycloak admin REST API. Only the fields this service
// reads or writes are declared; the provider returns more.

// UserRepresentation mirrors the admin API user document.
type UserRepresentation struct {
	ID          string       `json:"id,omitempty"`
	Username    string       `json:"username,omitempty"`
	FirstName   string       `json:"firstName,omitempty"`
	LastName    string       `json:"lastName,omitempty"`
	Email       string       `json:"email,omitempty"`
	Enabled     bool         `json:"enabled"`
	Credentials []Credential `json:"credentials,omitempty"`
}

// Credential carries an initial password for user creation.
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// RoleRepresentation is a realm-level role mapping entry.
type RoleRepresentation struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// GroupRepresentation is a group membership entry.
type GroupRepresentation struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// UserRecord is the assembled provider view of one user: the base
// representation plus realm role mappings and group memberships, in the
// order the provider returned them.
type UserRecord struct {
	User   UserRepresentation
	Roles  []RoleRepresentation
	Groups []GroupRepresentation
}
