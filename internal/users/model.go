package users

// CreateRequest is the inbound payload for user creation. It lives only for
// the duration of one call and is never persisted locally.
type CreateRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Profile is a read-through projection of a provider-owned user record. The
// id is provider-assigned and opaque; roles and groups keep provider order.
type Profile struct {
	ID        string   `json:"-"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	Groups    []string `json:"groups"`
}
