package domain

// User is an account on the API server.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials are sent to the login and register endpoints. Name is only
// used when registering.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
