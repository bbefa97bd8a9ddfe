package domain

// User is the identity cached alongside the session tokens.
type User struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Session holds the tokens and identity of the signed-in user.
type Session struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// SavedAt is stored as RFC3339 text.
	SavedAt string `json:"savedAt,omitempty"`
	// APIURL is the API the tokens were issued by.
	APIURL string `json:"apiUrl,omitempty"`
}

// Credentials are sent to the login endpoint.
type Credentials struct {
	LoginIdentifier string `json:"loginIdentifier"`
	Password        string `json:"password"`
	RememberMe      bool   `json:"rememberMe"`
}

// Registration is sent to the register endpoint.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// AuthResult is the flat login/refresh response of the backend.
type AuthResult struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message,omitempty"`
}

// Session converts an auth response into a storable session.
func (r AuthResult) Session() Session {
	return Session{
		User: User{
			UserID:    r.UserID,
			Username:  r.Username,
			Email:     r.Email,
			FirstName: r.FirstName,
			LastName:  r.LastName,
		},
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
	}
}
