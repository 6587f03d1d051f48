package schema

type (
	// Credentials represents the username/password submitted on registration.
	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// User represents an exchange account.
	User struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
		IsActive bool   `json:"is_active"`
	}

	// Token represents the token and refresh endpoint response.
	// RefreshToken is empty on refresh responses.
	Token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token,omitempty"`
		TokenType    string `json:"token_type"`
	}

	// RefreshRequest is the refresh endpoint payload.
	RefreshRequest struct {
		RefreshToken string `json:"refresh_token"`
	}
)
