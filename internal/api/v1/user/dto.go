package user

// UserResponse defines the response structure for the account snapshot.
type UserResponse struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Tokens         int      `json:"tokens"`
	UnlockedModels []string `json:"unlockedModels"`
}
