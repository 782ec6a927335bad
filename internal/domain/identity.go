package domain

// Identity is the trusted answer to "who is calling", produced only by
// the authorization gate after a bearer token has been verified.
type Identity struct {
	UserID   int64
	Username string
}
