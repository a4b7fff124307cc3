package domain

// Principal is the authenticated identity derived from a validated bearer
// token. It lives for the duration of one request.
type Principal struct {
	UserID int64
	Role   Role
	Email  string
}
