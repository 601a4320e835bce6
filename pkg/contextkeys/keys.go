package contextkeys

type contextKey string

const (
	SessionKey contextKey = "Session"
)
