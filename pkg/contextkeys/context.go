package contextkeys

type contextKey string

// DBContextKey - key of the request-scoped *gorm.DB
const DBContextKey = contextKey("db")

// UserIDKey - key of the authenticated user id (uint) set by the session middleware
const UserIDKey = contextKey("userID")

// SessionIDKey - key of the current session id
const SessionIDKey = contextKey("sessionID")
