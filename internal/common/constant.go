package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "umbra_session"

// UserContextKey is the echo context key holding the authenticated username.
const UserContextKey = "username"

// PagesPrefix is the route prefix of level pages; last_page values start with it.
const PagesPrefix = "/pages/"
