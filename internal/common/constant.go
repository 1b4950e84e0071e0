package common

// TokenHeaderName is the HTTP header that carries the session token.
const TokenHeaderName = "token"
