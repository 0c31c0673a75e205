package refresh

// Export internal options and helpers for testing
var (
	WithBackOffFactory = withBackOffFactory

	ExtractAPIToken = extractAPIToken
	ExtractDCookie  = extractDCookie
)
