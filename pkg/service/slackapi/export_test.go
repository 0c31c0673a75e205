package slackapi

// Export internal functions for testing
var MapErr = mapErr
