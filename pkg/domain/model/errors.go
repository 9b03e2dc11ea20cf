package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrSelectionNotFound = goerr.New("filter selection not found")
	ErrSnapshotNotFound  = goerr.New("issue snapshot not found")
)

// Error tags used to classify domain failures
var (
	// ErrTagInvalidDimension marks a filter update naming an unknown dimension
	ErrTagInvalidDimension = goerr.NewTag("invalid_dimension")
	// ErrTagInvalidRequest marks malformed client input
	ErrTagInvalidRequest = goerr.NewTag("invalid_request")
	// ErrTagUpstream marks an unavailable issue source with nothing cached to fall back on
	ErrTagUpstream = goerr.NewTag("upstream_unavailable")
)
