package models

import "github.com/vit0-9/whois_api/pkg/lookup"

// LookupRequest is the query string of the lookup endpoint.
type LookupRequest struct {
	Query string `form:"query" example:"example.com"`
}

// LookupResponse is the lookup envelope: status, elapsed seconds, whether it
// came from cache, which protocol answered, and the record or error.
type LookupResponse = lookup.Result
