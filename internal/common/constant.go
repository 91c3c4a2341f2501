// Package common contains shared constants and sentinel errors used across
// shipmarket components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ContentSubtype is the gRPC content-subtype of the marketplace codec.
const ContentSubtype = "json"
