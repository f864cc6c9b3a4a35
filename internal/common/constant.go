// Package common contains shared constants and small helpers used across
// SugarLog client components.
package common

// HTTP header names and values set on every outbound API call.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
	ContentTypeHeaderName   = "Content-Type"
	JSONContentType         = "application/json"
)

// Metadata keys persisted in the local SQLite store.
const (
	MetaKeyAuthToken  = "auth_token"
	MetaKeyDeviceUUID = "device_uuid"
	MetaKeyEmail      = "email"
	MetaKeyUserID     = "user_id"
)
