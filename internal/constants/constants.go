// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100
)

// File upload constants
const (
	// MultipartMemory is how much of a multipart upload is kept in memory
	// before spilling to temporary files
	MultipartMemory = 32 << 20

	// UploadFormField is the multipart field carrying uploaded files
	UploadFormField = "files"

	// UploadBatchSize is the number of files the upload command sends per request
	UploadBatchSize = 10
)
