package config

const (
	// MaxIDLength is the maximum length for client-supplied identifiers
	// (user ids, folder ids, item ids). Limited to 255 to fit comfortably
	// in index keys; ids are opaque strings chosen by the client.
	MaxIDLength = 255

	// MaxNameLength is the maximum length for folder and item names.
	MaxNameLength = 512

	// MaxIconLength is the maximum length for an item's icon reference.
	MaxIconLength = 512
)
