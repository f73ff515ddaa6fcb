// Package data embeds the device illustrations shipped with the application.
package data

import "embed"

// SVGs holds the device illustrations and the lookup table under svgs/.
//
//go:embed svgs
var SVGs embed.FS
