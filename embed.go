package wanderpress

import "embed"

// EmbeddedAssets contains the default stylesheet and the navbar toggle
// script, served and copied under /public/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
