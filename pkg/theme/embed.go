package theme

import "embed"

// templatesFS holds the Hugo shortcodes, render hooks and inject partial
// templates written into a site by Assets.
//
//go:embed templates/*
var templatesFS embed.FS
