package fsworkspace

import "embed"

// templatesFS seeds new workspaces; files render through app/template
// before landing on disk.
//
//go:embed templates
var templatesFS embed.FS
