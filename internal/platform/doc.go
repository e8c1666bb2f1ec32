package platform

// Package platform contains OS/platform integration and external tooling glue:
// download directory handling, locating finished downloads, opening folders in
// the system file manager, and playlist listing via github.com/ytget/ytdlp/v2.
