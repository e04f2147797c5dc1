// Package domain contains the core types shared by the conversion pipeline:
// the supported output formats and the artifact a conversion produces. They
// are free of infrastructure concerns so the HTTP layer, the CLI and the
// renderers can all depend on them.
package domain
