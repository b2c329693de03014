// Package catalogs provides the app catalog compiled into the binary.
package catalogs

import _ "embed"

// DefaultYAML is the bundled app catalog, embedded at build time.
//
//go:embed default/apps.yaml
var DefaultYAML []byte
