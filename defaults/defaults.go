// Package defaults bundles the gesture table shipped with the application.
package defaults

import _ "embed"

// Gestures is the bundled default configuration document.
//
//go:embed gestures.json
var Gestures []byte
