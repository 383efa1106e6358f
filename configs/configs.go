// Package configs embeds the static game data shipped with the binary.
package configs

import _ "embed"

//go:embed characters.yaml
var Characters []byte

//go:embed passengers.yaml
var Passengers []byte

//go:embed appearances.yaml
var Appearances []byte
