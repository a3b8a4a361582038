// README: Common value types shared across modules.
package types

// ID is an opaque entity identifier (32-char hex from the generator, or an
// external provider id).
type ID string

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}
