// README: Common geographic point value object used across modules.
package types

type Point struct {
	Lat float64
	Lng float64
}
