package feeds

import (
	"math"

	"github.com/travigo/busproximity/pkg/ctdf"
)

const earthRadiusMetres = 6371008.8

// equirectangularProjection maps WGS84 coordinates onto a local plane in
// metres around a fixed origin. Accurate enough over the few kilometres a
// simulation covers.
type equirectangularProjection struct {
	originLatitude  float64
	originLongitude float64
	cosOrigin       float64

	anchored bool
}

func (p *equirectangularProjection) anchor(latitude float64, longitude float64) {
	p.originLatitude = latitude
	p.originLongitude = longitude
	p.cosOrigin = math.Cos(latitude * math.Pi / 180)
	p.anchored = true
}

// Project returns the planar location; the first projected point becomes the origin
func (p *equirectangularProjection) Project(latitude float64, longitude float64) ctdf.Location {
	if !p.anchored {
		p.anchor(latitude, longitude)
	}

	x := (longitude - p.originLongitude) * math.Pi / 180 * p.cosOrigin * earthRadiusMetres
	y := (latitude - p.originLatitude) * math.Pi / 180 * earthRadiusMetres

	return ctdf.NewLocation(x, y)
}
