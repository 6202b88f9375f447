package lights

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// sampleInfiniteLe picks an emission ray for a light at infinity: a
// direction uniform over the sphere, and an origin on the disk of radius
// worldRadius facing that direction, pushed back outside the scene bound.
// PdfPos is per unit disk area and PdfDir per unit solid angle.
func sampleInfiniteLe(worldCenter core.Vec3, worldRadius float64, uDir, uPos core.Vec2, time float64) EmissionSample {
	d := core.UniformSampleSphere(uDir).Negate()
	v1, v2 := core.CoordinateSystem(d)
	cd := core.ConcentricSampleDisk(uPos)
	pDisk := worldCenter.Add(v1.Multiply(cd.X * worldRadius)).Add(v2.Multiply(cd.Y * worldRadius))
	origin := pDisk.Subtract(d.Multiply(worldRadius))

	es := EmissionSample{
		Ray:    core.NewRayAt(origin, d, time),
		NLight: d,
		PdfDir: core.UniformSpherePdf(),
	}
	if worldRadius > 0 {
		es.PdfPos = 1 / (math.Pi * worldRadius * worldRadius)
	}
	return es
}
