package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// Fresnel gives the fraction of light reflected at a boundary
type Fresnel interface {
	Evaluate(cosThetaI float64) core.Vec3
}

// FresnelDielectric is the exact Fresnel reflectance between two dielectrics
type FresnelDielectric struct {
	EtaI, EtaT float64
}

func (f FresnelDielectric) Evaluate(cosThetaI float64) core.Vec3 {
	return core.NewSpectrum(FrDielectric(cosThetaI, f.EtaI, f.EtaT))
}

// FresnelNoOp reflects everything
type FresnelNoOp struct{}

func (FresnelNoOp) Evaluate(cosThetaI float64) core.Vec3 {
	return core.NewSpectrum(1)
}

// FrDielectric returns the unpolarized Fresnel reflectance for light
// arriving at cosThetaI. A negative cosine means the light is inside the
// etaT medium, and the indices are swapped.
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = math.Max(-1, math.Min(1, cosThetaI))
	if cosThetaI <= 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = math.Abs(cosThetaI)
	}

	// Snell's law
	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		return 1 // Total internal reflection
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParl := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FresnelConductor is the reflectance of a conductor with complex index
// of refraction EtaT + i K, seen from a dielectric with index EtaI
type FresnelConductor struct {
	EtaI, EtaT, K core.Vec3
}

func (f FresnelConductor) Evaluate(cosThetaI float64) core.Vec3 {
	return FrConductor(math.Abs(cosThetaI), f.EtaI, f.EtaT, f.K)
}

// FrConductor returns the unpolarized conductor reflectance, per channel
func FrConductor(cosThetaI float64, etaI, etaT, k core.Vec3) core.Vec3 {
	cosThetaI = math.Max(-1, math.Min(1, cosThetaI))
	return core.NewVec3(
		frConductor1(cosThetaI, etaT.X/etaI.X, k.X/etaI.X),
		frConductor1(cosThetaI, etaT.Y/etaI.Y, k.Y/etaI.Y),
		frConductor1(cosThetaI, etaT.Z/etaI.Z, k.Z/etaI.Z),
	)
}

func frConductor1(cosThetaI, eta, etak float64) float64 {
	cos2ThetaI := cosThetaI * cosThetaI
	sin2ThetaI := 1 - cos2ThetaI
	eta2 := eta * eta
	etak2 := etak * etak

	t0 := eta2 - etak2 - sin2ThetaI
	a2plusb2 := math.Sqrt(t0*t0 + 4*eta2*etak2)
	t1 := a2plusb2 + cos2ThetaI
	a := math.Sqrt(0.5 * (a2plusb2 + t0))
	t2 := 2 * cosThetaI * a
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2ThetaI*a2plusb2 + sin2ThetaI*sin2ThetaI
	t4 := t2 * sin2ThetaI
	rp := rs * (t3 - t4) / (t3 + t4)
	return 0.5 * (rp + rs)
}
