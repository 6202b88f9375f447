package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// More shading-frame trigonometry, for anisotropic lobes

func Cos2Theta(w core.Vec3) float64 { return w.Z * w.Z }
func Sin2Theta(w core.Vec3) float64 { return math.Max(0, 1-Cos2Theta(w)) }
func SinTheta(w core.Vec3) float64  { return math.Sqrt(Sin2Theta(w)) }
func TanTheta(w core.Vec3) float64  { return SinTheta(w) / CosTheta(w) }
func Tan2Theta(w core.Vec3) float64 { return Sin2Theta(w) / Cos2Theta(w) }

func CosPhi(w core.Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return math.Max(-1, math.Min(1, w.X/sinTheta))
}

func SinPhi(w core.Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, w.Y/sinTheta))
}

// TrowbridgeReitz is the GGX microfacet distribution with separate
// roughness along the shading frame's x and y axes
type TrowbridgeReitz struct {
	AlphaX, AlphaY float64
}

// RoughnessToAlpha maps a perceptually linear roughness in (0, 1] to alpha
func RoughnessToAlpha(roughness float64) float64 {
	x := math.Log(math.Max(roughness, 1e-3))
	return 1.62142 + 0.819955*x + 0.1734*x*x + 0.0171201*x*x*x + 0.000640711*x*x*x*x
}

// D is the differential area of microfacets with normal wh
func (d TrowbridgeReitz) D(wh core.Vec3) float64 {
	tan2Theta := Tan2Theta(wh)
	if math.IsInf(tan2Theta, 0) || math.IsNaN(tan2Theta) {
		return 0
	}
	cos4Theta := Cos2Theta(wh) * Cos2Theta(wh)
	cosPhi, sinPhi := CosPhi(wh), SinPhi(wh)
	e := (cosPhi*cosPhi/(d.AlphaX*d.AlphaX) + sinPhi*sinPhi/(d.AlphaY*d.AlphaY)) * tan2Theta
	return 1 / (math.Pi * d.AlphaX * d.AlphaY * cos4Theta * (1 + e) * (1 + e))
}

// Lambda is the invisible masked area per visible area seen from w
func (d TrowbridgeReitz) Lambda(w core.Vec3) float64 {
	absTanTheta := math.Abs(TanTheta(w))
	if math.IsInf(absTanTheta, 0) || math.IsNaN(absTanTheta) {
		return 0
	}
	cosPhi, sinPhi := CosPhi(w), SinPhi(w)
	alpha := math.Sqrt(cosPhi*cosPhi*d.AlphaX*d.AlphaX + sinPhi*sinPhi*d.AlphaY*d.AlphaY)
	alpha2Tan2Theta := (alpha * absTanTheta) * (alpha * absTanTheta)
	return (-1 + math.Sqrt(1+alpha2Tan2Theta)) / 2
}

// G1 is the fraction of microfacets visible from w
func (d TrowbridgeReitz) G1(w core.Vec3) float64 {
	return 1 / (1 + d.Lambda(w))
}

// G is the fraction of microfacets visible from both wo and wi
func (d TrowbridgeReitz) G(wo, wi core.Vec3) float64 {
	return 1 / (1 + d.Lambda(wo) + d.Lambda(wi))
}

// SampleWh samples a microfacet normal from the distribution of normals
// visible from wo
func (d TrowbridgeReitz) SampleWh(wo core.Vec3, u core.Vec2) core.Vec3 {
	flip := wo.Z < 0
	if flip {
		wo = wo.Negate()
	}
	wh := trowbridgeReitzSample(wo, d.AlphaX, d.AlphaY, u.X, u.Y)
	if flip {
		wh = wh.Negate()
	}
	return wh
}

// Pdf is the density of SampleWh returning wh
func (d TrowbridgeReitz) Pdf(wo, wh core.Vec3) float64 {
	return d.D(wh) * d.G1(wo) * wo.AbsDot(wh) / AbsCosTheta(wo)
}

// trowbridgeReitzSample stretches wi to the unit-roughness configuration,
// samples slopes there and unstretches the result
func trowbridgeReitzSample(wi core.Vec3, alphaX, alphaY, u1, u2 float64) core.Vec3 {
	wiStretched := core.NewVec3(alphaX*wi.X, alphaY*wi.Y, wi.Z).Normalize()

	slopeX, slopeY := trowbridgeReitzSample11(CosTheta(wiStretched), u1, u2)

	cosPhi, sinPhi := CosPhi(wiStretched), SinPhi(wiStretched)
	slopeX, slopeY = cosPhi*slopeX-sinPhi*slopeY, sinPhi*slopeX+cosPhi*slopeY

	slopeX *= alphaX
	slopeY *= alphaY
	return core.NewVec3(-slopeX, -slopeY, 1).Normalize()
}

func trowbridgeReitzSample11(cosTheta, u1, u2 float64) (float64, float64) {
	// Normal incidence
	if cosTheta > 0.9999 {
		r := math.Sqrt(u1 / (1 - u1))
		phi := 2 * math.Pi * u2
		return r * math.Cos(phi), r * math.Sin(phi)
	}

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	tanTheta := sinTheta / cosTheta
	a := 1 / tanTheta
	g1 := 2 / (1 + math.Sqrt(1+1/(a*a)))

	// Sample slope x
	A := 2*u1/g1 - 1
	tmp := math.Min(1/(A*A-1), 1e10)
	B := tanTheta
	D := math.Sqrt(math.Max(B*B*tmp*tmp-(A*A-B*B)*tmp, 0))
	slopeX1 := B*tmp - D
	slopeX2 := B*tmp + D
	slopeX := slopeX2
	if A < 0 || slopeX2 > 1/tanTheta {
		slopeX = slopeX1
	}

	// Sample slope y
	var s float64
	if u2 > 0.5 {
		s = 1
		u2 = 2 * (u2 - 0.5)
	} else {
		s = -1
		u2 = 2 * (0.5 - u2)
	}
	z := (u2*(u2*(u2*0.27385-0.73369)+0.46341)) /
		(u2*(u2*(u2*0.093073+0.309420)-1.000000) + 0.597999)
	slopeY := s * z * math.Sqrt(1+slopeX*slopeX)
	return slopeX, slopeY
}

// MicrofacetReflection is the Torrance-Sparrow glossy reflection lobe
type MicrofacetReflection struct {
	R            core.Vec3
	Distribution TrowbridgeReitz
	Fresnel      Fresnel
}

func (m *MicrofacetReflection) Type() BxDFType { return BSDFReflection | BSDFGlossy }

func (m *MicrofacetReflection) F(wo, wi core.Vec3) core.Vec3 {
	cosThetaO, cosThetaI := AbsCosTheta(wo), AbsCosTheta(wi)
	wh := wi.Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wh.IsBlack() {
		return core.Vec3{}
	}
	wh = wh.Normalize()
	// The Fresnel term uses the microfacet normal facing the outside
	fr := m.Fresnel.Evaluate(wi.Dot(wh.FaceForward(core.NewVec3(0, 0, 1))))
	return m.R.MultiplyVec(fr).Multiply(m.Distribution.D(wh) * m.Distribution.G(wo, wi) / (4 * cosThetaI * cosThetaO))
}

func (m *MicrofacetReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	wh := m.Distribution.SampleWh(wo, u)
	if wo.Dot(wh) < 0 {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	wi := Reflect(wo, wh)
	if !SameHemisphere(wo, wi) {
		return core.Vec3{}, wi, 0, m.Type()
	}
	pdf := m.Distribution.Pdf(wo, wh) / (4 * wo.Dot(wh))
	return m.F(wo, wi), wi, pdf, m.Type()
}

func (m *MicrofacetReflection) Pdf(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	wh := wo.Add(wi).Normalize()
	return m.Distribution.Pdf(wo, wh) / (4 * wo.AbsDot(wh))
}
