package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// BxDFType classifies a scattering lobe
type BxDFType uint8

const (
	BSDFReflection BxDFType = 1 << iota
	BSDFTransmission
	BSDFDiffuse
	BSDFGlossy
	BSDFSpecular

	BSDFAll = BSDFReflection | BSDFTransmission | BSDFDiffuse | BSDFGlossy | BSDFSpecular
)

// MatchesFlags reports whether every bit of t is present in flags
func (t BxDFType) MatchesFlags(flags BxDFType) bool {
	return t&flags == t
}

// Has reports whether any bit of flag is set in t
func (t BxDFType) Has(flag BxDFType) bool {
	return t&flag != 0
}

// BxDF is a single scattering lobe expressed in the local shading frame,
// where the shading normal is +Z
type BxDF interface {
	Type() BxDFType
	F(wo, wi core.Vec3) core.Vec3
	// SampleF samples an incident direction. The returned type is the lobe
	// that was actually sampled, which only differs from Type() for
	// BxDFs that combine lobes.
	SampleF(wo core.Vec3, u core.Vec2) (f core.Vec3, wi core.Vec3, pdf float64, sampledType BxDFType)
	Pdf(wo, wi core.Vec3) float64
}

// Shading-frame trigonometry

func CosTheta(w core.Vec3) float64    { return w.Z }
func AbsCosTheta(w core.Vec3) float64 { return math.Abs(w.Z) }

// SameHemisphere reports whether w and wp lie on the same side of the surface
func SameHemisphere(w, wp core.Vec3) bool {
	return w.Z*wp.Z > 0
}

// Reflect mirrors wo about n
func Reflect(wo, n core.Vec3) core.Vec3 {
	return wo.Negate().Add(n.Multiply(2 * wo.Dot(n)))
}

// Refract bends wi through a surface with normal n (on the side of wi) and
// relative index eta = etaI/etaT. It reports false on total internal reflection.
func Refract(wi, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := n.Dot(wi)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	return wi.Negate().Multiply(eta).Add(n.Multiply(eta*cosThetaI - cosThetaT)), true
}

// cosineSampleF is the cosine-weighted sampling shared by diffuse lobes
func cosineSampleF(b BxDF, wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	wi := core.CosineSampleHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return b.F(wo, wi), wi, cosinePdf(wo, wi), b.Type()
}

func cosinePdf(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	return AbsCosTheta(wi) / math.Pi
}

// LambertianReflection scatters equally in all directions of the hemisphere
type LambertianReflection struct {
	R core.Vec3
}

func (l *LambertianReflection) Type() BxDFType { return BSDFReflection | BSDFDiffuse }

func (l *LambertianReflection) F(wo, wi core.Vec3) core.Vec3 {
	return l.R.Multiply(1 / math.Pi)
}

func (l *LambertianReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	return cosineSampleF(l, wo, u)
}

func (l *LambertianReflection) Pdf(wo, wi core.Vec3) float64 {
	return cosinePdf(wo, wi)
}

// SpecularReflection is a perfect mirror lobe weighted by a Fresnel term
type SpecularReflection struct {
	R       core.Vec3
	Fresnel Fresnel
}

func (s *SpecularReflection) Type() BxDFType { return BSDFReflection | BSDFSpecular }

// F is zero: a delta lobe is only reachable through SampleF
func (s *SpecularReflection) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (s *SpecularReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	cos := AbsCosTheta(wi)
	if cos == 0 {
		return core.Vec3{}, wi, 0, s.Type()
	}
	f := s.Fresnel.Evaluate(CosTheta(wi)).MultiplyVec(s.R).Multiply(1 / cos)
	return f, wi, 1, s.Type()
}

func (s *SpecularReflection) Pdf(wo, wi core.Vec3) float64 { return 0 }

// SpecularTransmission is a perfect refraction lobe between media with
// indices EtaA (outside, +Z) and EtaB (inside)
type SpecularTransmission struct {
	T          core.Vec3
	EtaA, EtaB float64
	Mode       TransportMode
	fresnel    FresnelDielectric
}

// NewSpecularTransmission creates a refraction lobe
func NewSpecularTransmission(t core.Vec3, etaA, etaB float64, mode TransportMode) *SpecularTransmission {
	return &SpecularTransmission{T: t, EtaA: etaA, EtaB: etaB, Mode: mode, fresnel: FresnelDielectric{EtaI: etaA, EtaT: etaB}}
}

func (s *SpecularTransmission) Type() BxDFType { return BSDFTransmission | BSDFSpecular }

func (s *SpecularTransmission) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (s *SpecularTransmission) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = etaT, etaI
	}

	wi, ok := Refract(wo, core.NewVec3(0, 0, 1).FaceForward(wo), etaI/etaT)
	if !ok {
		return core.Vec3{}, core.Vec3{}, 0, s.Type()
	}
	cos := AbsCosTheta(wi)
	if cos == 0 {
		return core.Vec3{}, wi, 0, s.Type()
	}

	ft := s.T.MultiplyVec(core.NewSpectrum(1).Subtract(s.fresnel.Evaluate(CosTheta(wi))))
	// Radiance is compressed entering a denser medium
	if s.Mode == Radiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return ft.Multiply(1 / cos), wi, 1, s.Type()
}

func (s *SpecularTransmission) Pdf(wo, wi core.Vec3) float64 { return 0 }

// FresnelSpecular combines specular reflection and transmission, choosing
// between them in proportion to the dielectric Fresnel reflectance
type FresnelSpecular struct {
	R, T       core.Vec3
	EtaA, EtaB float64
	Mode       TransportMode
}

func (s *FresnelSpecular) Type() BxDFType {
	return BSDFReflection | BSDFTransmission | BSDFSpecular
}

func (s *FresnelSpecular) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (s *FresnelSpecular) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	fr := FrDielectric(CosTheta(wo), s.EtaA, s.EtaB)
	if u.X < fr {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		cos := AbsCosTheta(wi)
		if cos == 0 {
			return core.Vec3{}, wi, 0, BSDFSpecular | BSDFReflection
		}
		return s.R.Multiply(fr / cos), wi, fr, BSDFSpecular | BSDFReflection
	}

	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = etaT, etaI
	}
	wi, ok := Refract(wo, core.NewVec3(0, 0, 1).FaceForward(wo), etaI/etaT)
	if !ok {
		return core.Vec3{}, core.Vec3{}, 0, BSDFSpecular | BSDFTransmission
	}
	cos := AbsCosTheta(wi)
	if cos == 0 {
		return core.Vec3{}, wi, 0, BSDFSpecular | BSDFTransmission
	}
	ft := s.T.Multiply(1 - fr)
	if s.Mode == Radiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return ft.Multiply(1 / cos), wi, 1 - fr, BSDFSpecular | BSDFTransmission
}

func (s *FresnelSpecular) Pdf(wo, wi core.Vec3) float64 { return 0 }

// ScaledBxDF multiplies another lobe by a spectrum
type ScaledBxDF struct {
	BxDF  BxDF
	Scale core.Vec3
}

func (s *ScaledBxDF) Type() BxDFType { return s.BxDF.Type() }

func (s *ScaledBxDF) F(wo, wi core.Vec3) core.Vec3 {
	return s.Scale.MultiplyVec(s.BxDF.F(wo, wi))
}

func (s *ScaledBxDF) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, BxDFType) {
	f, wi, pdf, sampledType := s.BxDF.SampleF(wo, u)
	return s.Scale.MultiplyVec(f), wi, pdf, sampledType
}

func (s *ScaledBxDF) Pdf(wo, wi core.Vec3) float64 {
	return s.BxDF.Pdf(wo, wi)
}
