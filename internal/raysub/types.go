package raysub

type Real = float64

// Header is the fixed-layout header of a binary ray file.  Field order and
// widths match the on-disk little-endian layout exactly, so the struct can be
// (de)serialized in one shot with encoding/binary.
type Header struct {
	Identifier     int32
	NumRays        int32
	Description    [descriptionLen]byte
	SourceFlux     float32
	RaySetFlux     float32
	Wavelength     float32
	AzimuthBeg     float32
	AzimuthEnd     float32
	PolarBeg       float32
	PolarEnd       float32
	DimensionUnits int32
	Location       [3]float32
	Rotation       [3]float32
	Scale          [3]float32
	Unused         [4]float32
	RayFormatType  int32
	FluxType       int32
	Reserved1      int32
	Reserved2      int32
}

// Ray format types.
const (
	RayFormatGeneric  = 0 // x y z l m n flux
	RayFormatSpectral = 2 // x y z l m n flux wavelength
)

// Flux types. Spectral flux is only legal with RayFormatGeneric.
const (
	FluxMonochrome = 0
	FluxSpectral   = 1
)

// RayRecord is one simulated ray: position, direction cosines, radiant flux
// and (for spectral files) a per-ray wavelength.  Directions are stored as
// read; normalization happens locally where it is needed.
type RayRecord struct {
	X, Y, Z    Real
	L, M, N    Real
	Flux       Real
	Wavelength Real // meaningful only for 8-field records
}

// Dir returns the ray's direction as a vector.
func (rr RayRecord) Dir() Vec3 { return Vec3{rr.L, rr.M, rr.N} }
