package layout

// Conversion constants between pt and mm. The engine is mm-based; pt only
// appears at the backend boundary (font faces) and in style constants.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PtMM converts a point value to millimeters.
func PtMM(pt float64) float64 { return pt * PtToMm }

// MmPT converts a millimeter value to points.
func MmPT(mm float64) float64 { return mm * MmToPt }
