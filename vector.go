package cellspace

import (
	"math"

	"github.com/phanxgames/cellspace/frac"
)

// Vector is a 2D vector in fracunits that caches its polar form.
//
// Every mutation keeps all fields consistent: Length is sqrt(X²+Y²), Angle
// is in degrees in [0, 360), measured counter-clockwise as seen on screen,
// and AngleX/AngleY are cos(Angle) and -sin(Angle) (Y grows downward). The
// zero vector has angle 0 with AngleX 1 and AngleY 0.
//
// Mutators use pointer receivers and return the vector for chaining:
//
//	v := cellspace.NewVector(frac.FromInt(3), frac.FromInt(4))
//	v.SetLength(frac.FromInt(10)).ChangeAngle(90)
type Vector struct {
	x, y           int64
	lengthSquared  int64
	length         int64
	angle          float64
	angleX, angleY float64
}

// NewVector creates a vector from fracunit coordinates.
func NewVector(x, y int64) Vector {
	var v Vector
	v.SetCoordinates(x, y)
	return v
}

// NewVectorAngle creates a unit-length vector pointing at angle degrees.
func NewVectorAngle(angle float64) Vector {
	v := Vector{length: frac.Unit, lengthSquared: frac.Unit}
	v.SetAngle(angle)
	return v
}

// Clear resets v to the zero vector.
func (v *Vector) Clear() *Vector {
	*v = Vector{angleX: 1}
	return v
}

func (v Vector) X() int64               { return v.x }
func (v Vector) Y() int64               { return v.y }
func (v Vector) LengthSquared() int64   { return v.lengthSquared }
func (v Vector) Length() int64          { return v.length }
func (v Vector) Angle() float64         { return v.angle }
func (v Vector) AngleX() float64        { return v.angleX }
func (v Vector) AngleY() float64        { return v.angleY }
func (v Vector) IsZero() bool           { return v.x == 0 && v.y == 0 }
func (v Vector) Coords() (int64, int64) { return v.x, v.y }

func (v *Vector) SetX(x int64) *Vector {
	v.x = x
	return v.updateFromCoordinates()
}

func (v *Vector) SetY(y int64) *Vector {
	v.y = y
	return v.updateFromCoordinates()
}

func (v *Vector) SetCoordinates(x, y int64) *Vector {
	v.x = x
	v.y = y
	return v.updateFromCoordinates()
}

func (v *Vector) updateFromCoordinates() *Vector {
	if v.x == 0 && v.y == 0 {
		return v.Clear()
	}
	v.length = frac.Hypot(v.x, v.y)
	v.lengthSquared = addSat(frac.Mul(v.x, v.x), frac.Mul(v.y, v.y))
	radians := math.Atan2(-float64(v.y), float64(v.x))
	v.angle = normalizeAngle(radians * 180 / math.Pi)
	v.angleX = math.Cos(radians)
	v.angleY = -math.Sin(radians)
	return v
}

// --- Flips ---

// Flip mirrors v across the vertical axis when xFlip is set and across the
// horizontal axis when yFlip is set.
func (v *Vector) Flip(xFlip, yFlip bool) *Vector {
	if xFlip {
		v.x = -v.x
		v.angle = normalizeAngle(180 - v.angle)
		v.angleX = -v.angleX
	}
	if yFlip {
		v.y = -v.y
		v.angle = normalizeAngle(360 - v.angle)
		v.angleY = -v.angleY
	}
	return v
}

func (v *Vector) FlipX() *Vector    { return v.Flip(true, false) }
func (v *Vector) FlipY() *Vector    { return v.Flip(false, true) }
func (v *Vector) FlipBoth() *Vector { return v.Flip(true, true) }

// --- Polar mutators ---

// SetLength rescales v to the given length, keeping its angle. A negative
// length flips v and uses the absolute value.
func (v *Vector) SetLength(length int64) *Vector {
	if length < 0 {
		v.FlipBoth()
		length = -length
	}
	v.x = frac.MulFloat(length, v.angleX)
	v.y = frac.MulFloat(length, v.angleY)
	v.length = length
	v.lengthSquared = frac.Mul(length, length)
	return v
}

// Scale multiplies v's length by a fracunit factor.
func (v *Vector) Scale(factor int64) *Vector {
	return v.SetLength(frac.Mul(v.length, factor))
}

// SetAngle points v at angle degrees, keeping its length.
func (v *Vector) SetAngle(angle float64) *Vector {
	v.angle = normalizeAngle(angle)
	radians := v.angle * math.Pi / 180
	v.angleX = math.Cos(radians)
	v.angleY = -math.Sin(radians)
	v.x = frac.MulFloat(v.length, v.angleX)
	v.y = frac.MulFloat(v.length, v.angleY)
	return v
}

// ChangeAngle rotates v counter-clockwise by delta degrees. A zero delta
// leaves the coordinates untouched.
func (v *Vector) ChangeAngle(delta float64) *Vector {
	if normalizeAngle(delta) == 0 {
		return v
	}
	return v.SetAngle(v.angle + delta)
}

// --- Arithmetic ---

func (v *Vector) Add(o Vector) *Vector { return v.SetCoordinates(v.x+o.x, v.y+o.y) }
func (v *Vector) Sub(o Vector) *Vector { return v.SetCoordinates(v.x-o.x, v.y-o.y) }

func (v *Vector) AddXY(x, y int64) *Vector { return v.SetCoordinates(v.x+x, v.y+y) }
func (v *Vector) SubXY(x, y int64) *Vector { return v.SetCoordinates(v.x-x, v.y-y) }

// Dot returns the fracunit dot product of v and o.
func (v Vector) Dot(o Vector) int64 { return Dot(v, o) }

// AddVectors returns a + b as a new vector.
func AddVectors(a, b Vector) Vector { return NewVector(a.x+b.x, a.y+b.y) }

// SubVectors returns a - b as a new vector.
func SubVectors(a, b Vector) Vector { return NewVector(a.x-b.x, a.y-b.y) }

// Dot returns the fracunit dot product of a and b.
func Dot(a, b Vector) int64 { return addSat(frac.Mul(a.x, b.x), frac.Mul(a.y, b.y)) }

// RelativeTo converts v from the local space of a frame into world space:
// it flips by the frame's flips, then rotates by the frame's angle.
func (v *Vector) RelativeTo(f Frame) *Vector {
	return v.Flip(f.XFlip, f.YFlip).ChangeAngle(f.Angle)
}

// normalizeAngle maps degrees into [0, 360). NaN and infinities map to 0.
func normalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	if angle >= 360 || angle == 0 {
		// -0 and values that round up to 360 after the addition
		return 0
	}
	return angle
}

func addSat(a, b int64) int64 {
	s := a + b
	if a > 0 && b > 0 && s < 0 {
		return math.MaxInt64
	}
	if a < 0 && b < 0 && s >= 0 {
		return math.MinInt64
	}
	return s
}
