package common

import (
	"math"
	"unsafe"
)

// Vec3 is a three component float32 vector used for positions, directions and colors.
type Vec3 [3]float32

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v multiplied component-wise by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Len returns the euclidean length of v.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Identity resets a column-major 4x4 matrix to identity.
//
// Parameters:
//   - m: destination slice (must hold at least 16 elements)
func Identity(m []float32) {
	clear(m[:16])
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 stores a*b in out. Every matrix is column-major, and out may alias a or b.
//
// Parameters:
//   - out: destination slice (must hold at least 16 elements)
//   - a: left operand
//   - b: right operand
func Mul4(out, a, b []float32) {
	var r [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var acc float32
			for k := 0; k < 4; k++ {
				acc += a[k*4+row] * b[col*4+k]
			}
			r[col*4+row] = acc
		}
	}
	copy(out, r[:])
}

// Perspective writes a right-handed perspective projection that maps depth into the WebGPU [0, 1] clip range.
//
// Parameters:
//   - out: destination slice (must hold at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: width divided by height
//   - near: near plane distance, greater than zero
//   - far: far plane distance, greater than near
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := float32(1 / math.Tan(float64(fovY)/2))
	clear(out[:16])
	depth := near - far
	out[0] = f / aspect
	out[5] = f
	out[10] = far / depth
	out[11] = -1
	out[14] = near * far / depth
}

// LookAt writes a view matrix for an eye at eye looking toward center.
// Degenerate inputs (eye == center, or up parallel to the view direction) fall back to unnormalized axes
// instead of producing NaN.
//
// Parameters:
//   - out: destination slice (must hold at least 16 elements)
//   - eye: camera position
//   - center: point the camera faces
//   - up: world up direction
func LookAt(out []float32, eye, center, up Vec3) {
	back := eye.Sub(center).Normalize()
	right := up.Cross(back).Normalize()
	upv := back.Cross(right)

	out[0], out[4], out[8], out[12] = right[0], right[1], right[2], -right.Dot(eye)
	out[1], out[5], out[9], out[13] = upv[0], upv[1], upv[2], -upv.Dot(eye)
	out[2], out[6], out[10], out[14] = back[0], back[1], back[2], -back.Dot(eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// TransformPoint multiplies the column-major matrix m with the point p (w = 1) and returns xyz and w.
func TransformPoint(m []float32, p Vec3) (Vec3, float32) {
	var r [4]float32
	for row := 0; row < 4; row++ {
		r[row] = m[row]*p[0] + m[4+row]*p[1] + m[8+row]*p[2] + m[12+row]
	}
	return Vec3{r[0], r[1], r[2]}, r[3]
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// SliceToBytes reinterprets a slice as raw bytes for buffer uploads.
// The result aliases the input; treat it as read-only.
//
// Parameters:
//   - data: source slice
//
// Returns:
//   - []byte: byte view over data, or nil when data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	n := int(unsafe.Sizeof(zero)) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), n)
}
