package maze

import (
	"math"

	"golang.org/x/image/math/f64"
)

// quat is a unit quaternion holding the ball orientation.
type quat struct {
	w, x, y, z float64
}

func identityQuat() quat {
	return quat{w: 1}
}

// integrate rotates q by the world-frame angular velocity (wx, wy, wz) over dt.
func (q quat) integrate(wx, wy, wz, dt float64) quat {
	h := dt / 2
	r := quat{
		w: q.w - h*(wx*q.x+wy*q.y+wz*q.z),
		x: q.x + h*(wx*q.w+wy*q.z-wz*q.y),
		y: q.y + h*(wy*q.w+wz*q.x-wx*q.z),
		z: q.z + h*(wz*q.w+wx*q.y-wy*q.x),
	}
	return r.normalize()
}

func (q quat) normalize() quat {
	n := math.Sqrt(q.w*q.w + q.x*q.x + q.y*q.y + q.z*q.z)
	if n == 0 || math.IsNaN(n) {
		return identityQuat()
	}
	return quat{w: q.w / n, x: q.x / n, y: q.y / n, z: q.z / n}
}

// mat3 returns the row-major rotation matrix.
func (q quat) mat3() f64.Mat3 {
	xx, yy, zz := q.x*q.x, q.y*q.y, q.z*q.z
	xy, xz, yz := q.x*q.y, q.x*q.z, q.y*q.z
	wx, wy, wz := q.w*q.x, q.w*q.y, q.w*q.z
	return f64.Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
