package integrators

import (
	"math"
	"math/cmplx"

	"github.com/okrogh/thglab/internal/dynamo"
)

// Bogacki-Shampine coefficients (RK23)
var (
	a2 = 1.0 / 2.0
	a3 = 3.0 / 4.0

	b21 = 1.0 / 2.0
	b32 = 3.0 / 4.0

	c1 = 2.0 / 9.0
	c2 = 1.0 / 3.0
	c3 = 4.0 / 9.0

	// third-order solution minus the embedded second-order one
	e1 = c1 - 7.0/24.0
	e2 = c2 - 1.0/4.0
	e3 = c3 - 1.0/3.0
	e4 = -1.0 / 8.0
)

// RK23 is an explicit adaptive Runge-Kutta 2(3) pair with an embedded
// error estimate. Rejected steps are retried with a smaller size.
type RK23 struct {
	safety     float64
	minScale   float64
	maxScale   float64
	maxRetries int
}

func NewRK23() *RK23 {
	return &RK23{
		safety:     0.9,
		minScale:   0.2,
		maxScale:   10.0,
		maxRetries: 30,
	}
}

func (r *RK23) Step(dyn dynamo.System, x dynamo.State, z, dz float64) dynamo.State {
	newX, _, _, _ := r.StepAdaptive(dyn, x, z, dz, 1e-6)
	return newX
}

func (r *RK23) trial(dyn dynamo.System, x dynamo.State, z, dz float64) (dynamo.State, float64) {
	n := len(x)
	h := complex(dz, 0)

	k1 := dyn.Derive(x, z)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + h*complex(b21, 0)*k1[i]
	}
	k2 := dyn.Derive(x2, z+a2*dz)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + h*complex(b32, 0)*k2[i]
	}
	k3 := dyn.Derive(x3, z+a3*dz)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + h*(complex(c1, 0)*k1[i]+complex(c2, 0)*k2[i]+complex(c3, 0)*k3[i])
	}

	// FSAL stage, used only for the error estimate here
	k4 := dyn.Derive(xNew, z+dz)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dz * cmplx.Abs(complex(e1, 0)*k1[i]+complex(e2, 0)*k2[i]+complex(e3, 0)*k3[i]+complex(e4, 0)*k4[i])
		scale := cmplx.Abs(x[i]) + dz*cmplx.Abs(k1[i]) + 1e-10
		errMax = math.Max(errMax, errEst/scale)
	}

	return xNew, errMax
}

func (r *RK23) StepAdaptive(dyn dynamo.System, x dynamo.State, z, dz, tol float64) (dynamo.State, float64, float64, error) {
	for attempt := 0; ; attempt++ {
		xNew, errMax := r.trial(dyn, x, z, dz)
		errRatio := errMax / tol

		if errRatio <= 1 {
			var dzNew float64
			if errRatio > 0 {
				scale := math.Min(r.maxScale, r.safety*math.Pow(errRatio, -1.0/3.0))
				dzNew = dz * scale
			} else {
				dzNew = dz * r.maxScale
			}
			return xNew, dz, dzNew, nil
		}

		if attempt >= r.maxRetries {
			return xNew, dz, dz, dynamo.ErrStepTooSmall
		}

		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -1.0/2.0))
		dz *= scale
	}
}
