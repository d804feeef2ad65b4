package correlations

import (
	"fmt"
	"math"

	"github.com/notargets/gopipe/utils"
)

// TaperedPressureDrop is the loss across a reducer or expander: friction on
// the mean diameter plus a local loss. Tapers steeper than the threshold
// angle are treated as abrupt.
func TaperedPressureDrop(flowRate, inletDiameter, outletDiameter, length, density, viscosity,
	relativeRoughness, angleThresholdDeg float64) (dp float64, err error) {
	if inletDiameter <= 0 || outletDiameter <= 0 || length <= 0 {
		err = fmt.Errorf("%w: taper %g m to %g m over %g m",
			ErrInvalidGeometry, inletDiameter, outletDiameter, length)
		return
	}
	var (
		Ain     = math.Pi * inletDiameter * inletDiameter / 4
		Aout    = math.Pi * outletDiameter * outletDiameter / 4
		vIn     = flowRate / Ain
		vOut    = flowRate / Aout
		vAvg    = (vIn + vOut) / 2
		dAvg    = (inletDiameter + outletDiameter) / 2
		Re      = ReynoldsNumber(flowRate, dAvg, density, viscosity)
		f       = FrictionFactor(Re, relativeRoughness)
		theta   = math.Atan(math.Abs(outletDiameter-inletDiameter) / (2 * length))
		gradual = theta <= angleThresholdDeg*math.Pi/180
		K       float64
	)
	dp = f * (length / dAvg) * 0.5 * density * utils.POW(vAvg, 2)
	if outletDiameter > inletDiameter {
		K = utils.POW(1-Ain/Aout, 2)
		if gradual && theta > 0 {
			K *= math.Sin(theta) / theta
		}
		dp += K * 0.5 * density * utils.POW(vOut, 2)
		return
	}
	if gradual {
		K = 0.1
	} else {
		K = 0.5 * math.Pow(1-Aout/Ain, 0.75)
	}
	dp += K * 0.5 * density * utils.POW(vIn, 2)
	return
}
