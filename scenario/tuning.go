package scenario

import "math"

// SoftJoint converts a spring-damper description of a body of the given mass
// into joint softness and bias factor at step h:
//
//	ω = 2πf, d = 2mζω, k = mω², softness = 1/(d + hk), bias = hk/(d + hk)
func SoftJoint(mass, frequencyHz, dampingRatio, h float64) (softness, biasFactor float64) {
	omega := 2 * math.Pi * frequencyHz
	d := 2 * mass * dampingRatio * omega
	k := mass * omega * omega
	softness = 1 / (d + h*k)
	biasFactor = h * k / (d + h*k)
	return softness, biasFactor
}
