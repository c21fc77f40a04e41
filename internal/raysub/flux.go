package raysub

// FluxScale returns the factor that keeps aggregate flux constant when a set
// of originalCount rays is reduced to targetCount.
func FluxScale(originalCount, targetCount int) Real {
	return Real(originalCount) / Real(targetCount)
}

// SanitizeFlux replaces a non-finite or non-positive flux with floor.
// Downstream optical tools reject zero or NaN flux, so flooring beats
// dropping the ray.
func SanitizeFlux(flux, floor Real) Real {
	if !isFinite(flux) || flux <= 0 {
		return floor
	}
	return flux
}
