package utils

import "github.com/raulcamp/good-deeds/models"

// coordStep is the offset magnitude added per deconfliction cycle.
const coordStep = 0.0001

// DeconflictLatLng nudges a candidate map coordinate until it no longer
// exactly equals any existing deed's coordinates. Candidates are tried in
// a fixed six-step cycle of perturbations of the original point: +lat,
// +lng, both positive, -lat, -lng, both negative. When a full cycle
// collides the offset grows by another 0.0001 and the cycle restarts from
// the original point. Deterministic, so repeated placements at the same
// spot always land in the same order.
func DeconflictLatLng(deeds []models.Deed, lat, lng float64) (float64, float64) {
	offset := coordStep
	newLat, newLng := lat, lng
	step := 1
	for coordTaken(deeds, newLat, newLng) {
		switch step {
		case 1:
			newLat, newLng = lat+offset, lng
			step++
		case 2:
			newLat, newLng = lat, lng+offset
			step++
		case 3:
			newLat, newLng = lat+offset, lng+offset
			step++
		case 4:
			newLat, newLng = lat-offset, lng
			step++
		case 5:
			newLat, newLng = lat, lng-offset
			step++
		case 6:
			newLat, newLng = lat-offset, lng-offset
			offset += coordStep
			step = 1
		}
	}
	return newLat, newLng
}

func coordTaken(deeds []models.Deed, lat, lng float64) bool {
	for i := range deeds {
		if deeds[i].Latitude == lat && deeds[i].Longitude == lng {
			return true
		}
	}
	return false
}
