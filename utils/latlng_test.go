package utils

import (
	"testing"

	"github.com/raulcamp/good-deeds/models"
)

func deedsAt(coords ...[2]float64) []models.Deed {
	out := make([]models.Deed, len(coords))
	for i, c := range coords {
		out[i] = models.Deed{Latitude: c[0], Longitude: c[1]}
	}
	return out
}

func TestDeconflictLatLng_NoCollision(t *testing.T) {
	lat, lng := DeconflictLatLng(nil, 42.36, -71.09)
	if lat != 42.36 || lng != -71.09 {
		t.Fatalf("free coordinate moved: got (%v, %v)", lat, lng)
	}

	lat, lng = DeconflictLatLng(deedsAt([2]float64{10, 10}), 42.36, -71.09)
	if lat != 42.36 || lng != -71.09 {
		t.Fatalf("non-colliding coordinate moved: got (%v, %v)", lat, lng)
	}
}

func TestDeconflictLatLng_FirstCollisionBumpsLat(t *testing.T) {
	existing := deedsAt([2]float64{42.36, -71.09})
	lat, lng := DeconflictLatLng(existing, 42.36, -71.09)
	if lat != 42.36+0.0001 || lng != -71.09 {
		t.Fatalf("expected +lat nudge, got (%v, %v)", lat, lng)
	}
}

func TestDeconflictLatLng_StepOrder(t *testing.T) {
	base := [2]float64{40.0, -70.0}
	const o = 0.0001
	// occupy base plus the first three perturbations; the fourth (-lat)
	// should be chosen
	existing := deedsAt(
		base,
		[2]float64{base[0] + o, base[1]},
		[2]float64{base[0], base[1] + o},
		[2]float64{base[0] + o, base[1] + o},
	)
	lat, lng := DeconflictLatLng(existing, base[0], base[1])
	if lat != base[0]-o || lng != base[1] {
		t.Fatalf("expected -lat nudge, got (%v, %v)", lat, lng)
	}
}

func TestDeconflictLatLng_OffsetEscalates(t *testing.T) {
	base := [2]float64{40.0, -70.0}
	const o = 0.0001
	// occupy the base and the entire first cycle; the next candidate is
	// +2*offset on lat at the start of the second cycle
	existing := deedsAt(
		base,
		[2]float64{base[0] + o, base[1]},
		[2]float64{base[0], base[1] + o},
		[2]float64{base[0] + o, base[1] + o},
		[2]float64{base[0] - o, base[1]},
		[2]float64{base[0], base[1] - o},
		[2]float64{base[0] - o, base[1] - o},
	)
	lat, lng := DeconflictLatLng(existing, base[0], base[1])
	if lat != base[0]+2*o || lng != base[1] {
		t.Fatalf("expected second-cycle +lat nudge, got (%v, %v)", lat, lng)
	}
}

func TestDeconflictLatLng_Deterministic(t *testing.T) {
	existing := deedsAt([2]float64{40.0, -70.0}, [2]float64{40.0001, -70.0})
	lat1, lng1 := DeconflictLatLng(existing, 40.0, -70.0)
	lat2, lng2 := DeconflictLatLng(existing, 40.0, -70.0)
	if lat1 != lat2 || lng1 != lng2 {
		t.Fatalf("placement not deterministic: (%v,%v) vs (%v,%v)", lat1, lng1, lat2, lng2)
	}
}
