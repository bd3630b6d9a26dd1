// Package geo ranks schools by great-circle distance from a query point.
//
// Everything here is pure: no I/O, no shared state. Rank is evaluated over
// the full record set on every call; there is no spatial index.
package geo

import (
	"math"
	"sort"

	"github.com/aanand-mishra/schools-api/internal/types"
)

// EarthRadiusKm is the mean Earth radius used for every distance.
const EarthRadiusKm = 6371.0

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance in kilometres between
// (lat1, lon1) and (lat2, lon2), given in degrees, using the spherical law
// of cosines.
//
// The acos argument is clamped to [-1, 1]: for identical points rounding
// can push it just past 1, which would otherwise yield NaN. Coinciding
// points are exactly 0 apart.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	phi1, phi2 := radians(lat1), radians(lat2)
	dLambda := radians(lon2) - radians(lon1)

	c := math.Cos(phi1)*math.Cos(phi2)*math.Cos(dLambda) +
		math.Sin(phi1)*math.Sin(phi2)

	return EarthRadiusKm * math.Acos(clamp(c, -1, 1))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Rank annotates every school with its distance from point and returns
// them nearest first.
//
// The sort is stable, so schools at equal distance keep the order they had
// in the input (the store's order). The same inputs always produce the
// same output.
func Rank(point types.QueryPoint, schools []types.School) []types.NearbySchool {
	ranked := make([]types.NearbySchool, 0, len(schools))

	for _, s := range schools {
		ranked = append(ranked, types.NearbySchool{
			ID:        s.ID,
			Name:      s.Name,
			Address:   s.Address,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			DistanceKm: types.Distance(
				Distance(point.Latitude, point.Longitude, s.Latitude, s.Longitude),
			),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	return ranked
}
