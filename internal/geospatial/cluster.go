package geospatial

import (
	"math"

	"wardrivecli/pkg/contracts/domain"
)

const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance between two points.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const deg = math.Pi / 180
	dLat := (lat2 - lat1) * deg
	dLon := (lon2 - lon1) * deg
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*deg)*math.Cos(lat2*deg)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

type protoCluster struct {
	sumLat, sumLon float64
	members        []domain.Observation
}

func (c *protoCluster) centroid() (float64, float64) {
	n := float64(len(c.members))
	return c.sumLat / n, c.sumLon / n
}

func (c *protoCluster) add(obs domain.Observation) {
	c.sumLat += *obs.Latitude
	c.sumLon += *obs.Longitude
	c.members = append(c.members, obs)
}

// cluster merges APs closer than the configured distance into physical
// sites. Greedy first-fit in dataset order: each point joins the first
// cluster whose current centroid lies within the threshold, shifting
// that centroid toward it. Deterministic for a given dataset order.
func (a *Analyzer) cluster(points []domain.Observation) []Cluster {
	var protos []*protoCluster
	for _, p := range points {
		placed := false
		for _, pc := range protos {
			lat, lon := pc.centroid()
			if haversineMeters(lat, lon, *p.Latitude, *p.Longitude) <= a.cfg.ClusterDistanceMeters {
				pc.add(p)
				placed = true
				break
			}
		}
		if !placed {
			pc := &protoCluster{}
			pc.add(p)
			protos = append(protos, pc)
		}
	}

	clusters := make([]Cluster, 0, len(protos))
	for _, pc := range protos {
		lat, lon := pc.centroid()
		c := Cluster{
			CentroidLat:        lat,
			CentroidLon:        lon,
			MemberCount:        len(pc.members),
			DominantEncryption: dominantEncryption(pc.members),
			BSSIDs:             make([]string, 0, len(pc.members)),
		}
		for _, m := range pc.members {
			c.BSSIDs = append(c.BSSIDs, m.BSSID)
		}
		clusters = append(clusters, c)
	}
	return clusters
}

// encryptionPrecedence breaks ties when two categories share the top
// count in a cluster: the weaker one wins, surfacing the exposure.
var encryptionPrecedence = []domain.Encryption{
	domain.EncryptionOpen,
	domain.EncryptionWEP,
	domain.EncryptionWPA,
	domain.EncryptionWPA2,
	domain.EncryptionWPA3,
	domain.EncryptionUnknown,
}

func dominantEncryption(members []domain.Observation) domain.Encryption {
	counts := make(map[domain.Encryption]int, len(members))
	for _, m := range members {
		counts[m.Encryption]++
	}
	best := domain.EncryptionUnknown
	bestCount := -1
	for _, enc := range encryptionPrecedence {
		if counts[enc] > bestCount {
			best = enc
			bestCount = counts[enc]
		}
	}
	return best
}
