package geospatial

import (
	"wardrivecli/pkg/contracts/domain"
)

// BoundingBox is the geographic extent spanned by the georeferenced
// records, in decimal degrees.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Cell is one occupied grid cell. Empty cells are omitted from the
// surface; a renderer reconstructs them from Rows, Cols and Bounds.
type Cell struct {
	Row     int         `json:"row"`
	Col     int         `json:"col"`
	Bounds  BoundingBox `json:"bounds"`
	APCount int         `json:"ap_count"`
	// Density is APCount normalized by the densest cell, 0..1.
	Density float64 `json:"density"`
}

// Cluster is a group of APs merged by proximity, approximating one
// physical site.
type Cluster struct {
	CentroidLat        float64           `json:"centroid_lat"`
	CentroidLon        float64           `json:"centroid_lon"`
	MemberCount        int               `json:"member_count"`
	DominantEncryption domain.Encryption `json:"dominant_encryption"`
	BSSIDs             []string          `json:"bssids"`
}

// Surface is the geospatial engine's output: an occupancy grid plus the
// proximity clusters, as plain structured data for a heatmap renderer.
type Surface struct {
	Bounds        BoundingBox `json:"bounds"`
	Rows          int         `json:"rows"`
	Cols          int         `json:"cols"`
	Cells         []Cell      `json:"cells"`
	Clusters      []Cluster   `json:"clusters"`
	Georeferenced int         `json:"georeferenced"`
	MaxCellCount  int         `json:"max_cell_count"`
}
