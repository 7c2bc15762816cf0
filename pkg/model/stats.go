package model

// CacheStats describes the fill state of a cache for the UI collaborator.
type CacheStats struct {
	Size        int     `json:"size"`
	MaxSize     int     `json:"maxSize"`
	Utilization float64 `json:"utilization"`
}

// StoreStats describes the content of a store for the UI collaborator.
type StoreStats struct {
	TotalVehicles int `json:"totalVehicles"`
	TotalLaps     int `json:"totalLaps"`
	TotalFrames   int `json:"totalFrames"`
}
