// Package model 定义路线求解引擎的核心数据模型
package model

import (
	"math"
)

// Location 地理位置
type Location struct {
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	District  string  `json:"district,omitempty"`
}

// Distance 计算两个位置之间的距离（公里）
// 使用 Haversine 公式
func (l Location) Distance(other Location) float64 {
	const earthRadius = 6371.0 // 地球半径（公里）

	lat1Rad := l.Latitude * math.Pi / 180
	lat2Rad := other.Latitude * math.Pi / 180
	deltaLat := (other.Latitude - l.Latitude) * math.Pi / 180
	deltaLon := (other.Longitude - l.Longitude) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// DistanceMeters 计算两个位置之间的距离（米，四舍五入为整数）
// 全程使用整数成本，保证维度累加精确、避免浮点漂移
func (l Location) DistanceMeters(other Location) int64 {
	return int64(math.Round(l.Distance(other) * 1000))
}

// TimeWindow 时间窗口（距共享起始时刻的分钟数）
type TimeWindow struct {
	Earliest int64 `json:"earliest"`
	Latest   int64 `json:"latest"`
}

// Valid 检查时间窗口是否合法
func (tw TimeWindow) Valid() bool {
	return tw.Earliest >= 0 && tw.Earliest <= tw.Latest
}
