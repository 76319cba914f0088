// Package model 定义路线求解引擎的核心数据模型
package model

// DefaultServiceTime 默认服务时长（分钟）
const DefaultServiceTime = 10

// Stop 配送站点
// 索引0固定为仓库（depot），仓库需求为零且无时间窗口
type Stop struct {
	ID          string      `json:"id"`
	Location    Location    `json:"location"`
	Demand      int64       `json:"demand"`                 // 需求量（车辆容量单位）
	TimeWindow  *TimeWindow `json:"time_window,omitempty"`  // 可选时间窗口
	ServiceTime int64       `json:"service_time"`           // 服务时长（分钟）
	Mandatory   bool        `json:"mandatory,omitempty"`    // 必访站点不允许被放弃
}

// IsDepot 检查是否为仓库站点
func (s *Stop) IsDepot(index int) bool {
	return index == 0
}

// HasTimeWindow 检查站点是否声明了时间窗口
func (s *Stop) HasTimeWindow() bool {
	return s.TimeWindow != nil
}

// Vehicle 配送车辆
type Vehicle struct {
	ID          string `json:"id"`
	Capacity    int64  `json:"capacity"`               // 容量（非负整数）
	StartIndex  int    `json:"start_index"`            // 出发站点索引（通常为仓库0）
	EndIndex    int    `json:"end_index"`              // 返回站点索引（通常为仓库0）
	MaxDistance int64  `json:"max_distance,omitempty"` // 可选最大行驶距离（米）
	MaxTime     int64  `json:"max_time,omitempty"`     // 可选最大行驶时间（分钟）
}
