// Package problem 提供不可变的路线问题实例
package problem

import (
	"fmt"

	"github.com/luxian/luxian/pkg/errors"
	"github.com/luxian/luxian/pkg/model"
	"github.com/luxian/luxian/pkg/routing/matrix"
)

// 求解默认常量
const (
	// DefaultDropPenalty 放弃站点的默认惩罚（远大于典型弧成本）
	DefaultDropPenalty int64 = 100000
	// DefaultMaxDistance 单车最大行驶距离默认上限（米）
	DefaultMaxDistance int64 = 100000
	// DefaultWaitSlack 允许的最大等待时间（分钟）
	DefaultWaitSlack int64 = 30
	// DefaultHorizon 时间维度上限（分钟，8小时）
	DefaultHorizon int64 = 480
)

// Options 问题构建选项
type Options struct {
	UseCapacity    bool  // 启用容量维度
	UseTimeWindows bool  // 启用时间维度
	DropPenalty    int64 // 放弃站点惩罚
	MaxDistance    int64 // 未单独设置车辆上限时的距离上限
	WaitSlack      int64 // 每站允许的最大等待时间（分钟）
	Horizon        int64 // 时间维度上限（分钟）
}

// DefaultOptions 返回默认选项
func DefaultOptions() Options {
	return Options{
		UseCapacity:    true,
		UseTimeWindows: true,
		DropPenalty:    DefaultDropPenalty,
		MaxDistance:    DefaultMaxDistance,
		WaitSlack:      DefaultWaitSlack,
		Horizon:        DefaultHorizon,
	}
}

// Problem 路线问题实例
// 构建后不可变，可被多个求解并发只读访问
type Problem struct {
	stops    []model.Stop
	vehicles []model.Vehicle
	dist     [][]int64 // 距离矩阵（米）
	travel   [][]int64 // 行驶时间矩阵（分钟），时间维度关闭时为nil
	opts     Options
}

// New 构建并校验问题实例
// 返回发现的首个违规项对应的 InvalidInstance 错误
func New(stops []model.Stop, vehicles []model.Vehicle, dist, travel [][]int64, opts Options) (*Problem, error) {
	if len(stops) < 2 {
		return nil, errors.InvalidInstance("stops", "至少需要2个站点（仓库+1个配送点）")
	}
	if len(vehicles) < 1 {
		return nil, errors.InvalidInstance("vehicles", "至少需要1辆车")
	}
	if opts.DropPenalty <= 0 {
		opts.DropPenalty = DefaultDropPenalty
	}
	if opts.MaxDistance <= 0 {
		opts.MaxDistance = DefaultMaxDistance
	}
	if opts.WaitSlack < 0 {
		opts.WaitSlack = DefaultWaitSlack
	}
	if opts.Horizon <= 0 {
		opts.Horizon = DefaultHorizon
	}

	// 仓库约定：索引0，需求为零，无时间窗口
	if stops[0].Demand != 0 {
		return nil, errors.InvalidInstance("stops[0].demand", "仓库需求必须为零")
	}
	if stops[0].HasTimeWindow() {
		return nil, errors.InvalidInstance("stops[0].time_window", "仓库不允许声明时间窗口")
	}

	for i, s := range stops {
		if s.Demand < 0 {
			return nil, errors.InvalidInstance(
				fmt.Sprintf("stops[%d].demand", i), "需求不允许为负")
		}
		if s.ServiceTime < 0 {
			return nil, errors.InvalidInstance(
				fmt.Sprintf("stops[%d].service_time", i), "服务时长不允许为负")
		}
		if s.HasTimeWindow() && !s.TimeWindow.Valid() {
			return nil, errors.InvalidInstance(
				fmt.Sprintf("stops[%d].time_window", i), "时间窗口起点必须不晚于终点且非负")
		}
	}

	for i, v := range vehicles {
		if v.Capacity < 0 {
			return nil, errors.InvalidInstance(
				fmt.Sprintf("vehicles[%d].capacity", i), "容量不允许为负")
		}
		if v.StartIndex < 0 || v.StartIndex >= len(stops) {
			return nil, errors.InvalidInstance(
				fmt.Sprintf("vehicles[%d].start_index", i), "出发站点不存在")
		}
		if v.EndIndex < 0 || v.EndIndex >= len(stops) {
			return nil, errors.InvalidInstance(
				fmt.Sprintf("vehicles[%d].end_index", i), "返回站点不存在")
		}
		if v.MaxDistance < 0 {
			return nil, errors.InvalidInstance(
				fmt.Sprintf("vehicles[%d].max_distance", i), "最大行驶距离不允许为负")
		}
	}

	if err := matrix.Validate(dist, len(stops)); err != nil {
		return nil, err
	}
	if opts.UseTimeWindows {
		if travel == nil {
			return nil, errors.InvalidInstance("time_matrix", "启用时间窗口时必须提供行驶时间矩阵")
		}
		if err := matrix.Validate(travel, len(stops)); err != nil {
			return nil, err
		}
	} else {
		travel = nil
	}

	return &Problem{
		stops:    stops,
		vehicles: vehicles,
		dist:     dist,
		travel:   travel,
		opts:     opts,
	}, nil
}

// NumStops 返回站点数量（含仓库）
func (p *Problem) NumStops() int {
	return len(p.stops)
}

// NumVehicles 返回车辆数量
func (p *Problem) NumVehicles() int {
	return len(p.vehicles)
}

// Stop 返回指定索引的站点
func (p *Problem) Stop(i int) *model.Stop {
	return &p.stops[i]
}

// Vehicle 返回指定索引的车辆
func (p *Problem) Vehicle(i int) *model.Vehicle {
	return &p.vehicles[i]
}

// Dist 返回两站点间距离成本（米）
func (p *Problem) Dist(i, j int) int64 {
	return p.dist[i][j]
}

// Travel 返回两站点间行驶时间（分钟）
// 时间维度关闭时返回0
func (p *Problem) Travel(i, j int) int64 {
	if p.travel == nil {
		return 0
	}
	return p.travel[i][j]
}

// UseCapacity 容量维度是否启用
func (p *Problem) UseCapacity() bool {
	return p.opts.UseCapacity
}

// UseTimeWindows 时间维度是否启用
func (p *Problem) UseTimeWindows() bool {
	return p.opts.UseTimeWindows && p.travel != nil
}

// DropPenalty 返回放弃站点的惩罚
func (p *Problem) DropPenalty() int64 {
	return p.opts.DropPenalty
}

// WaitSlack 返回每站允许的最大等待时间（分钟）
func (p *Problem) WaitSlack() int64 {
	return p.opts.WaitSlack
}

// Horizon 返回时间维度上限（分钟）
func (p *Problem) Horizon() int64 {
	return p.opts.Horizon
}

// VehicleMaxDistance 返回车辆的距离上限
// 未单独设置时使用问题级默认上限，防止失控路线挤占其他约束
func (p *Problem) VehicleMaxDistance(v int) int64 {
	if p.vehicles[v].MaxDistance > 0 {
		return p.vehicles[v].MaxDistance
	}
	return p.opts.MaxDistance
}

// Droppable 检查站点是否允许被放弃
// 仓库不参与析取；必访站点不允许被放弃
func (p *Problem) Droppable(i int) bool {
	if i == 0 {
		return false
	}
	return !p.stops[i].Mandatory
}

// MaxArcCost 返回距离矩阵中的最大弧成本
func (p *Problem) MaxArcCost() int64 {
	var max int64
	for i := range p.dist {
		for j := range p.dist[i] {
			if p.dist[i][j] > max {
				max = p.dist[i][j]
			}
		}
	}
	return max
}
