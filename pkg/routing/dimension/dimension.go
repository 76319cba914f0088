// Package dimension 提供路线资源维度的累计计算与可行性判定
package dimension

import (
	"github.com/luxian/luxian/pkg/routing/problem"
)

// RouteState 路线的累计资源状态
// 由站点序列和矩阵推导，路线变更后必须重新计算，不单独持久化
type RouteState struct {
	Load     []int64 // 每个位置访问后的累计载重
	Distance []int64 // 每个位置的累计行驶距离（米）
	Time     []int64 // 每个位置服务完成时的累计时间（分钟）
	Wait     []int64 // 每个位置的等待时间（分钟）
}

// TotalLoad 返回路线总载重
func (s *RouteState) TotalLoad() int64 {
	if len(s.Load) == 0 {
		return 0
	}
	return s.Load[len(s.Load)-1]
}

// TotalDistance 返回路线总距离
func (s *RouteState) TotalDistance() int64 {
	if len(s.Distance) == 0 {
		return 0
	}
	return s.Distance[len(s.Distance)-1]
}

// TotalTime 返回路线总耗时
func (s *RouteState) TotalTime() int64 {
	if len(s.Time) == 0 {
		return 0
	}
	return s.Time[len(s.Time)-1]
}

// Calculator 资源维度计算器
// 对问题实例只读，可被多个求解并发使用
type Calculator struct {
	p *problem.Problem
}

// NewCalculator 创建资源维度计算器
func NewCalculator(p *problem.Problem) *Calculator {
	return &Calculator{p: p}
}

// Compute 计算路线的完整资源状态并判定可行性
// 路线为站点索引序列，首尾为车辆的出发/返回站点
// 任一维度越界即返回不可行；状态数组与站点序列一一对应
func (c *Calculator) Compute(vehicle int, route []int) (*RouteState, bool) {
	n := len(route)
	state := &RouteState{
		Load:     make([]int64, n),
		Distance: make([]int64, n),
		Time:     make([]int64, n),
		Wait:     make([]int64, n),
	}
	if n == 0 {
		return state, true
	}

	v := c.p.Vehicle(vehicle)
	maxDist := c.p.VehicleMaxDistance(vehicle)
	useCap := c.p.UseCapacity()
	useTime := c.p.UseTimeWindows()

	var load, dist, now int64

	// 出发站点：累计量从零开始
	load = c.p.Stop(route[0]).Demand
	if useCap && load > v.Capacity {
		return state, false
	}
	state.Load[0] = load

	for i := 1; i < n; i++ {
		prev, cur := route[i-1], route[i]
		stop := c.p.Stop(cur)

		// 容量维度：无松弛
		load += stop.Demand
		state.Load[i] = load
		if useCap && load > v.Capacity {
			return state, false
		}

		// 距离维度
		dist += c.p.Dist(prev, cur)
		state.Distance[i] = dist
		if dist > maxDist {
			return state, false
		}

		// 时间维度：到达 = 上一站完成 + 行驶；早到可等待至窗口起点
		if useTime {
			arrival := now + c.p.Travel(prev, cur)
			var wait int64
			if stop.HasTimeWindow() {
				if arrival > stop.TimeWindow.Latest {
					return state, false
				}
				if arrival < stop.TimeWindow.Earliest {
					wait = stop.TimeWindow.Earliest - arrival
					if wait > c.p.WaitSlack() {
						return state, false
					}
				}
			}
			now = arrival + wait + stop.ServiceTime
			state.Wait[i] = wait
			state.Time[i] = now
			if now > c.p.Horizon() {
				return state, false
			}
			if v.MaxTime > 0 && now > v.MaxTime {
				return state, false
			}
		}
	}

	return state, true
}

// Feasible 判定路线在所有启用维度下是否可行
func (c *Calculator) Feasible(vehicle int, route []int) bool {
	_, ok := c.Compute(vehicle, route)
	return ok
}

// ArcCost 返回路线的弧成本总和
func (c *Calculator) ArcCost(route []int) int64 {
	var cost int64
	for i := 1; i < len(route); i++ {
		cost += c.p.Dist(route[i-1], route[i])
	}
	return cost
}

// InsertionCost 返回在 pos 处插入站点的弧成本增量
// pos 为插入后站点所在位置（1 <= pos <= len(route)-1）
func (c *Calculator) InsertionCost(route []int, pos, stop int) int64 {
	prev, next := route[pos-1], route[pos]
	return c.p.Dist(prev, stop) + c.p.Dist(stop, next) - c.p.Dist(prev, next)
}
