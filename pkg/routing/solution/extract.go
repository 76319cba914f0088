package solution

import (
	"time"

	"github.com/luxian/luxian/pkg/routing/dimension"
	"github.com/luxian/luxian/pkg/routing/matrix"
	"github.com/luxian/luxian/pkg/routing/problem"
)

// RoutePlan 单条路线的对外表示
type RoutePlan struct {
	VehicleID     string   `json:"vehicle_id"`
	StopIDs       []string `json:"stop_ids"`
	TotalDistance int64    `json:"total_distance_meters"`
	TotalTime     int64    `json:"total_time_minutes"`
	TotalLoad     int64    `json:"total_load"`
}

// Plan 求解结果的对外表示
type Plan struct {
	Routes         []RoutePlan `json:"routes"`
	TotalDistance  int64       `json:"total_distance_meters"`
	TotalTime      int64       `json:"total_time_minutes"`
	DroppedStopIDs []string    `json:"dropped_stop_ids"`
	ElapsedMS      int64       `json:"computation_time_ms"`
}

// Extract 将内部方案转换为对外结果
// 只输出非空路线；时间维度关闭时按固定速度估算耗时
// elapsed 为整个求解的墙钟耗时，仅作观测值
func Extract(p *problem.Problem, s *Solution, elapsed time.Duration) *Plan {
	calc := dimension.NewCalculator(p)
	plan := &Plan{
		Routes:         make([]RoutePlan, 0, len(s.Routes)),
		DroppedStopIDs: make([]string, 0, len(s.Dropped)),
		ElapsedMS:      elapsed.Milliseconds(),
	}

	for v, route := range s.Routes {
		if len(route) <= 2 {
			continue
		}

		state, _ := calc.Compute(v, route)

		rp := RoutePlan{
			VehicleID:     p.Vehicle(v).ID,
			StopIDs:       make([]string, 0, len(route)-2),
			TotalDistance: state.TotalDistance(),
			TotalLoad:     state.TotalLoad(),
		}
		for i := 1; i < len(route)-1; i++ {
			rp.StopIDs = append(rp.StopIDs, p.Stop(route[i]).ID)
		}

		if p.UseTimeWindows() {
			rp.TotalTime = state.TotalTime()
		} else {
			rp.TotalTime = matrix.EstimateMinutes(rp.TotalDistance)
		}

		plan.Routes = append(plan.Routes, rp)
		plan.TotalDistance += rp.TotalDistance
		plan.TotalTime += rp.TotalTime
	}

	for _, idx := range s.DroppedList() {
		plan.DroppedStopIDs = append(plan.DroppedStopIDs, p.Stop(idx).ID)
	}

	return plan
}
