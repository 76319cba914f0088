// Package solver 提供初始路线方案的构建启发式
package solver

import (
	"context"
	"time"

	"github.com/luxian/luxian/pkg/errors"
	"github.com/luxian/luxian/pkg/logger"
	"github.com/luxian/luxian/pkg/routing/dimension"
	"github.com/luxian/luxian/pkg/routing/problem"
	"github.com/luxian/luxian/pkg/routing/solution"
)

// CheapestInsertion 最廉价可行插入求解器
// 每轮在所有（站点, 路线, 位置）组合中选取弧成本增量最小且资源可行的插入
// 平局规则：站点索引最小、车辆索引最小、插入位置最小，保证输出确定
type CheapestInsertion struct {
	logger *logger.RouterLogger
}

// NewCheapestInsertion 创建最廉价插入求解器
func NewCheapestInsertion() *CheapestInsertion {
	return &CheapestInsertion{
		logger: logger.NewRouterLogger(),
	}
}

// Name 返回求解器名称
func (s *CheapestInsertion) Name() string {
	return "CheapestInsertion"
}

// Solve 构建初始方案
// 无可行插入的站点被放弃并计入惩罚；必访站点无可行插入时返回 Infeasible
func (s *CheapestInsertion) Solve(ctx context.Context, p *problem.Problem) (*Result, error) {
	start := time.Now()
	calc := dimension.NewCalculator(p)
	sol := solution.NewEmpty(p)

	pending := make([]int, 0, p.NumStops()-1)
	for i := 1; i < p.NumStops(); i++ {
		pending = append(pending, i)
	}

	iterations := 0
	cancelled := false

	for len(pending) > 0 {
		// 取消为建议性：保留当前部分方案，剩余站点留在放弃集合
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		iterations++

		found := false
		var bestCost int64
		var bestStop, bestVehicle, bestPos, bestIdx int

		for idx, stop := range pending {
			for v := 0; v < p.NumVehicles(); v++ {
				route := sol.Routes[v]
				for pos := 1; pos < len(route); pos++ {
					cost := calc.InsertionCost(route, pos, stop)
					// 严格小于：保留先遇到的组合即为平局规则
					if found && cost >= bestCost {
						continue
					}
					candidate := insertAt(route, pos, stop)
					if !calc.Feasible(v, candidate) {
						continue
					}
					found = true
					bestCost = cost
					bestStop, bestVehicle, bestPos, bestIdx = stop, v, pos, idx
				}
			}
		}

		if !found {
			break
		}

		sol.Insert(bestVehicle, bestPos, bestStop)
		pending = append(pending[:bestIdx], pending[bestIdx+1:]...)
	}

	// 剩余站点全部无可行插入：可放弃的计惩罚，必访的判定无可行解
	if !cancelled {
		for _, stop := range pending {
			if !p.Droppable(stop) {
				return nil, errors.Infeasible(p.Stop(stop).ID, "所有车辆中均无资源可行的插入位置")
			}
			s.logger.StopDropped(p.Stop(stop).ID, "无资源可行的插入位置")
		}
	}

	return &Result{
		Solution: sol,
		Statistics: Statistics{
			Placed:     p.NumStops() - 1 - len(sol.Dropped),
			Dropped:    len(sol.Dropped),
			Iterations: iterations,
			Objective:  sol.Objective(p),
		},
		Duration: time.Since(start),
	}, nil
}

// insertAt 返回在 pos 处插入站点的新序列（不修改原序列）
func insertAt(route []int, pos, stop int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, stop)
	out = append(out, route[pos:]...)
	return out
}
