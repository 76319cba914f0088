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

// NearestNeighbor 最近邻求解器
// 每辆车从出发站点开始，反复追加距离当前末站最近且资源可行的待分配站点
// 平局取站点索引最小；当前车辆无可追加站点时切换下一辆车
type NearestNeighbor struct {
	logger *logger.RouterLogger
}

// NewNearestNeighbor 创建最近邻求解器
func NewNearestNeighbor() *NearestNeighbor {
	return &NearestNeighbor{
		logger: logger.NewRouterLogger(),
	}
}

// Name 返回求解器名称
func (s *NearestNeighbor) Name() string {
	return "NearestNeighbor"
}

// Solve 构建初始方案
func (s *NearestNeighbor) Solve(ctx context.Context, p *problem.Problem) (*Result, error) {
	start := time.Now()
	calc := dimension.NewCalculator(p)
	sol := solution.NewEmpty(p)

	pending := make(map[int]struct{}, p.NumStops()-1)
	for i := 1; i < p.NumStops(); i++ {
		pending[i] = struct{}{}
	}

	iterations := 0
	cancelled := false

	for v := 0; v < p.NumVehicles() && len(pending) > 0; v++ {
		for len(pending) > 0 {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			iterations++

			route := sol.Routes[v]
			last := route[len(route)-2] // 末站（返回站点之前）

			found := false
			var bestDist int64
			bestStop := -1

			// 升序遍历：距离相同取索引最小者
			for stop := 1; stop < p.NumStops(); stop++ {
				if _, ok := pending[stop]; !ok {
					continue
				}
				d := p.Dist(last, stop)
				if found && d >= bestDist {
					continue
				}
				candidate := insertAt(route, len(route)-1, stop)
				if !calc.Feasible(v, candidate) {
					continue
				}
				found = true
				bestDist = d
				bestStop = stop
			}

			if !found {
				break
			}

			sol.Insert(v, len(sol.Routes[v])-1, bestStop)
			delete(pending, bestStop)
		}
		if cancelled {
			break
		}
	}

	if !cancelled {
		for stop := range pending {
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
