// Package routing 提供端到端的路线求解引擎
// 串联成本矩阵构建、问题建模、初始方案构建与局部搜索优化
package routing

import (
	"context"
	"time"

	"github.com/luxian/luxian/pkg/logger"
	"github.com/luxian/luxian/pkg/model"
	"github.com/luxian/luxian/pkg/routing/matrix"
	"github.com/luxian/luxian/pkg/routing/optimizer"
	"github.com/luxian/luxian/pkg/routing/problem"
	"github.com/luxian/luxian/pkg/routing/solution"
	"github.com/luxian/luxian/pkg/routing/solver"
)

// DefaultTimeLimit 默认求解时间预算
const DefaultTimeLimit = 30 * time.Second

// Config 引擎配置
type Config struct {
	TimeLimit      time.Duration           // 整体求解时间预算
	UseCapacity    bool                    // 启用容量维度
	UseTimeWindows bool                    // 启用时间维度
	DropPenalty    int64                   // 放弃站点惩罚
	MaxDistance    int64                   // 单车距离上限默认值（米）
	WaitSlack      int64                   // 每站最大等待时间（分钟）
	Horizon        int64                   // 时间维度上限（分钟）
	Strategy       solver.Strategy         // 初始方案构建策略
	Metaheuristic  optimizer.Metaheuristic // 局部搜索元启发式
	Workers        int                     // 并行评估工作数
	MaxIterations  int                     // 局部搜索最大迭代次数
	Seed           int64                   // 随机种子，0表示按时间取
}

// DefaultEngineConfig 返回默认引擎配置
func DefaultEngineConfig() *Config {
	return &Config{
		TimeLimit:      DefaultTimeLimit,
		UseCapacity:    true,
		UseTimeWindows: true,
		DropPenalty:    problem.DefaultDropPenalty,
		MaxDistance:    problem.DefaultMaxDistance,
		WaitSlack:      problem.DefaultWaitSlack,
		Horizon:        problem.DefaultHorizon,
		Strategy:       solver.StrategyCheapestInsertion,
		Metaheuristic:  optimizer.MetaSimulatedAnnealing,
		Workers:        4,
		MaxIterations:  10000,
	}
}

// Engine 路线求解引擎
// 无状态编排器，可被多个请求并发使用
type Engine struct {
	config *Config
	logger *logger.RouterLogger
}

// NewEngine 创建路线求解引擎
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultEngineConfig()
	}
	if config.TimeLimit <= 0 {
		config.TimeLimit = DefaultTimeLimit
	}
	return &Engine{
		config: config,
		logger: logger.NewRouterLogger(),
	}
}

// Solve 根据站点坐标求解路线
// 距离矩阵由坐标按haversine公式构建，行驶时间按固定速度推导
func (e *Engine) Solve(ctx context.Context, stops []model.Stop, vehicles []model.Vehicle) (*solution.Plan, error) {
	dist, err := matrix.Build(stops)
	if err != nil {
		return nil, err
	}

	var travel [][]int64
	if e.config.UseTimeWindows {
		travel = matrix.TravelTime(dist)
	}

	return e.SolveWithMatrix(ctx, stops, vehicles, dist, travel)
}

// SolveWithMatrix 使用外部提供的成本矩阵求解路线
// 矩阵在问题构建阶段校验；时间维度关闭时 travel 可为 nil
func (e *Engine) SolveWithMatrix(ctx context.Context, stops []model.Stop, vehicles []model.Vehicle, dist, travel [][]int64) (*solution.Plan, error) {
	start := time.Now()

	p, err := problem.New(stops, vehicles, dist, travel, problem.Options{
		UseCapacity:    e.config.UseCapacity,
		UseTimeWindows: e.config.UseTimeWindows,
		DropPenalty:    e.config.DropPenalty,
		MaxDistance:    e.config.MaxDistance,
		WaitSlack:      e.config.WaitSlack,
		Horizon:        e.config.Horizon,
	})
	if err != nil {
		return nil, err
	}

	e.logger.StartSolve(p.NumStops(), p.NumVehicles(), e.config.TimeLimit)

	ctx, cancel := context.WithTimeout(ctx, e.config.TimeLimit)
	defer cancel()

	s, err := e.solve(ctx, p, start)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	e.logger.SolveComplete(elapsed, s.Objective(p), len(s.Dropped))

	return solution.Extract(p, s, elapsed), nil
}

// solve 在剩余时间预算内构建初始方案并做局部搜索
func (e *Engine) solve(ctx context.Context, p *problem.Problem, start time.Time) (*solution.Solution, error) {
	constructor, err := solver.ForStrategy(e.config.Strategy)
	if err != nil {
		return nil, err
	}

	result, err := constructor.Solve(ctx, p)
	if err != nil {
		return nil, err
	}

	// 构建阶段用掉的预算从优化阶段扣除
	remaining := e.config.TimeLimit - time.Since(start)
	if remaining <= 0 {
		return result.Solution, nil
	}

	cfg := optimizer.DefaultConfig()
	cfg.MaxTime = remaining
	cfg.MaxIterations = e.config.MaxIterations
	cfg.Metaheuristic = e.config.Metaheuristic
	cfg.Workers = e.config.Workers
	cfg.Seed = e.config.Seed

	return optimizer.NewLocalSearchOptimizer(cfg, p).Optimize(ctx, result.Solution), nil
}
