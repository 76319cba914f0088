// Package solver 提供初始路线方案的构建启发式
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/luxian/luxian/pkg/routing/problem"
	"github.com/luxian/luxian/pkg/routing/solution"
)

// Strategy 构建策略（封闭枚举，配置阶段解析一次）
type Strategy int

const (
	// StrategyCheapestInsertion 最廉价可行插入（默认）
	StrategyCheapestInsertion Strategy = iota
	// StrategyNearestNeighbor 最近邻追加
	StrategyNearestNeighbor
)

// ParseStrategy 解析策略名称，未知名称回退到默认策略
func ParseStrategy(name string) Strategy {
	switch name {
	case "nearest_neighbor", "NEAREST_NEIGHBOR":
		return StrategyNearestNeighbor
	default:
		return StrategyCheapestInsertion
	}
}

// String 返回策略名称
func (s Strategy) String() string {
	switch s {
	case StrategyNearestNeighbor:
		return "nearest_neighbor"
	default:
		return "cheapest_insertion"
	}
}

// Solver 构建求解器接口
type Solver interface {
	// Solve 从空方案构建一个资源可行的初始方案
	Solve(ctx context.Context, p *problem.Problem) (*Result, error)

	// Name 返回求解器名称
	Name() string
}

// Statistics 构建统计
type Statistics struct {
	Placed     int   `json:"placed"`
	Dropped    int   `json:"dropped"`
	Iterations int   `json:"iterations"`
	Objective  int64 `json:"objective"`
}

// Result 构建结果
type Result struct {
	Solution   *solution.Solution `json:"-"`
	Statistics Statistics         `json:"statistics"`
	Duration   time.Duration      `json:"duration"`
}

// ForStrategy 按策略创建求解器
func ForStrategy(s Strategy) (Solver, error) {
	switch s {
	case StrategyCheapestInsertion:
		return NewCheapestInsertion(), nil
	case StrategyNearestNeighbor:
		return NewNearestNeighbor(), nil
	default:
		return nil, fmt.Errorf("未知构建策略: %d", s)
	}
}
