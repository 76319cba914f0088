package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/luxian/luxian/pkg/model"
	"github.com/luxian/luxian/pkg/routing/dimension"
	"github.com/luxian/luxian/pkg/routing/problem"
	"github.com/luxian/luxian/pkg/routing/solution"
)

func buildProblem(t *testing.T) *problem.Problem {
	t.Helper()

	stops := []model.Stop{
		{ID: "depot"},
		{ID: "s1", Demand: 1, ServiceTime: 5},
		{ID: "s2", Demand: 1, ServiceTime: 5},
		{ID: "s3", Demand: 1, ServiceTime: 5},
		{ID: "s4", Demand: 1, ServiceTime: 5},
	}
	vehicles := []model.Vehicle{
		{ID: "v1", Capacity: 3},
		{ID: "v2", Capacity: 3},
	}
	dist := [][]int64{
		{0, 1000, 4000, 1200, 3800},
		{1000, 0, 3200, 600, 3000},
		{4000, 3200, 0, 3500, 700},
		{1200, 600, 3500, 0, 3300},
		{3800, 3000, 700, 3300, 0},
	}
	travel := make([][]int64, len(dist))
	for i := range dist {
		travel[i] = make([]int64, len(dist))
		for j := range dist[i] {
			travel[i][j] = dist[i][j] / 50
		}
	}

	p, err := problem.New(stops, vehicles, dist, travel, problem.DefaultOptions())
	if err != nil {
		t.Fatalf("构建问题失败: %v", err)
	}
	return p
}

// 刻意低效的初始方案：跨城往返
func badInitial(p *problem.Problem) *solution.Solution {
	s := solution.NewEmpty(p)
	s.Insert(0, 1, 2)
	s.Insert(0, 1, 1)
	s.Insert(1, 1, 4)
	s.Insert(1, 1, 3)
	return s
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.MaxIterations = 400
	cfg.MaxTime = 5 * time.Second
	cfg.Seed = 42
	return cfg
}

func TestOptimize_NeverRegresses(t *testing.T) {
	p := buildProblem(t)
	initial := badInitial(p)
	initialObj := initial.Objective(p)

	result := NewLocalSearchOptimizer(testConfig(), p).Optimize(context.Background(), initial)

	if got := result.Objective(p); got > initialObj {
		t.Errorf("优化后目标值 %d 劣于初始 %d", got, initialObj)
	}
	if err := result.Validate(p); err != nil {
		t.Errorf("优化结果违反划分不变式: %v", err)
	}
}

func TestOptimize_ResultFeasible(t *testing.T) {
	p := buildProblem(t)
	initial := badInitial(p)

	result := NewLocalSearchOptimizer(testConfig(), p).Optimize(context.Background(), initial)

	calc := dimension.NewCalculator(p)
	for v, route := range result.Routes {
		if !calc.Feasible(v, route) {
			t.Errorf("路线%d资源不可行: %v", v, route)
		}
	}
}

func TestOptimize_InitialUntouched(t *testing.T) {
	p := buildProblem(t)
	initial := badInitial(p)
	before := initial.Objective(p)

	NewLocalSearchOptimizer(testConfig(), p).Optimize(context.Background(), initial)

	if after := initial.Objective(p); after != before {
		t.Errorf("优化不应修改输入方案: %d != %d", after, before)
	}
}

func TestOptimize_DeadlineRespected(t *testing.T) {
	p := buildProblem(t)
	initial := badInitial(p)

	cfg := testConfig()
	cfg.MaxIterations = 1 << 30
	cfg.MaxTime = 100 * time.Millisecond
	cfg.PlateauThreshold = 1 << 30

	start := time.Now()
	NewLocalSearchOptimizer(cfg, p).Optimize(context.Background(), initial)
	elapsed := time.Since(start)

	// 预算 + 一次移动评估的有界开销
	if elapsed > cfg.MaxTime+500*time.Millisecond {
		t.Errorf("超出时间预算: elapsed=%s, budget=%s", elapsed, cfg.MaxTime)
	}
}

func TestOptimize_CancelledContext(t *testing.T) {
	p := buildProblem(t)
	initial := badInitial(p)
	initialObj := initial.Objective(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 取消为建议性：返回当前最优方案而非错误
	result := NewLocalSearchOptimizer(testConfig(), p).Optimize(ctx, initial)
	if result == nil {
		t.Fatal("取消后应返回最优方案")
	}
	if got := result.Objective(p); got > initialObj {
		t.Errorf("取消后返回的方案目标值 %d 劣于初始 %d", got, initialObj)
	}
}

func TestOptimize_Metaheuristics(t *testing.T) {
	metas := []Metaheuristic{MetaGreedyDescent, MetaSimulatedAnnealing, MetaTabuSearch}

	for _, meta := range metas {
		t.Run(meta.String(), func(t *testing.T) {
			p := buildProblem(t)
			initial := badInitial(p)
			initialObj := initial.Objective(p)

			cfg := testConfig()
			cfg.Metaheuristic = meta

			result := NewLocalSearchOptimizer(cfg, p).Optimize(context.Background(), initial)
			if got := result.Objective(p); got > initialObj {
				t.Errorf("%s: 目标值 %d 劣于初始 %d", meta, got, initialObj)
			}
			if err := result.Validate(p); err != nil {
				t.Errorf("%s: 违反划分不变式: %v", meta, err)
			}
		})
	}
}

func TestParseMetaheuristic(t *testing.T) {
	tests := []struct {
		input    string
		expected Metaheuristic
	}{
		{"", MetaSimulatedAnnealing},
		{"simulated_annealing", MetaSimulatedAnnealing},
		{"greedy_descent", MetaGreedyDescent},
		{"GREEDY_DESCENT", MetaGreedyDescent},
		{"tabu_search", MetaTabuSearch},
		{"unknown", MetaSimulatedAnnealing},
	}

	for _, tt := range tests {
		if got := ParseMetaheuristic(tt.input); got != tt.expected {
			t.Errorf("ParseMetaheuristic(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestAcceptProbability(t *testing.T) {
	if p := acceptProbability(-10, 100); p != 1.0 {
		t.Errorf("改进解接受概率应为1, got %f", p)
	}
	if p := acceptProbability(10, 0); p != 0.0 {
		t.Errorf("零温度下较差解接受概率应为0, got %f", p)
	}
	if p := acceptProbability(10, 100); p <= 0 || p >= 1 {
		t.Errorf("较差解接受概率应在(0,1)内, got %f", p)
	}
}

func TestTabuList(t *testing.T) {
	tabu := NewTabuList(2)

	tabu.Add(1)
	tabu.Add(2)
	if !tabu.Contains(1) || !tabu.Contains(2) {
		t.Error("已添加的键应在禁忌表中")
	}

	// 超出容量时淘汰最旧的
	tabu.Add(3)
	if tabu.Contains(1) {
		t.Error("最旧的键应被淘汰")
	}
	if !tabu.Contains(2) || !tabu.Contains(3) {
		t.Error("较新的键应保留")
	}

	tabu.Clear()
	if tabu.Contains(2) || tabu.Contains(3) {
		t.Error("清空后禁忌表应为空")
	}
}

func TestHashSolution(t *testing.T) {
	p := buildProblem(t)

	s1 := solution.NewEmpty(p)
	s1.Insert(0, 1, 1)
	s2 := s1.Clone()

	if hashSolution(s1) != hashSolution(s2) {
		t.Error("相同方案哈希应一致")
	}

	s2.Insert(1, 1, 2)
	if hashSolution(s1) == hashSolution(s2) {
		t.Error("不同方案哈希不应一致")
	}
}
