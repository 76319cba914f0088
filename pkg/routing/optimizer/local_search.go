// Package optimizer 提供路线方案的局部搜索优化
package optimizer

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/luxian/luxian/pkg/logger"
	"github.com/luxian/luxian/pkg/routing/dimension"
	"github.com/luxian/luxian/pkg/routing/problem"
	"github.com/luxian/luxian/pkg/routing/solution"
)

// Metaheuristic 逃离局部最优的元启发式（封闭枚举，配置阶段解析一次）
type Metaheuristic int

const (
	// MetaSimulatedAnnealing 模拟退火（默认）
	MetaSimulatedAnnealing Metaheuristic = iota
	// MetaGreedyDescent 纯下降：仅接受严格改进
	MetaGreedyDescent
	// MetaTabuSearch 禁忌搜索：接受最优非禁忌候选
	MetaTabuSearch
)

// ParseMetaheuristic 解析元启发式名称，未知名称回退到默认
func ParseMetaheuristic(name string) Metaheuristic {
	switch name {
	case "greedy_descent", "GREEDY_DESCENT":
		return MetaGreedyDescent
	case "tabu_search", "TABU_SEARCH":
		return MetaTabuSearch
	default:
		return MetaSimulatedAnnealing
	}
}

// String 返回元启发式名称
func (m Metaheuristic) String() string {
	switch m {
	case MetaGreedyDescent:
		return "greedy_descent"
	case MetaTabuSearch:
		return "tabu_search"
	default:
		return "simulated_annealing"
	}
}

// Config 优化配置
type Config struct {
	MaxIterations    int           `json:"max_iterations"`    // 最大迭代次数
	MaxTime          time.Duration `json:"max_time"`          // 墙钟时间预算
	InitialTemp      float64       `json:"initial_temp"`      // 模拟退火初始温度
	CoolingRate      float64       `json:"cooling_rate"`      // 冷却速率
	TabuSize         int           `json:"tabu_size"`         // 禁忌表大小
	NeighborhoodSize int           `json:"neighborhood_size"` // 每轮候选数
	Workers          int           `json:"workers"`           // 并行评估工作数
	PlateauThreshold int           `json:"plateau_threshold"` // 平台期阈值（无改进迭代次数）
	Metaheuristic    Metaheuristic `json:"metaheuristic"`
	Seed             int64         `json:"seed,omitempty"` // 随机种子，0表示按时间取
}

// DefaultConfig 默认优化配置
func DefaultConfig() *Config {
	return &Config{
		MaxIterations:    10000,
		MaxTime:          30 * time.Second,
		InitialTemp:      100.0,
		CoolingRate:      0.99,
		TabuSize:         50,
		NeighborhoodSize: 20,
		Workers:          4,
		PlateauThreshold: 200,
		Metaheuristic:    MetaSimulatedAnnealing,
	}
}

// LocalSearchOptimizer 局部搜索优化器
// 在时间预算内反复应用邻域移动；只对可行候选做成本比较
// 合约：返回的方案始终可行，且目标值不劣于输入方案
type LocalSearchOptimizer struct {
	config    *Config
	p         *problem.Problem
	calc      *dimension.Calculator
	neighbors *NeighborhoodGenerator
	evaluator *ParallelEvaluator
	tabu      *TabuList
	rng       *rand.Rand
	logger    *logger.RouterLogger
}

// NewLocalSearchOptimizer 创建局部搜索优化器
func NewLocalSearchOptimizer(config *Config, p *problem.Problem) *LocalSearchOptimizer {
	if config == nil {
		config = DefaultConfig()
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	calc := dimension.NewCalculator(p)
	return &LocalSearchOptimizer{
		config:    config,
		p:         p,
		calc:      calc,
		neighbors: NewNeighborhoodGenerator(p, calc, rng),
		evaluator: NewParallelEvaluator(config.Workers, p),
		tabu:      NewTabuList(config.TabuSize),
		rng:       rng,
		logger:    logger.NewRouterLogger(),
	}
}

// Optimize 优化方案
// 截止时间与取消只在迭代边界检查：单次移动评估不会被打断，
// 预算最多超出一次移动评估的开销；取消时返回当前最优方案而非错误
func (o *LocalSearchOptimizer) Optimize(ctx context.Context, initial *solution.Solution) *solution.Solution {
	start := time.Now()

	current := initial.Clone()
	best := initial.Clone()
	curObj := current.Objective(o.p)
	bestObj := curObj

	temperature := o.config.InitialTemp
	noImprove := 0

	for i := 0; i < o.config.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return best
		default:
		}
		if time.Since(start) > o.config.MaxTime {
			break
		}

		// 生成一批可行候选（fan-out）
		candidates := make([]*solution.Solution, 0, o.config.NeighborhoodSize)
		for j := 0; j < o.config.NeighborhoodSize; j++ {
			if neighbor := o.neighbors.Generate(current); neighbor != nil {
				candidates = append(candidates, neighbor)
			}
		}
		if len(candidates) == 0 {
			noImprove++
			if noImprove >= o.config.PlateauThreshold {
				break
			}
			continue
		}

		// 并行评估后串行提交（fan-in）
		results := o.evaluator.EvaluateBatch(ctx, candidates)
		chosen := o.selectCandidate(results, bestObj)
		if chosen == nil {
			noImprove++
			if noImprove >= o.config.PlateauThreshold {
				break
			}
			continue
		}

		accepted := false
		switch {
		case chosen.Objective < curObj:
			accepted = true
		case o.config.Metaheuristic == MetaTabuSearch:
			// 禁忌搜索：最优非禁忌候选总被接受（selectCandidate已过滤）
			accepted = true
		case o.config.Metaheuristic == MetaSimulatedAnnealing && !o.tabu.Contains(chosen.Key):
			delta := float64(chosen.Objective - curObj)
			if o.rng.Float64() < acceptProbability(delta, temperature) {
				accepted = true
			}
		}

		if accepted {
			current = chosen.Solution
			curObj = chosen.Objective
			o.tabu.Add(chosen.Key)

			if curObj < bestObj {
				best = current.Clone()
				bestObj = curObj
				noImprove = 0
				o.logger.ImprovedSolution(i, bestObj)
			} else {
				noImprove++
			}
		} else {
			noImprove++
		}

		if noImprove >= o.config.PlateauThreshold {
			break
		}

		temperature *= o.config.CoolingRate
	}

	return best
}

// selectCandidate 从评估结果中选取要考虑的候选
// 禁忌搜索模式过滤禁忌候选（优于全局最优的除外，即特赦规则）
func (o *LocalSearchOptimizer) selectCandidate(results []EvalResult, bestObj int64) *EvalResult {
	var chosen *EvalResult
	for i := range results {
		r := &results[i]
		if r.Solution == nil {
			continue
		}
		if o.config.Metaheuristic == MetaTabuSearch &&
			o.tabu.Contains(r.Key) && r.Objective >= bestObj {
			continue
		}
		if chosen == nil || r.Objective < chosen.Objective {
			chosen = r
		}
	}
	return chosen
}

// acceptProbability 计算接受较差解的概率（Boltzmann准则）
func acceptProbability(delta, temperature float64) float64 {
	if delta <= 0 {
		return 1.0
	}
	if temperature <= 0 {
		return 0.0
	}
	return math.Exp(-delta / temperature)
}

// hashSolution 计算方案的FNV-1a哈希，作为禁忌表键
func hashSolution(s *solution.Solution) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(x int) {
		for b := 0; b < 8; b++ {
			buf[b] = byte(x >> (8 * b))
		}
		h.Write(buf[:])
	}
	for _, route := range s.Routes {
		for _, stop := range route {
			write(stop)
		}
		write(-1) // 路线分隔符
	}
	for _, d := range s.DroppedList() {
		write(d)
	}
	return h.Sum64()
}

// TabuList 禁忌表（uint64哈希键，FIFO淘汰）
type TabuList struct {
	items   map[uint64]struct{}
	order   []uint64
	maxSize int
	mu      sync.RWMutex
}

// NewTabuList 创建禁忌表
func NewTabuList(size int) *TabuList {
	if size <= 0 {
		size = 50
	}
	return &TabuList{
		items:   make(map[uint64]struct{}),
		order:   make([]uint64, 0, size),
		maxSize: size,
	}
}

// Add 添加到禁忌表
func (t *TabuList) Add(key uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.items[key]; exists {
		return
	}

	if len(t.order) >= t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.items, oldest)
	}

	t.items[key] = struct{}{}
	t.order = append(t.order, key)
}

// Contains 检查是否在禁忌表中
func (t *TabuList) Contains(key uint64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, exists := t.items[key]
	return exists
}

// Clear 清空禁忌表
func (t *TabuList) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = make(map[uint64]struct{})
	t.order = t.order[:0]
}
