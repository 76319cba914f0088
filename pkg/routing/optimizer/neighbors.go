// Package optimizer 提供路线方案的局部搜索优化
package optimizer

import (
	"math/rand"

	"github.com/luxian/luxian/pkg/routing/dimension"
	"github.com/luxian/luxian/pkg/routing/problem"
	"github.com/luxian/luxian/pkg/routing/solution"
)

// MoveType 邻域移动类型
type MoveType int

const (
	MoveRelocate        MoveType = iota // 将一个站点移动到其他路线/位置
	MoveSwap                            // 交换两个站点（同路线或跨路线）
	Move2Opt                            // 反转单条路线内的连续子序列
	MoveExchangeDropped                 // 放弃站点与在线站点互换
	MoveReinsert                        // 将放弃站点重新插入路线
)

// moveWeight 移动类型的选择权重
type moveWeight struct {
	moveType MoveType
	weight   float64
}

// NeighborhoodGenerator 邻域生成器
// 生成的候选方案均已通过资源维度可行性检查，不可行移动直接丢弃
type NeighborhoodGenerator struct {
	p    *problem.Problem
	calc *dimension.Calculator
	rng  *rand.Rand

	// 有序权重表：保证相同种子下选择序列可复现
	weights []moveWeight
}

// NewNeighborhoodGenerator 创建邻域生成器
func NewNeighborhoodGenerator(p *problem.Problem, calc *dimension.Calculator, rng *rand.Rand) *NeighborhoodGenerator {
	return &NeighborhoodGenerator{
		p:    p,
		calc: calc,
		rng:  rng,
		weights: []moveWeight{
			{MoveRelocate, 0.30},
			{MoveSwap, 0.25},
			{Move2Opt, 0.20},
			{MoveExchangeDropped, 0.10},
			{MoveReinsert, 0.15},
		},
	}
}

// Generate 生成一个资源可行的邻域方案
// 选中的移动无法构成可行方案时返回 nil
func (n *NeighborhoodGenerator) Generate(current *solution.Solution) *solution.Solution {
	if current == nil {
		return nil
	}

	switch n.selectMoveType() {
	case MoveRelocate:
		return n.generateRelocate(current)
	case MoveSwap:
		return n.generateSwap(current)
	case Move2Opt:
		return n.generate2Opt(current)
	case MoveExchangeDropped:
		return n.generateExchangeDropped(current)
	case MoveReinsert:
		return n.generateReinsert(current)
	default:
		return n.generateRelocate(current)
	}
}

// selectMoveType 按权重选择移动类型
func (n *NeighborhoodGenerator) selectMoveType() MoveType {
	r := n.rng.Float64()
	cumulative := 0.0
	for _, w := range n.weights {
		cumulative += w.weight
		if r < cumulative {
			return w.moveType
		}
	}
	return MoveRelocate
}

// interior 返回路线的中间站点数（不含首尾出发/返回站点）
func interior(route []int) int {
	if len(route) < 2 {
		return 0
	}
	return len(route) - 2
}

// pickRouteWithInterior 随机选择一条含中间站点的路线，无则返回-1
func (n *NeighborhoodGenerator) pickRouteWithInterior(s *solution.Solution) int {
	candidates := make([]int, 0, len(s.Routes))
	for v, route := range s.Routes {
		if interior(route) > 0 {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[n.rng.Intn(len(candidates))]
}

// pickDropped 随机选择一个被放弃的站点，无则返回-1
func (n *NeighborhoodGenerator) pickDropped(s *solution.Solution) int {
	dropped := s.DroppedList()
	if len(dropped) == 0 {
		return -1
	}
	return dropped[n.rng.Intn(len(dropped))]
}

// generateRelocate 将一个站点移动到其他路线/位置
func (n *NeighborhoodGenerator) generateRelocate(current *solution.Solution) *solution.Solution {
	from := n.pickRouteWithInterior(current)
	if from < 0 {
		return nil
	}

	neighbor := current.Clone()
	fromPos := 1 + n.rng.Intn(interior(neighbor.Routes[from]))
	stop := neighbor.Remove(from, fromPos)

	to := n.rng.Intn(len(neighbor.Routes))
	toPos := 1 + n.rng.Intn(len(neighbor.Routes[to])-1)
	neighbor.Insert(to, toPos, stop)

	if !n.calc.Feasible(from, neighbor.Routes[from]) || !n.calc.Feasible(to, neighbor.Routes[to]) {
		return nil
	}
	return neighbor
}

// generateSwap 交换两个站点
func (n *NeighborhoodGenerator) generateSwap(current *solution.Solution) *solution.Solution {
	a := n.pickRouteWithInterior(current)
	b := n.pickRouteWithInterior(current)
	if a < 0 || b < 0 {
		return nil
	}

	neighbor := current.Clone()
	posA := 1 + n.rng.Intn(interior(neighbor.Routes[a]))
	posB := 1 + n.rng.Intn(interior(neighbor.Routes[b]))
	if a == b && posA == posB {
		return nil
	}

	neighbor.Routes[a][posA], neighbor.Routes[b][posB] = neighbor.Routes[b][posB], neighbor.Routes[a][posA]

	if !n.calc.Feasible(a, neighbor.Routes[a]) || !n.calc.Feasible(b, neighbor.Routes[b]) {
		return nil
	}
	return neighbor
}

// generate2Opt 反转单条路线内的连续子序列
func (n *NeighborhoodGenerator) generate2Opt(current *solution.Solution) *solution.Solution {
	var candidates []int
	for v, route := range current.Routes {
		if interior(route) >= 2 {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	v := candidates[n.rng.Intn(len(candidates))]

	neighbor := current.Clone()
	route := neighbor.Routes[v]
	inner := interior(route)

	i := 1 + n.rng.Intn(inner-1)
	j := i + 1 + n.rng.Intn(inner-i)

	for left, right := i, j; left < right; left, right = left+1, right-1 {
		route[left], route[right] = route[right], route[left]
	}

	if !n.calc.Feasible(v, route) {
		return nil
	}
	return neighbor
}

// generateExchangeDropped 放弃站点与在线站点互换
func (n *NeighborhoodGenerator) generateExchangeDropped(current *solution.Solution) *solution.Solution {
	dropped := n.pickDropped(current)
	if dropped < 0 {
		return nil
	}
	v := n.pickRouteWithInterior(current)
	if v < 0 {
		return nil
	}

	neighbor := current.Clone()
	pos := 1 + n.rng.Intn(interior(neighbor.Routes[v]))
	placed := neighbor.Routes[v][pos]

	// 必访站点不允许换出
	if !n.p.Droppable(placed) {
		return nil
	}

	neighbor.Routes[v][pos] = dropped
	delete(neighbor.Dropped, dropped)
	neighbor.Dropped[placed] = struct{}{}

	if !n.calc.Feasible(v, neighbor.Routes[v]) {
		return nil
	}
	return neighbor
}

// generateReinsert 将放弃站点重新插入路线
func (n *NeighborhoodGenerator) generateReinsert(current *solution.Solution) *solution.Solution {
	dropped := n.pickDropped(current)
	if dropped < 0 {
		return nil
	}

	neighbor := current.Clone()
	v := n.rng.Intn(len(neighbor.Routes))
	pos := 1 + n.rng.Intn(len(neighbor.Routes[v])-1)
	neighbor.Insert(v, pos, dropped)

	if !n.calc.Feasible(v, neighbor.Routes[v]) {
		return nil
	}
	return neighbor
}
