// Package solution 提供路线方案的表示、目标函数与结果提取
package solution

import (
	"fmt"
	"sort"

	"github.com/luxian/luxian/pkg/routing/problem"
)

// Solution 路线方案
// 每辆车一条路线（含首尾出发/返回站点），外加被放弃的站点集合
// 不变式：每个非仓库站点恰好出现在一条路线中或被放弃集合中
type Solution struct {
	Routes  [][]int          // 按车辆索引的站点序列
	Dropped map[int]struct{} // 被放弃的站点索引
}

// NewEmpty 创建空方案：每条路线只含出发/返回站点，所有配送点处于放弃集合
// 构建启发式从该状态逐个插入站点
func NewEmpty(p *problem.Problem) *Solution {
	s := &Solution{
		Routes:  make([][]int, p.NumVehicles()),
		Dropped: make(map[int]struct{}),
	}
	for v := 0; v < p.NumVehicles(); v++ {
		veh := p.Vehicle(v)
		s.Routes[v] = []int{veh.StartIndex, veh.EndIndex}
	}
	for i := 1; i < p.NumStops(); i++ {
		s.Dropped[i] = struct{}{}
	}
	return s
}

// Clone 深拷贝方案
// 路线整体替换、互不共享底层数组，避免跨路线别名问题
func (s *Solution) Clone() *Solution {
	clone := &Solution{
		Routes:  make([][]int, len(s.Routes)),
		Dropped: make(map[int]struct{}, len(s.Dropped)),
	}
	for i, r := range s.Routes {
		clone.Routes[i] = make([]int, len(r))
		copy(clone.Routes[i], r)
	}
	for k := range s.Dropped {
		clone.Dropped[k] = struct{}{}
	}
	return clone
}

// Objective 计算总目标：弧成本之和 + 惩罚 × 放弃站点数
func (s *Solution) Objective(p *problem.Problem) int64 {
	var cost int64
	for _, route := range s.Routes {
		for i := 1; i < len(route); i++ {
			cost += p.Dist(route[i-1], route[i])
		}
	}
	return cost + p.DropPenalty()*int64(len(s.Dropped))
}

// Insert 在指定路线的 pos 位置插入站点并将其移出放弃集合
func (s *Solution) Insert(vehicle, pos, stop int) {
	route := s.Routes[vehicle]
	next := make([]int, 0, len(route)+1)
	next = append(next, route[:pos]...)
	next = append(next, stop)
	next = append(next, route[pos:]...)
	s.Routes[vehicle] = next
	delete(s.Dropped, stop)
}

// Remove 从指定路线移除 pos 位置的站点并将其加入放弃集合
func (s *Solution) Remove(vehicle, pos int) int {
	route := s.Routes[vehicle]
	stop := route[pos]
	next := make([]int, 0, len(route)-1)
	next = append(next, route[:pos]...)
	next = append(next, route[pos+1:]...)
	s.Routes[vehicle] = next
	s.Dropped[stop] = struct{}{}
	return stop
}

// DroppedList 返回按索引升序的放弃站点列表
func (s *Solution) DroppedList() []int {
	out := make([]int, 0, len(s.Dropped))
	for k := range s.Dropped {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Validate 校验站点划分不变式
// 每个非仓库站点必须恰好出现一次：在某条路线中或在放弃集合中
func (s *Solution) Validate(p *problem.Problem) error {
	seen := make(map[int]int)
	for v, route := range s.Routes {
		for i, stop := range route {
			// 首尾为车辆出发/返回站点，不计入划分
			if i == 0 || i == len(route)-1 {
				continue
			}
			if stop == 0 {
				return fmt.Errorf("路线%d中间位置出现仓库", v)
			}
			seen[stop]++
		}
	}
	for stop := range s.Dropped {
		seen[stop]++
	}

	for i := 1; i < p.NumStops(); i++ {
		switch seen[i] {
		case 0:
			return fmt.Errorf("站点%d既不在任何路线中也未被放弃", i)
		case 1:
			// 恰好一次
		default:
			return fmt.Errorf("站点%d出现%d次", i, seen[i])
		}
	}
	return nil
}
