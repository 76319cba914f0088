package solution

import (
	"testing"
	"time"

	"github.com/luxian/luxian/pkg/model"
	"github.com/luxian/luxian/pkg/routing/problem"
)

func buildProblem(t *testing.T) *problem.Problem {
	t.Helper()

	stops := []model.Stop{
		{ID: "depot"},
		{ID: "s1", Demand: 2, ServiceTime: 10},
		{ID: "s2", Demand: 3, ServiceTime: 10},
		{ID: "s3", Demand: 1, ServiceTime: 10},
	}
	vehicles := []model.Vehicle{
		{ID: "v1", Capacity: 10},
		{ID: "v2", Capacity: 10},
	}
	dist := [][]int64{
		{0, 1000, 2000, 3000},
		{1000, 0, 1200, 2500},
		{2000, 1200, 0, 1100},
		{3000, 2500, 1100, 0},
	}
	travel := [][]int64{
		{0, 20, 40, 60},
		{20, 0, 24, 50},
		{40, 24, 0, 22},
		{60, 50, 22, 0},
	}

	p, err := problem.New(stops, vehicles, dist, travel, problem.DefaultOptions())
	if err != nil {
		t.Fatalf("构建问题失败: %v", err)
	}
	return p
}

func TestNewEmpty(t *testing.T) {
	p := buildProblem(t)
	s := NewEmpty(p)

	if len(s.Routes) != 2 {
		t.Fatalf("路线数 = %d, expected 2", len(s.Routes))
	}
	for v, route := range s.Routes {
		if len(route) != 2 {
			t.Errorf("路线%d初始长度 = %d, expected 2", v, len(route))
		}
	}
	if len(s.Dropped) != 3 {
		t.Errorf("初始放弃集合大小 = %d, expected 3", len(s.Dropped))
	}
	if err := s.Validate(p); err != nil {
		t.Errorf("空方案应满足划分不变式: %v", err)
	}
}

func TestInsertRemove(t *testing.T) {
	p := buildProblem(t)
	s := NewEmpty(p)

	s.Insert(0, 1, 1)
	s.Insert(0, 2, 2)
	if err := s.Validate(p); err != nil {
		t.Fatalf("插入后应满足划分不变式: %v", err)
	}
	if len(s.Routes[0]) != 4 {
		t.Errorf("路线0长度 = %d, expected 4", len(s.Routes[0]))
	}
	if _, dropped := s.Dropped[1]; dropped {
		t.Error("已插入的站点不应在放弃集合中")
	}

	stop := s.Remove(0, 1)
	if stop != 1 {
		t.Errorf("Remove 返回 %d, expected 1", stop)
	}
	if _, dropped := s.Dropped[1]; !dropped {
		t.Error("被移除的站点应回到放弃集合")
	}
	if err := s.Validate(p); err != nil {
		t.Fatalf("移除后应满足划分不变式: %v", err)
	}
}

func TestObjective(t *testing.T) {
	p := buildProblem(t)
	s := NewEmpty(p)

	// 空方案：3个放弃站点 × 惩罚
	want := 3 * problem.DefaultDropPenalty
	if got := s.Objective(p); got != want {
		t.Errorf("Objective() = %d, expected %d", got, want)
	}

	// 插入s1后：弧成本 1000+1000 + 2×惩罚
	s.Insert(0, 1, 1)
	want = 2000 + 2*problem.DefaultDropPenalty
	if got := s.Objective(p); got != want {
		t.Errorf("Objective() = %d, expected %d", got, want)
	}
}

func TestClone(t *testing.T) {
	p := buildProblem(t)
	s := NewEmpty(p)
	s.Insert(0, 1, 1)

	clone := s.Clone()
	clone.Insert(1, 1, 2)
	clone.Routes[0][1] = 3

	// 原方案不受克隆修改影响
	if s.Routes[0][1] != 1 {
		t.Error("克隆修改泄漏到原方案的路线")
	}
	if _, dropped := s.Dropped[2]; !dropped {
		t.Error("克隆修改泄漏到原方案的放弃集合")
	}
}

func TestValidate_Violations(t *testing.T) {
	p := buildProblem(t)

	t.Run("站点重复", func(t *testing.T) {
		s := NewEmpty(p)
		s.Insert(0, 1, 1)
		s.Routes[1] = []int{0, 1, 0} // 站点1出现两次
		if err := s.Validate(p); err == nil {
			t.Error("重复站点应违反不变式")
		}
	})

	t.Run("站点丢失", func(t *testing.T) {
		s := NewEmpty(p)
		delete(s.Dropped, 1) // 站点1既不在路线也不在放弃集合
		if err := s.Validate(p); err == nil {
			t.Error("丢失站点应违反不变式")
		}
	})

	t.Run("同时在路线和放弃集合", func(t *testing.T) {
		s := NewEmpty(p)
		s.Routes[0] = []int{0, 1, 0} // 直接改路线，未从放弃集合移除
		if err := s.Validate(p); err == nil {
			t.Error("站点同时在路线和放弃集合应违反不变式")
		}
	})
}

func TestExtract(t *testing.T) {
	p := buildProblem(t)
	s := NewEmpty(p)
	s.Insert(0, 1, 1)
	s.Insert(0, 2, 2)

	plan := Extract(p, s, 125*time.Millisecond)

	// 只输出非空路线
	if len(plan.Routes) != 1 {
		t.Fatalf("非空路线数 = %d, expected 1", len(plan.Routes))
	}

	rp := plan.Routes[0]
	if rp.VehicleID != "v1" {
		t.Errorf("VehicleID = %s, expected v1", rp.VehicleID)
	}
	if len(rp.StopIDs) != 2 || rp.StopIDs[0] != "s1" || rp.StopIDs[1] != "s2" {
		t.Errorf("StopIDs = %v, expected [s1 s2]", rp.StopIDs)
	}
	// 0→1→2→0 = 1000+1200+2000
	if rp.TotalDistance != 4200 {
		t.Errorf("TotalDistance = %d, expected 4200", rp.TotalDistance)
	}
	if rp.TotalLoad != 5 {
		t.Errorf("TotalLoad = %d, expected 5", rp.TotalLoad)
	}

	if len(plan.DroppedStopIDs) != 1 || plan.DroppedStopIDs[0] != "s3" {
		t.Errorf("DroppedStopIDs = %v, expected [s3]", plan.DroppedStopIDs)
	}
	if plan.ElapsedMS != 125 {
		t.Errorf("ElapsedMS = %d, expected 125", plan.ElapsedMS)
	}
	if plan.TotalDistance != 4200 {
		t.Errorf("TotalDistance = %d, expected 4200", plan.TotalDistance)
	}
}
