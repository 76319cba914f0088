package problem

import (
	"testing"

	"github.com/luxian/luxian/pkg/errors"
	"github.com/luxian/luxian/pkg/model"
)

func validStops() []model.Stop {
	return []model.Stop{
		{ID: "depot"},
		{ID: "s1", Demand: 2, ServiceTime: 10},
		{ID: "s2", Demand: 1, ServiceTime: 10, TimeWindow: &model.TimeWindow{Earliest: 60, Latest: 180}},
	}
}

func validVehicles() []model.Vehicle {
	return []model.Vehicle{
		{ID: "v1", Capacity: 5},
	}
}

func validDist() [][]int64 {
	return [][]int64{
		{0, 1000, 2000},
		{1000, 0, 1500},
		{2000, 1500, 0},
	}
}

func validTravel() [][]int64 {
	return [][]int64{
		{0, 20, 40},
		{20, 0, 30},
		{40, 30, 0},
	}
}

func TestNew(t *testing.T) {
	p, err := New(validStops(), validVehicles(), validDist(), validTravel(), DefaultOptions())
	if err != nil {
		t.Fatalf("New() 失败: %v", err)
	}

	if p.NumStops() != 3 {
		t.Errorf("NumStops() = %d, expected 3", p.NumStops())
	}
	if p.NumVehicles() != 1 {
		t.Errorf("NumVehicles() = %d, expected 1", p.NumVehicles())
	}
	if p.Dist(0, 1) != 1000 {
		t.Errorf("Dist(0,1) = %d, expected 1000", p.Dist(0, 1))
	}
	if p.Travel(1, 2) != 30 {
		t.Errorf("Travel(1,2) = %d, expected 30", p.Travel(1, 2))
	}
	if !p.Droppable(1) {
		t.Error("普通站点应允许被放弃")
	}
	if p.Droppable(0) {
		t.Error("仓库不参与析取")
	}
	if p.MaxArcCost() != 2000 {
		t.Errorf("MaxArcCost() = %d, expected 2000", p.MaxArcCost())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(stops []model.Stop, vehicles []model.Vehicle) ([]model.Stop, []model.Vehicle)
	}{
		{
			name: "仓库需求非零",
			modify: func(s []model.Stop, v []model.Vehicle) ([]model.Stop, []model.Vehicle) {
				s[0].Demand = 1
				return s, v
			},
		},
		{
			name: "仓库声明时间窗口",
			modify: func(s []model.Stop, v []model.Vehicle) ([]model.Stop, []model.Vehicle) {
				s[0].TimeWindow = &model.TimeWindow{Earliest: 0, Latest: 60}
				return s, v
			},
		},
		{
			name: "负需求",
			modify: func(s []model.Stop, v []model.Vehicle) ([]model.Stop, []model.Vehicle) {
				s[1].Demand = -1
				return s, v
			},
		},
		{
			name: "时间窗口倒置",
			modify: func(s []model.Stop, v []model.Vehicle) ([]model.Stop, []model.Vehicle) {
				s[2].TimeWindow = &model.TimeWindow{Earliest: 200, Latest: 100}
				return s, v
			},
		},
		{
			name: "负服务时长",
			modify: func(s []model.Stop, v []model.Vehicle) ([]model.Stop, []model.Vehicle) {
				s[1].ServiceTime = -5
				return s, v
			},
		},
		{
			name: "车辆出发站点不存在",
			modify: func(s []model.Stop, v []model.Vehicle) ([]model.Stop, []model.Vehicle) {
				v[0].StartIndex = 9
				return s, v
			},
		},
		{
			name: "车辆返回站点不存在",
			modify: func(s []model.Stop, v []model.Vehicle) ([]model.Stop, []model.Vehicle) {
				v[0].EndIndex = -1
				return s, v
			},
		},
		{
			name: "负容量",
			modify: func(s []model.Stop, v []model.Vehicle) ([]model.Stop, []model.Vehicle) {
				v[0].Capacity = -1
				return s, v
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stops, vehicles := tt.modify(validStops(), validVehicles())
			_, err := New(stops, vehicles, validDist(), validTravel(), DefaultOptions())
			if err == nil {
				t.Fatal("应返回校验错误")
			}
			if !errors.Is(err, errors.CodeInvalidInstance) {
				t.Errorf("错误码 = %s, expected INVALID_INSTANCE", errors.GetCode(err))
			}
		})
	}
}

func TestNew_TimeMatrixRequired(t *testing.T) {
	opts := DefaultOptions()
	opts.UseTimeWindows = true
	_, err := New(validStops(), validVehicles(), validDist(), nil, opts)
	if err == nil {
		t.Fatal("启用时间窗口却未提供时间矩阵应返回错误")
	}
}

func TestVehicleMaxDistance(t *testing.T) {
	vehicles := validVehicles()
	vehicles[0].MaxDistance = 5000
	p, err := New(validStops(), vehicles, validDist(), validTravel(), DefaultOptions())
	if err != nil {
		t.Fatalf("New() 失败: %v", err)
	}
	if p.VehicleMaxDistance(0) != 5000 {
		t.Errorf("VehicleMaxDistance(0) = %d, expected 5000", p.VehicleMaxDistance(0))
	}

	vehicles2 := validVehicles()
	p2, _ := New(validStops(), vehicles2, validDist(), validTravel(), DefaultOptions())
	if p2.VehicleMaxDistance(0) != DefaultMaxDistance {
		t.Errorf("未设置车辆上限应使用默认上限 %d, got %d", DefaultMaxDistance, p2.VehicleMaxDistance(0))
	}
}

func TestMandatoryStop(t *testing.T) {
	stops := validStops()
	stops[1].Mandatory = true
	p, err := New(stops, validVehicles(), validDist(), validTravel(), DefaultOptions())
	if err != nil {
		t.Fatalf("New() 失败: %v", err)
	}
	if p.Droppable(1) {
		t.Error("必访站点不允许被放弃")
	}
	if !p.Droppable(2) {
		t.Error("非必访站点应允许被放弃")
	}
}
