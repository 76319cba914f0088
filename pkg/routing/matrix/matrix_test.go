package matrix

import (
	"testing"

	"github.com/luxian/luxian/pkg/errors"
	"github.com/luxian/luxian/pkg/model"
)

func testStops() []model.Stop {
	return []model.Stop{
		{ID: "depot", Location: model.Location{Latitude: 39.9042, Longitude: 116.4074}},
		{ID: "s1", Location: model.Location{Latitude: 39.9142, Longitude: 116.4174}},
		{ID: "s2", Location: model.Location{Latitude: 39.9500, Longitude: 116.3800}},
	}
}

func TestBuild(t *testing.T) {
	m, err := Build(testStops())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	if len(m) != 3 {
		t.Fatalf("矩阵阶数 = %d, expected 3", len(m))
	}

	for i := range m {
		if m[i][i] != 0 {
			t.Errorf("对角线 m[%d][%d] = %d, expected 0", i, i, m[i][i])
		}
		for j := range m[i] {
			if m[i][j] < 0 {
				t.Errorf("m[%d][%d] = %d, 成本不应为负", i, j, m[i][j])
			}
			if m[i][j] != m[j][i] {
				t.Errorf("大圆距离应对称: m[%d][%d]=%d m[%d][%d]=%d", i, j, m[i][j], j, i, m[j][i])
			}
		}
	}

	// 约1.4公里
	if m[0][1] < 1200 || m[0][1] > 1600 {
		t.Errorf("m[0][1] = %d, expected 约1400米", m[0][1])
	}
}

func TestBuild_Idempotent(t *testing.T) {
	stops := testStops()
	m1, err := Build(stops)
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}
	m2, err := Build(stops)
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	for i := range m1 {
		for j := range m1[i] {
			if m1[i][j] != m2[i][j] {
				t.Fatalf("重复调用结果不一致: m[%d][%d] %d != %d", i, j, m1[i][j], m2[i][j])
			}
		}
	}
}

func TestBuild_TooFewStops(t *testing.T) {
	_, err := Build([]model.Stop{{ID: "depot"}})
	if err == nil {
		t.Fatal("少于2个站点应返回错误")
	}
	if !errors.Is(err, errors.CodeInvalidInstance) {
		t.Errorf("错误码 = %s, expected INVALID_INSTANCE", errors.GetCode(err))
	}
}

func TestTravelTime(t *testing.T) {
	dist := [][]int64{
		{0, 1000},
		{1000, 0},
	}
	tm := TravelTime(dist)
	if tm[0][1] != 20 {
		t.Errorf("TravelTime 1000米 = %d分钟, expected 20", tm[0][1])
	}
	if tm[0][0] != 0 {
		t.Errorf("对角线应为0, got %d", tm[0][0])
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       [][]int64
		stops   int
		wantErr bool
	}{
		{"合法矩阵", [][]int64{{0, 5}, {5, 0}}, 2, false},
		{"阶数不符", [][]int64{{0, 5}, {5, 0}}, 3, true},
		{"非方阵", [][]int64{{0, 5}, {5}}, 2, true},
		{"负成本", [][]int64{{0, -1}, {5, 0}}, 2, true},
		{"对角线非零", [][]int64{{1, 5}, {5, 0}}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.m, tt.stops)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
