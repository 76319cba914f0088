// Package matrix 提供成本矩阵构建
package matrix

import (
	"github.com/luxian/luxian/pkg/errors"
	"github.com/luxian/luxian/pkg/model"
)

// SpeedMetersPerMinute 距离换算行驶时间的固定速度（米/分钟）
const SpeedMetersPerMinute = 50

// Build 根据站点坐标计算两两距离矩阵（米）
// 纯函数，对相同输入顺序产生逐位相同的结果；对角线为零
func Build(stops []model.Stop) ([][]int64, error) {
	if len(stops) < 2 {
		return nil, errors.InvalidInstance("stops", "至少需要2个站点（仓库+1个配送点）")
	}

	n := len(stops)
	m := make([][]int64, n)
	for i := 0; i < n; i++ {
		m[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			m[i][j] = stops[i].Location.DistanceMeters(stops[j].Location)
		}
	}

	return m, nil
}

// TravelTime 由距离矩阵推导行驶时间矩阵（分钟）
func TravelTime(dist [][]int64) [][]int64 {
	n := len(dist)
	m := make([][]int64, n)
	for i := 0; i < n; i++ {
		m[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			m[i][j] = dist[i][j] / SpeedMetersPerMinute
		}
	}
	return m
}

// EstimateMinutes 无时间矩阵时的行驶时间估算（分钟）
func EstimateMinutes(distance int64) int64 {
	return distance / SpeedMetersPerMinute
}

// Validate 校验外部提供的成本矩阵
// 要求方阵、阶数与站点数一致、对角线为零、元素非负
func Validate(m [][]int64, stops int) error {
	if len(m) != stops {
		return errors.InvalidInstance("cost_matrix", "矩阵阶数与站点数不一致")
	}
	for i, row := range m {
		if len(row) != stops {
			return errors.InvalidInstance("cost_matrix", "矩阵必须为方阵")
		}
		for j, v := range row {
			if v < 0 {
				return errors.InvalidInstance("cost_matrix", "成本不允许为负")
			}
			if i == j && v != 0 {
				return errors.InvalidInstance("cost_matrix", "对角线必须为零")
			}
		}
	}
	return nil
}
