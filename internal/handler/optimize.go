// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/luxian/luxian/internal/config"
	"github.com/luxian/luxian/internal/metrics"
	"github.com/luxian/luxian/pkg/errors"
	"github.com/luxian/luxian/pkg/model"
	"github.com/luxian/luxian/pkg/routing"
	"github.com/luxian/luxian/pkg/routing/optimizer"
	"github.com/luxian/luxian/pkg/routing/solution"
	"github.com/luxian/luxian/pkg/routing/solver"
)

// OptimizeHandler 路线优化处理器
type OptimizeHandler struct {
	cfg config.SolverConfig
}

// NewOptimizeHandler 创建路线优化处理器
func NewOptimizeHandler(cfg config.SolverConfig) *OptimizeHandler {
	return &OptimizeHandler{cfg: cfg}
}

// LocationInput 站点输入
// 首个站点约定为仓库：需求为零、无时间窗口
type LocationInput struct {
	ID              string  `json:"id"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Demand          int64   `json:"demand,omitempty"`
	TimeWindowStart *int64  `json:"time_window_start,omitempty"` // 相对时刻（分钟）
	TimeWindowEnd   *int64  `json:"time_window_end,omitempty"`
	ServiceTime     int64   `json:"service_time,omitempty"` // 分钟，缺省10
	Mandatory       bool    `json:"mandatory,omitempty"`
}

// VehicleInput 车辆输入
type VehicleInput struct {
	ID          string `json:"id"`
	Capacity    int64  `json:"capacity"`
	MaxDistance int64  `json:"max_distance_meters,omitempty"`
	MaxTime     int64  `json:"max_time_minutes,omitempty"`
}

// OptimizeRequest 路线优化请求
type OptimizeRequest struct {
	Locations        []LocationInput `json:"locations"`
	Vehicles         []VehicleInput  `json:"vehicles"`
	TimeLimitSeconds int             `json:"time_limit_seconds,omitempty"`
	UseTimeWindows   *bool           `json:"use_time_windows,omitempty"` // 缺省启用
	DropPenalty      int64           `json:"drop_penalty,omitempty"`
	Strategy         string          `json:"strategy,omitempty"`
	Metaheuristic    string          `json:"metaheuristic,omitempty"`
}

// RouteOutput 单条路线输出
type RouteOutput struct {
	VehicleID     string   `json:"vehicle_id"`
	StopIDs       []string `json:"stop_ids"`
	TotalDistance int64    `json:"total_distance_meters"`
	TotalTime     int64    `json:"total_time_minutes"`
	TotalLoad     int64    `json:"total_load"`
}

// OptimizeResponse 路线优化响应
type OptimizeResponse struct {
	PlanID           string        `json:"plan_id"`
	Routes           []RouteOutput `json:"routes"`
	TotalDistance    int64         `json:"total_distance_meters"`
	TotalTime        int64         `json:"total_time_minutes"`
	DroppedLocations []string      `json:"dropped_locations"`
	ComputationMS    int64         `json:"computation_time_ms"`
}

// Optimize 处理路线优化请求
// POST /api/v1/routes/optimize
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "请求体解析失败"))
		return
	}

	if len(req.Locations) < 2 {
		respondError(w, errors.InvalidInstance("locations", "至少需要2个站点（仓库+1个配送点）"))
		return
	}
	if len(req.Vehicles) < 1 {
		respondError(w, errors.InvalidInstance("vehicles", "至少需要1辆车"))
		return
	}

	engineCfg := h.buildEngineConfig(&req)
	stops := toStops(req.Locations)
	vehicles := toVehicles(req.Vehicles)

	metrics.ActiveSolves.Inc()
	defer metrics.ActiveSolves.Dec()

	start := time.Now()
	plan, err := routing.NewEngine(engineCfg).Solve(r.Context(), stops, vehicles)
	metrics.RecordSolve(engineCfg.Strategy.String(), err == nil, len(stops), droppedCount(plan), time.Since(start))
	if err != nil {
		respondAppError(w, err)
		return
	}

	metrics.SolutionDistance.Set(float64(plan.TotalDistance))

	resp := OptimizeResponse{
		PlanID:           uuid.New().String(),
		Routes:           make([]RouteOutput, 0, len(plan.Routes)),
		TotalDistance:    plan.TotalDistance,
		TotalTime:        plan.TotalTime,
		DroppedLocations: plan.DroppedStopIDs,
		ComputationMS:    plan.ElapsedMS,
	}
	for _, route := range plan.Routes {
		resp.Routes = append(resp.Routes, RouteOutput{
			VehicleID:     route.VehicleID,
			StopIDs:       route.StopIDs,
			TotalDistance: route.TotalDistance,
			TotalTime:     route.TotalTime,
			TotalLoad:     route.TotalLoad,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

// buildEngineConfig 合并服务默认配置与请求级覆盖
func (h *OptimizeHandler) buildEngineConfig(req *OptimizeRequest) *routing.Config {
	cfg := routing.DefaultEngineConfig()
	cfg.TimeLimit = h.cfg.TimeLimit
	cfg.MaxIterations = h.cfg.MaxIterations
	cfg.Workers = h.cfg.Workers
	cfg.Strategy = solver.ParseStrategy(h.cfg.Strategy)
	cfg.Metaheuristic = optimizer.ParseMetaheuristic(h.cfg.Metaheuristic)

	if req.TimeLimitSeconds > 0 {
		cfg.TimeLimit = time.Duration(req.TimeLimitSeconds) * time.Second
	}
	if req.UseTimeWindows != nil {
		cfg.UseTimeWindows = *req.UseTimeWindows
	}
	if req.DropPenalty > 0 {
		cfg.DropPenalty = req.DropPenalty
	}
	if req.Strategy != "" {
		cfg.Strategy = solver.ParseStrategy(req.Strategy)
	}
	if req.Metaheuristic != "" {
		cfg.Metaheuristic = optimizer.ParseMetaheuristic(req.Metaheuristic)
	}
	return cfg
}

// toStops 转换站点输入
func toStops(inputs []LocationInput) []model.Stop {
	stops := make([]model.Stop, 0, len(inputs))
	for _, in := range inputs {
		s := model.Stop{
			ID: in.ID,
			Location: model.Location{
				Latitude:  in.Latitude,
				Longitude: in.Longitude,
			},
			Demand:      in.Demand,
			ServiceTime: in.ServiceTime,
			Mandatory:   in.Mandatory,
		}
		if s.ServiceTime == 0 {
			s.ServiceTime = model.DefaultServiceTime
		}
		if in.TimeWindowStart != nil && in.TimeWindowEnd != nil {
			s.TimeWindow = &model.TimeWindow{
				Earliest: *in.TimeWindowStart,
				Latest:   *in.TimeWindowEnd,
			}
		}
		stops = append(stops, s)
	}
	return stops
}

// toVehicles 转换车辆输入
// 所有车辆从仓库（索引0）出发并返回
func toVehicles(inputs []VehicleInput) []model.Vehicle {
	vehicles := make([]model.Vehicle, 0, len(inputs))
	for _, in := range inputs {
		vehicles = append(vehicles, model.Vehicle{
			ID:          in.ID,
			Capacity:    in.Capacity,
			MaxDistance: in.MaxDistance,
			MaxTime:     in.MaxTime,
		})
	}
	return vehicles
}

func droppedCount(plan *solution.Plan) int {
	if plan == nil {
		return 0
	}
	return len(plan.DroppedStopIDs)
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
		"fields":  err.Fields,
	})
}

// respondAppError 将任意错误映射为错误响应
func respondAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		respondError(w, appErr)
		return
	}
	respondError(w, errors.Wrap(err, errors.CodeInternal, "路线求解失败"))
}
