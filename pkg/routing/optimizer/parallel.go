// Package optimizer 提供路线方案的局部搜索优化
package optimizer

import (
	"context"
	"sync"

	"github.com/luxian/luxian/pkg/routing/problem"
	"github.com/luxian/luxian/pkg/routing/solution"
)

// ParallelEvaluator 并行评估器
// 对一批候选方案做fan-out/fan-in式目标值评估；提交由调用方串行完成
type ParallelEvaluator struct {
	workers int
	p       *problem.Problem
}

// NewParallelEvaluator 创建并行评估器
func NewParallelEvaluator(workers int, p *problem.Problem) *ParallelEvaluator {
	if workers <= 0 {
		workers = 4
	}
	return &ParallelEvaluator{
		workers: workers,
		p:       p,
	}
}

// EvalResult 单个候选的评估结果
type EvalResult struct {
	Index     int
	Solution  *solution.Solution
	Objective int64
	Key       uint64 // 禁忌表键
}

// EvaluateBatch 并行评估一批候选方案
// 每个候选在独立副本上评估，结果按输入顺序返回
func (p *ParallelEvaluator) EvaluateBatch(ctx context.Context, candidates []*solution.Solution) []EvalResult {
	if len(candidates) == 0 {
		return nil
	}

	jobChan := make(chan int, len(candidates))
	resultChan := make(chan EvalResult, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					cand := candidates[idx]
					resultChan <- EvalResult{
						Index:     idx,
						Solution:  cand,
						Objective: cand.Objective(p.p),
						Key:       hashSolution(cand),
					}
				}
			}
		}()
	}

	for i := range candidates {
		jobChan <- i
	}
	close(jobChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]EvalResult, len(candidates))
	for r := range resultChan {
		results[r.Index] = r
	}

	return results
}

// FindBest 从评估结果中找出目标值最小的候选
func (p *ParallelEvaluator) FindBest(results []EvalResult) *EvalResult {
	var best *EvalResult
	for i := range results {
		if results[i].Solution == nil {
			continue
		}
		if best == nil || results[i].Objective < best.Objective {
			best = &results[i]
		}
	}
	return best
}
