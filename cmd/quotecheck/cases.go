// README: Smoke-check cases: health, estimate fixtures, DB/Redis connectivity, load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type CheckCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	cases := []CheckCase{
		{Name: "health endpoint", Run: checkHealth},
		{Name: "estimate minimum fare", Run: checkEstimateMinimumFare},
		{Name: "estimate above minimum", Run: checkEstimateAboveMinimum},
		{Name: "db config tables", Run: checkDB},
		{Name: "redis reachable", Run: checkRedis},
		{Name: "estimate load", Run: checkEstimateLoad},
	}

	var results []Result
	for _, c := range cases {
		start := time.Now()
		res := c.Run(ctx, r)
		res.Name = c.Name
		if res.Latency == 0 {
			res.Latency = time.Since(start)
		}
		fmt.Printf("[%s] %-24s %8s  %s\n", res.Status, res.Name, res.Latency.Round(time.Millisecond), res.Note)
		results = append(results, res)
	}
	return results
}

func checkHealth(ctx context.Context, r *Runner) Result {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return Result{Status: "PASS"}
}

type estimateResponse struct {
	BaseFare float64 `json:"base_fare"`
	Totals   struct {
		GrandTotal float64 `json:"grand_total"`
	} `json:"totals"`
	Priceable bool `json:"priceable"`
}

func (r *Runner) estimate(ctx context.Context, body map[string]any) (estimateResponse, error) {
	var out estimateResponse
	raw, err := json.Marshal(body)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/api/pricing/estimate", bytes.NewReader(raw))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, err
	}
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("status %d: %s", resp.StatusCode, payload)
	}
	return out, json.Unmarshal(payload, &out)
}

// checkEstimateMinimumFare assumes the seed rate card: vehicle class 1 with a
// 25 km / $80 distance minimum. A trip at the threshold must price exactly
// the minimum.
func checkEstimateMinimumFare(ctx context.Context, r *Runner) Result {
	resp, err := r.estimate(ctx, map[string]any{
		"vehicle_class_id": 1, "service_type_id": 1, "distance_km": 25,
	})
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if !resp.Priceable {
		return Result{Status: "SKIP", Note: "seed rate card not loaded"}
	}
	if resp.BaseFare != 80 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("base fare %.2f, want 80.00", resp.BaseFare)}
	}
	return Result{Status: "PASS"}
}

func checkEstimateAboveMinimum(ctx context.Context, r *Runner) Result {
	resp, err := r.estimate(ctx, map[string]any{
		"vehicle_class_id": 1, "service_type_id": 1, "distance_km": 30,
	})
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if !resp.Priceable {
		return Result{Status: "SKIP", Note: "seed rate card not loaded"}
	}
	if math.Abs(resp.BaseFare-88.5) > 0.001 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("base fare %.2f, want 88.50", resp.BaseFare)}
	}
	return Result{Status: "PASS"}
}

func checkDB(ctx context.Context, r *Runner) Result {
	if r.cfg.DSN == "" {
		return Result{Status: "SKIP", Note: "no DSN"}
	}
	db, err := pgxpool.New(ctx, r.cfg.DSN)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	defer db.Close()

	for _, table := range []string{"vehicle_classes", "service_types", "surcharge_rules", "tax_rates", "quotes"} {
		var n int
		if err := db.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&n); err != nil {
			return Result{Status: "FAIL", Note: fmt.Sprintf("%s: %v", table, err)}
		}
	}
	return Result{Status: "PASS"}
}

func checkRedis(ctx context.Context, r *Runner) Result {
	if r.cfg.RedisAddr == "" {
		return Result{Status: "SKIP", Note: "no redis address"}
	}
	client := redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	return Result{Status: "PASS"}
}

// checkEstimateLoad hammers the estimate endpoint and reports p99-ish worst
// latency; the engine is pure computation so this mostly measures the HTTP
// and config-cache path.
func checkEstimateLoad(ctx context.Context, r *Runner) Result {
	loadCtx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	var (
		wg       sync.WaitGroup
		requests atomic.Int64
		failures atomic.Int64
		worstNs  atomic.Int64
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for loadCtx.Err() == nil {
				start := time.Now()
				_, err := r.estimate(loadCtx, map[string]any{
					"vehicle_class_id": 1, "service_type_id": 1, "distance_km": 30,
				})
				elapsed := time.Since(start).Nanoseconds()
				if loadCtx.Err() != nil {
					return
				}
				requests.Add(1)
				if err != nil {
					failures.Add(1)
				}
				for {
					cur := worstNs.Load()
					if elapsed <= cur || worstNs.CompareAndSwap(cur, elapsed) {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	total := requests.Load()
	if total == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	note := fmt.Sprintf("%d reqs, %d failed, worst %s", total, failures.Load(), time.Duration(worstNs.Load()).Round(time.Millisecond))
	if failures.Load() > 0 {
		return Result{Status: "FAIL", Note: note}
	}
	return Result{Status: "PASS", Note: note, Latency: r.cfg.Duration}
}
