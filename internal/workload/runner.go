// Package workload drives insert or update operations through the binding's
// plugin contract from a pool of workers.
package workload

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/panjf2000/ants/v2"
	"github.com/razorpay/kafkabench/internal/binding"
	"github.com/razorpay/kafkabench/internal/merror"
	"github.com/razorpay/kafkabench/pkg/logger"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Report summarises a run
type Report struct {
	Operation string
	Attempted int64
	OK        int64
	Errors    int64
	// NotImplemented counts operations the binding refused as unsupported
	NotImplemented int64
	Elapsed        time.Duration
}

// Throughput is the number of attempted operations per second
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Attempted) / r.Elapsed.Seconds()
}

// Runner issues cfg.RecordCount operations against db
type Runner struct {
	ctx context.Context
	db  binding.DB
	cfg Config
}

// NewRunner validates cfg and returns a runner
func NewRunner(ctx context.Context, db binding.DB, cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{ctx: ctx, db: db, cfg: cfg}, nil
}

// Printf lets the runner act as the pool's logger
func (r *Runner) Printf(format string, args ...interface{}) {
	logger.Ctx(r.ctx).Infof(format, args...)
}

// Run blocks until every operation finished or ctx is cancelled. Operations already
// handed to the pool complete even after cancellation.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	var attempted, ok, failed, unsupported int64
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(r.cfg.ThreadCount, func(i interface{}) {
		defer wg.Done()
		n := i.(int)

		start := time.Now()
		status := r.execute(ctx, n)
		workloadOperationLatency.WithLabelValues(env, r.cfg.Operation).Observe(time.Since(start).Seconds())
		workloadOperationCount.WithLabelValues(env, r.cfg.Operation, status.String()).Inc()

		atomic.AddInt64(&attempted, 1)
		switch {
		case status.IsOK():
			atomic.AddInt64(&ok, 1)
		case status == binding.NotImplemented:
			atomic.AddInt64(&unsupported, 1)
		default:
			atomic.AddInt64(&failed, 1)
		}
	},
		ants.WithLogger(r),
		ants.WithPreAlloc(false),
		ants.WithPanicHandler(func(p interface{}) {
			atomic.AddInt64(&failed, 1)
			logger.Ctx(ctx).Errorw("workload operation panicked", "panic", p)
		}),
	)
	if err != nil {
		return nil, merror.Wrap(merror.Unknown, err, "failed to create worker pool")
	}
	defer pool.Release()

	logger.Ctx(ctx).Infow("workload started", "operation", r.cfg.Operation, "records", r.cfg.RecordCount, "threads", r.cfg.ThreadCount)

	started := time.Now()
	var runErr error
	for n := 0; n < r.cfg.RecordCount; n++ {
		if ctx.Err() != nil {
			runErr = ctx.Err()
			break
		}
		wg.Add(1)
		if err := pool.Invoke(r.cfg.InsertStart + n); err != nil {
			wg.Done()
			runErr = merror.Wrap(merror.Unknown, err, "failed to submit operation")
			break
		}
	}
	wg.Wait()

	report := &Report{
		Operation:      r.cfg.Operation,
		Attempted:      atomic.LoadInt64(&attempted),
		OK:             atomic.LoadInt64(&ok),
		Errors:         atomic.LoadInt64(&failed),
		NotImplemented: atomic.LoadInt64(&unsupported),
		Elapsed:        time.Since(started),
	}

	logger.Ctx(ctx).Infow("workload finished",
		"operation", report.Operation,
		"attempted", report.Attempted,
		"ok", report.OK,
		"errors", report.Errors,
		"elapsedMs", report.Elapsed.Milliseconds(),
		"opsPerSec", report.Throughput())

	return report, runErr
}

func (r *Runner) execute(ctx context.Context, n int) binding.Status {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Workload:"+r.cfg.Operation)
	defer span.Finish()

	key := r.cfg.KeyPrefix + strconv.Itoa(n)
	values := buildValues(r.cfg.FieldCount, r.cfg.FieldLength)

	if r.cfg.Operation == OperationUpdate {
		return r.db.Update(ctx, r.cfg.Table, key, values)
	}
	return r.db.Insert(ctx, r.cfg.Table, key, values)
}

func buildValues(fieldCount, fieldLength int) map[string][]byte {
	values := make(map[string][]byte, fieldCount)
	for i := 0; i < fieldCount; i++ {
		v := make([]byte, fieldLength)
		for j := range v {
			v[j] = letters[rand.Intn(len(letters))]
		}
		values["field"+strconv.Itoa(i)] = v
	}
	return values
}
