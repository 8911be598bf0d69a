package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/salary/pkg/logger"
)

// outcome of a single valid case, submitted twice.
type outcome struct {
	tc       Case
	first    float64
	second   float64
	status   [2]int
	err      error
	mismatch bool
}

// Run executes every smoke check against cfg.BaseURL. The returned error
// wraps ErrViolation when any check failed; the report is always returned
// once the run has started.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	log := cfg.Logger

	report := &Report{RunID: uuid.NewString(), StartTime: time.Now()}
	if cfg.Seed == 0 {
		cfg.Seed = seedFromRunID(report.RunID)
	}

	log.Info(ctx, "starting salary smoke run",
		logger.String("runID", report.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.Timeout)
	var mu sync.Mutex
	violate := func(check, format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		report.Violations = append(report.Violations, Violation{Check: check, Detail: fmt.Sprintf(format, args...)})
	}

	// Step 1: the form page
	if resp, err := client.Get(ctx, cfg.BaseURL+"/"); err != nil {
		violate("home", "request failed: %v", err)
	} else if resp.status != http.StatusOK {
		violate("home", "GET / returned %d", resp.status)
	}

	// Step 2: GET on the predict route never yields a prediction
	if resp, err := client.Get(ctx, cfg.BaseURL+"/predict"); err != nil {
		violate("predict_get", "request failed: %v", err)
	} else {
		if !slices.Contains([]int{http.StatusOK, http.StatusFound, http.StatusMethodNotAllowed}, resp.status) {
			violate("predict_get", "GET /predict returned %d", resp.status)
		}
		if strings.Contains(resp.body, PredictionMarker) {
			violate("predict_get", "GET /predict rendered a prediction")
		}
	}

	// Step 3: one non-numeric field is rejected without a crash
	for _, tc := range invalidCases() {
		resp, err := client.PostForm(ctx, cfg.BaseURL+"/predict", tc)
		if err != nil {
			violate("invalid_input", "request failed: %v", err)
			continue
		}
		if !slices.Contains([]int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError}, resp.status) {
			violate("invalid_input", "%+v returned %d", tc, resp.status)
		}
		if strings.Contains(resp.body, PredictionMarker) {
			violate("invalid_input", "%+v rendered a prediction", tc)
		}
		report.Rejected++
	}

	// Step 4: valid triples, each submitted twice, concurrently
	outcomes := submitCases(ctx, cfg, client, generateCases(cfg.Requests, cfg.Seed))
	for _, o := range outcomes {
		report.Requests++
		switch {
		case o.err != nil:
			report.Failed++
			violate("predict_post", "%+v: %v", o.tc, o.err)
		case o.mismatch:
			report.Mismatches++
			violate("idempotence", "%+v returned %.2f then %.2f", o.tc, o.first, o.second)
		default:
			report.Succeeded++
		}
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	if report.Duration > 0 {
		report.RequestsPS = float64(report.Requests*2+len(invalidCases())+2) / report.Duration.Seconds()
	}

	log.Info(ctx, "smoke run finished",
		logger.String("runID", report.RunID),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("failed", report.Failed),
		logger.Int("mismatches", report.Mismatches),
		logger.Int("violations", len(report.Violations)),
		logger.Duration("duration", report.Duration),
		logger.Float64("requestsPerSecond", report.RequestsPS))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if len(report.Violations) > 0 {
		return report, fmt.Errorf("%w: %d violation(s)", ErrViolation, len(report.Violations))
	}
	return report, nil
}

// submitCases posts every case twice using a worker pool.
func submitCases(ctx context.Context, cfg Config, client *HTTPClient, cases []Case) []outcome {
	outcomes := make([]outcome, len(cases))
	idx := make(chan int, cfg.Workers*WorkerChannelMultiplier)
	var done atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				outcomes[i] = submitTwice(ctx, client, cfg.BaseURL+"/predict", cases[i])
				n := done.Add(1)
				if cfg.Verbose {
					cfg.Logger.Debug(ctx, "case submitted",
						logger.Int("n", int(n)),
						logger.Any("case", cases[i]),
						logger.Float64("salary", outcomes[i].first))
				}
			}
		}()
	}

	go func() {
		defer close(idx)
		for i := range cases {
			select {
			case <-ctx.Done():
				return
			case idx <- i:
			}
		}
	}()

	wg.Wait()

	// Cases never dispatched after cancellation are dropped from the result.
	return slices.DeleteFunc(outcomes, func(o outcome) bool { return o.tc == Case{} && o.err == nil })
}

func submitTwice(ctx context.Context, client *HTTPClient, target string, tc Case) outcome {
	o := outcome{tc: tc}
	values := [2]float64{}
	for i := range values {
		resp, err := client.PostForm(ctx, target, tc)
		if err != nil {
			o.err = err
			return o
		}
		o.status[i] = resp.status
		if resp.status != http.StatusOK {
			o.err = fmt.Errorf("status %d", resp.status)
			return o
		}
		v, err := extractSalary(resp.body)
		if err != nil {
			o.err = err
			return o
		}
		values[i] = v
	}
	o.first, o.second = values[0], values[1]
	o.mismatch = o.first != o.second
	return o
}

func normalize(cfg *Config) error {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	}
	if cfg.Requests < 0 {
		return fmt.Errorf("%w: requests must not be negative", ErrInvalidConfig)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Get()
	}
	return nil
}

// IsViolation reports whether err came from failed checks rather than from
// configuration or cancellation.
func IsViolation(err error) bool {
	return errors.Is(err, ErrViolation)
}
