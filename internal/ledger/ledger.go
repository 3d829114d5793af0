package ledger

import (
	"sync"
	"time"

	"ollamarouter/internal/core"
)

// Ledger is the append-only performance history. One mutex serializes
// appends and score recomputation so each Record call reads a consistent
// most-recent-20 window; appends are ordered by completion time of their
// triggering call, which makes the window approximately recent across
// concurrent completions.
type Ledger struct {
	mu      sync.Mutex
	records []core.PerformanceRecord

	maxHistory      int
	storage         core.StorageInterface
	logger          core.Logger
	clock           core.Clock
	minSaveInterval time.Duration
	lastSaveTime    time.Time
}

// LedgerConfig configures a Ledger. Storage may be nil (no persistence).
type LedgerConfig struct {
	HistorySize  int
	SaveInterval time.Duration
	Storage      core.StorageInterface
	Logger       core.Logger
	Clock        core.Clock
}

// NewLedger creates a ledger with the given configuration.
func NewLedger(config LedgerConfig) *Ledger {
	if config.HistorySize <= 0 {
		config.HistorySize = core.LedgerHistorySize
	}
	if config.SaveInterval <= 0 {
		config.SaveInterval = core.MinSaveInterval
	}
	if config.Logger == nil {
		config.Logger = &core.NopLogger{}
	}
	if config.Clock == nil {
		config.Clock = core.SystemClock{}
	}
	return &Ledger{
		records:         make([]core.PerformanceRecord, 0, config.HistorySize),
		maxHistory:      config.HistorySize,
		storage:         config.Storage,
		logger:          config.Logger,
		clock:           config.Clock,
		minSaveInterval: config.SaveInterval,
	}
}

// Record appends one observation and recomputes the model's performance
// score from its most recent observations. The returned score is valid
// only when ok is true; ok is false when the recent window holds no
// successes, in which case the previous score stands.
func (l *Ledger) Record(modelName, taskType string, responseTime float64, tokenCount int, success bool) (score float64, ok bool) {
	l.mu.Lock()

	l.records = append(l.records, core.PerformanceRecord{
		ModelName:    modelName,
		TaskType:     taskType,
		ResponseTime: responseTime,
		TokenCount:   tokenCount,
		Success:      success,
		Timestamp:    l.clock.Now(),
	})
	if len(l.records) > l.maxHistory {
		l.records = l.records[len(l.records)-l.maxHistory:]
	}

	score, ok = l.scoreLocked(modelName)
	l.mu.Unlock()

	l.saveDebounced()
	return score, ok
}

// scoreLocked derives the score from the model's most recent
// ScoreWindowSize observations: success rate over the fixed window size,
// latency averaged over the successful subset only.
func (l *Ledger) scoreLocked(modelName string) (float64, bool) {
	var window []core.PerformanceRecord
	for i := len(l.records) - 1; i >= 0 && len(window) < core.ScoreWindowSize; i-- {
		if l.records[i].ModelName == modelName {
			window = append(window, l.records[i])
		}
	}

	successes := 0
	totalLatency := 0.0
	for _, rec := range window {
		if rec.Success {
			successes++
			totalLatency += rec.ResponseTime
		}
	}

	if successes == 0 {
		// No successful observations in the window: leave the previous
		// score untouched rather than deriving one from an empty average.
		return 0, false
	}

	successRate := float64(successes) / float64(core.ScoreWindowSize)
	avgLatency := totalLatency / float64(successes)

	return (successRate * core.ScoreSuccessWeight) / (avgLatency + core.ScoreLatencyDamping), true
}

// Stats aggregates the full history per model. PerformanceScore is left
// zero here; the caller merges in the catalog's current score.
func (l *Ledger) Stats() map[string]core.ModelStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	type accum struct {
		total        int
		successes    int
		totalLatency float64
		totalTokens  int
	}

	accums := make(map[string]*accum)
	for _, rec := range l.records {
		a, exists := accums[rec.ModelName]
		if !exists {
			a = &accum{}
			accums[rec.ModelName] = a
		}
		a.total++
		if rec.Success {
			a.successes++
			a.totalLatency += rec.ResponseTime
			a.totalTokens += rec.TokenCount
		}
	}

	stats := make(map[string]core.ModelStats, len(accums))
	for name, a := range accums {
		if a.successes == 0 {
			stats[name] = core.ModelStats{TotalRequests: a.total}
			continue
		}

		avgLatency := a.totalLatency / float64(a.successes)
		avgTokens := float64(a.totalTokens) / float64(a.successes)

		entry := core.ModelStats{
			TotalRequests:   a.total,
			SuccessRate:     float64(a.successes) / float64(a.total),
			AvgResponseTime: avgLatency,
			AvgTokens:       avgTokens,
		}
		if avgLatency > 0 {
			entry.TokensPerSecond = avgTokens / avgLatency
		}
		stats[name] = entry
	}
	return stats
}

// Size returns the number of records currently held.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// LoadHistory restores persisted history, typically at startup.
func (l *Ledger) LoadHistory() error {
	if l.storage == nil {
		return nil
	}

	history, err := l.storage.LoadHistory()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = history.Records
	if len(l.records) > l.maxHistory {
		l.records = l.records[len(l.records)-l.maxHistory:]
	}
	return nil
}

// saveDebounced persists the history at most once per save interval.
func (l *Ledger) saveDebounced() {
	if l.storage == nil {
		return
	}

	now := l.clock.Now()

	l.mu.Lock()
	if now.Sub(l.lastSaveTime) < l.minSaveInterval {
		l.mu.Unlock()
		return
	}
	l.lastSaveTime = now
	history := l.historyLocked()
	l.mu.Unlock()

	if err := l.storage.SaveHistory(history); err != nil {
		l.logger.Warn("Failed to save performance history: %v", err)
	}
}

func (l *Ledger) historyLocked() *core.PerformanceHistory {
	records := make([]core.PerformanceRecord, len(l.records))
	copy(records, l.records)
	return &core.PerformanceHistory{Records: records}
}

// Close persists the final history state.
func (l *Ledger) Close() error {
	if l.storage == nil {
		return nil
	}

	l.mu.Lock()
	history := l.historyLocked()
	l.mu.Unlock()

	return l.storage.SaveHistory(history)
}
