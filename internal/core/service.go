package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/JonMunkholm/examplan/internal/index"
)

// DefaultParseTimeout bounds decoding plus reconstruction of one document.
var DefaultParseTimeout = 2 * time.Minute

// Decoder turns PDF bytes into pages of positioned fragments.
type Decoder interface {
	ReadPages(ctx context.Context, data []byte) ([]Page, error)
}

// ScheduleStore persists parsed schedules.
type ScheduleStore interface {
	SaveSchedule(ctx context.Context, s *Schedule) error
	LatestSchedules(ctx context.Context) ([]*Schedule, error)
	ListSchedules(ctx context.Context, limit int) ([]ScheduleSummary, error)
}

// ServiceConfig holds the service tunables.
type ServiceConfig struct {
	Layout        Layout
	Semesters     []string // selectable semester values
	CacheEntries  int
	MaxConcurrent int
	MaxWait       time.Duration
	ParseTimeout  time.Duration
	LoadWorkers   int
	DefaultPlan   string
}

// PlanInfo describes one loaded plan.
type PlanInfo struct {
	Name      string    `json:"name"`
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"file_name"`
	PageCount int       `json:"page_count"`
	Records   int       `json:"records"`
	Dropped   int       `json:"dropped"`
	ParsedAt  time.Time `json:"parsed_at"`
	Default   bool      `json:"default"`
}

// QueryResult is a filtered view of one plan.
type QueryResult struct {
	Plan     PlanInfo           `json:"plan"`
	Columns  []ColumnDefinition `json:"-"`
	Entries  []ExamRecord       `json:"entries"`
	Total    int                `json:"total"`
	Filtered int                `json:"filtered"`
}

type plan struct {
	schedule *Schedule
	index    *index.Index
}

// Service owns the loaded exam plans.
type Service struct {
	decoder Decoder
	store   ScheduleStore
	cfg     ServiceConfig
	limiter *ParseLimiter
	cache   *lru.Cache[string, *ParseResult]

	mu          sync.RWMutex
	plans       map[string]*plan
	defaultPlan string
	stamps      map[string]fileStamp
}

// NewService creates a Service. A nil store keeps schedules in memory.
func NewService(decoder Decoder, store ScheduleStore, cfg ServiceConfig) (*Service, error) {
	if decoder == nil {
		return nil, errors.New("decoder is required")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = 16
	}
	if cfg.ParseTimeout <= 0 {
		cfg.ParseTimeout = DefaultParseTimeout
	}
	if cfg.LoadWorkers <= 0 {
		cfg.LoadWorkers = 2
	}
	if store == nil {
		store = NewMemoryStore()
	}

	cache, err := lru.New[string, *ParseResult](cfg.CacheEntries)
	if err != nil {
		return nil, fmt.Errorf("create parse cache: %w", err)
	}

	return &Service{
		decoder:     decoder,
		store:       store,
		cfg:         cfg,
		limiter:     NewParseLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		cache:       cache,
		plans:       make(map[string]*plan),
		defaultPlan: cfg.DefaultPlan,
		stamps:      make(map[string]fileStamp),
	}, nil
}

// ParseDocument decodes and reconstructs one PDF. Results are cached by
// content hash, so a re-upload of the same bytes skips the decoder.
func (s *Service) ParseDocument(ctx context.Context, data []byte) (*ParseResult, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyFile
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	if cached, ok := s.cache.Get(digest); ok {
		slog.Debug("parse cache hit", "sha256", digest)
		return cached, digest, nil
	}

	var result *ParseResult
	err := s.limiter.Do(ctx, func() error {
		parseCtx, cancel := context.WithTimeout(ctx, s.cfg.ParseTimeout)
		defer cancel()

		start := time.Now()
		pages, err := s.decoder.ReadPages(parseCtx, data)
		if err != nil {
			return err
		}
		result, err = Parse(pages, s.cfg.Layout)
		if err != nil {
			return err
		}
		slog.Info("document parsed",
			"sha256", digest,
			"pages", result.Pages,
			"records", len(result.Records),
			"dropped", result.Dropped,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	})
	if err != nil {
		return nil, digest, err
	}

	s.cache.Add(digest, result)
	return result, digest, nil
}

// Activate parses data and makes it the current schedule of plan name.
func (s *Service) Activate(ctx context.Context, name, fileName string, data []byte) (*Schedule, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty plan name", ErrUnknownPlan)
	}

	result, digest, err := s.ParseDocument(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}

	sched := &Schedule{
		ID:        uuid.New(),
		Source:    name,
		FileName:  fileName,
		SHA256:    digest,
		PageCount: result.Pages,
		Headers:   result.Headers,
		Columns:   result.Columns,
		Records:   result.Records,
		Placed:    result.Placed,
		Dropped:   result.Dropped,
		ParsedAt:  time.Now().UTC(),
	}

	if err := s.store.SaveSchedule(ctx, sched); err != nil {
		// The plan is still served from memory; only history is lost.
		slog.Error("save schedule failed", "plan", name, "error", err)
	}

	s.install(sched)
	slog.Info("schedule activated",
		"plan", name,
		"file", fileName,
		"id", sched.ID,
		"records", len(sched.Records),
		"client_ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
	)
	return sched, nil
}

// Restore loads the latest stored schedule of every plan that is not loaded yet.
func (s *Service) Restore(ctx context.Context) error {
	schedules, err := s.store.LatestSchedules(ctx)
	if err != nil {
		return fmt.Errorf("load stored schedules: %w", err)
	}
	restored := 0
	for _, sched := range schedules {
		s.mu.RLock()
		_, loaded := s.plans[sched.Source]
		s.mu.RUnlock()
		if loaded {
			continue
		}
		s.install(sched)
		restored++
	}
	slog.Info("schedules restored", "count", restored)
	return nil
}

func (s *Service) install(sched *Schedule) {
	ix := index.New(sched.Records, index.Options{
		Keys:       Keys(),
		FilterKeys: generalKeys(),
		CourseKeys: CourseKeys(),
		Semesters:  s.cfg.Semesters,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[sched.Source] = &plan{schedule: sched, index: ix}
	if s.defaultPlan == "" {
		s.defaultPlan = sched.Source
	}
}

func generalKeys() []string {
	defs := ByGroup(GroupGeneral)
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Key
	}
	return keys
}

// Plans lists the loaded plans by name.
func (s *Service) Plans() []PlanInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]PlanInfo, 0, len(s.plans))
	for name, p := range s.plans {
		infos = append(infos, s.planInfo(name, p))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (s *Service) planInfo(name string, p *plan) PlanInfo {
	return PlanInfo{
		Name:      name,
		ID:        p.schedule.ID,
		FileName:  p.schedule.FileName,
		PageCount: p.schedule.PageCount,
		Records:   len(p.schedule.Records),
		Dropped:   p.schedule.Dropped,
		ParsedAt:  p.schedule.ParsedAt,
		Default:   name == s.defaultPlan,
	}
}

func (s *Service) lookup(name string) (string, *plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.defaultPlan
	}
	p, ok := s.plans[name]
	if !ok {
		return name, nil, fmt.Errorf("%w: %q", ErrUnknownPlan, name)
	}
	return name, p, nil
}

// Schedule returns the current schedule of a plan; "" selects the default plan.
func (s *Service) Schedule(name string) (*Schedule, error) {
	_, p, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return p.schedule, nil
}

// Query filters the records of a plan; "" selects the default plan.
func (s *Service) Query(name string, f index.Filter) (*QueryResult, error) {
	name, p, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	rows := p.index.Search(f)
	entries := make([]ExamRecord, len(rows))
	for i, row := range rows {
		entries[i] = p.index.Record(row)
	}

	var columns []ColumnDefinition
	for _, def := range All() {
		if p.schedule.HasColumn(def.Key) {
			columns = append(columns, def)
		}
	}

	s.mu.RLock()
	info := s.planInfo(name, p)
	s.mu.RUnlock()

	return &QueryResult{
		Plan:     info,
		Columns:  columns,
		Entries:  entries,
		Total:    p.index.Len(),
		Filtered: len(entries),
	}, nil
}

// History limits. A limit outside 1..MaxHistoryLimit is clamped.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// History lists stored schedules, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]ScheduleSummary, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.store.ListSchedules(ctx, limit)
}

// LimiterStatus reports parse slot usage.
func (s *Service) LimiterStatus() ParseLimiterStatus {
	return s.limiter.Status()
}

// Shutdown waits for in-flight parses to finish.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
