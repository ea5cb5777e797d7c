// Package pipeline orchestrates variant generation, polishing and export.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/variant-studio/internal/abtest"
	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/generation"
	"github.com/jonathan/variant-studio/internal/knowledge"
	"github.com/jonathan/variant-studio/internal/metrics"
	"github.com/jonathan/variant-studio/internal/rendering"
	"github.com/jonathan/variant-studio/internal/rewriting"
	"github.com/jonathan/variant-studio/internal/store"
	"github.com/jonathan/variant-studio/internal/types"
)

// DefaultGenerateTimeout bounds a single model generation call.
const DefaultGenerateTimeout = 20 * time.Second

// Text-based generation turns the source text into this brief for the templates.
const (
	textProduct = "Your Product"
	textCTA     = "Learn more"
)

// ErrExportUnavailable is returned by Export when no CSV sink is configured.
var ErrExportUnavailable = errors.New("export sink not configured")

// ProgressEvent represents a progress update during one request
type ProgressEvent struct {
	Stage     Stage  `json:"stage"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when a request changes stage
type ProgressCallback func(event ProgressEvent)

// Sink writes CSV artifacts and returns the file name it wrote.
type Sink interface {
	WriteVariants(requestID string, variants []types.Variant) (string, error)
	WriteExport(exportID string, req types.ExportRequest, goal string) (string, error)
}

// Options holds the collaborators and settings of a Service. Catalog is required.
type Options struct {
	Catalog     *catalog.Catalog
	Engine      *rendering.Engine
	Adapter     *generation.Adapter
	Polisher    *rewriting.Polisher
	Store       store.ResultStore
	Sink        Sink
	Diagnostics *metrics.Diagnostics
	Logger      *zap.Logger

	// KnowledgeBase is the corpus excerpts are retrieved from for AI prompts.
	KnowledgeBase string
	// UseMock forces deterministic templates for generation even when a model is
	// configured. Polish still uses the model.
	UseMock         bool
	GenerateTimeout time.Duration
	// PublicBaseURL prefixes csv and share links. Empty yields root-relative links.
	PublicBaseURL string

	NewID func() string
	Now   func() time.Time
}

// Service is the variant orchestrator. It is safe for concurrent use.
type Service struct {
	catalog  *catalog.Catalog
	engine   *rendering.Engine
	adapter  *generation.Adapter
	polisher *rewriting.Polisher
	store    store.ResultStore
	sink     Sink
	diag     *metrics.Diagnostics
	logger   *zap.Logger

	kb              string
	useMock         bool
	generateTimeout time.Duration
	baseURL         string
	newID           func() string
	now             func() time.Time
}

// New creates a Service, filling unset collaborators with in-process defaults.
func New(opts Options) (*Service, error) {
	if opts.Catalog == nil {
		return nil, errors.New("pipeline: catalog is required")
	}
	s := &Service{
		catalog:         opts.Catalog,
		engine:          opts.Engine,
		adapter:         opts.Adapter,
		polisher:        opts.Polisher,
		store:           opts.Store,
		sink:            opts.Sink,
		diag:            opts.Diagnostics,
		logger:          opts.Logger,
		kb:              opts.KnowledgeBase,
		useMock:         opts.UseMock,
		generateTimeout: opts.GenerateTimeout,
		baseURL:         strings.TrimRight(opts.PublicBaseURL, "/"),
		newID:           opts.NewID,
		now:             opts.Now,
	}
	if s.engine == nil {
		s.engine = rendering.NewEngine(s.catalog)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore(store.DefaultCapacity, store.DefaultTTL)
	}
	if s.diag == nil {
		s.diag = metrics.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("pipeline")
	if s.generateTimeout <= 0 {
		s.generateTimeout = DefaultGenerateTimeout
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Catalog returns the vocabulary the service generates against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Diagnostics returns the counters the service reports to.
func (s *Service) Diagnostics() *metrics.Diagnostics {
	return s.diag
}

// AIAvailable reports whether a model credential is configured.
func (s *Service) AIAvailable() bool {
	return s.adapter.Available()
}

// AIEnabled reports whether generation will call the model.
func (s *Service) AIEnabled() bool {
	return !s.useMock && s.adapter.Available()
}

// job is one generation after validation.
type job struct {
	brief    types.Brief
	text     string
	goal     types.GoalRule
	channels []string
	export   bool
}

// Generate produces variants for a brief. Only validation failures are returned as errors;
// model failures degrade to the deterministic templates.
func (s *Service) Generate(ctx context.Context, req types.GenerateRequest, onProgress ProgressCallback) (types.GenerationResult, error) {
	t := s.newTracker(onProgress)
	t.advance(StageReceived, "Brief received", nil)

	if err := req.Validate(s.catalog.Has); err != nil {
		return types.GenerationResult{}, s.reject(t, err)
	}

	goal := s.catalog.Goal(req.Goal)
	return s.run(ctx, t, job{
		brief:    req.Brief,
		goal:     goal,
		channels: s.catalog.ResolveChannels(req.Channels, goal.Key),
		export:   req.Export,
	})
}

// GenerateFromText produces variants for every catalog channel from one block of text
// and always writes the CSV.
func (s *Service) GenerateFromText(ctx context.Context, req types.TextRequest, onProgress ProgressCallback) (types.GenerationResult, error) {
	t := s.newTracker(onProgress)
	t.advance(StageReceived, "Text received", nil)

	if err := req.Validate(); err != nil {
		return types.GenerationResult{}, s.reject(t, err)
	}

	return s.run(ctx, t, job{
		brief:    types.Brief{Product: textProduct, Headline: req.Text, CTA: textCTA},
		text:     req.Text,
		goal:     s.catalog.Goal(req.Goal),
		channels: s.catalog.Keys(),
		export:   true,
	})
}

func (s *Service) reject(t *tracker, err error) error {
	s.diag.GenerationFailed()
	s.logger.Info("request rejected", zap.String("request_id", t.requestID), zap.Error(err))
	t.advance(StageRejected, err.Error(), err)
	return err
}

func (s *Service) run(ctx context.Context, t *tracker, j job) (types.GenerationResult, error) {
	t.advance(StageChannelsResolved,
		fmt.Sprintf("Resolved %d channel(s) for goal %s", len(j.channels), j.goal.Key), j.channels)

	variants, aiUsed, err := s.produce(ctx, t, j)
	if err != nil {
		s.diag.GenerationFailed()
		s.logger.Error("generation failed", zap.String("request_id", t.requestID), zap.Error(err))
		return types.GenerationResult{}, err
	}

	plan := abtest.Plan(j.brief, j.goal)
	t.advance(StagePlanComputed, "Computed A/B plan", plan)

	result := types.GenerationResult{
		RequestID:   t.requestID,
		Goal:        j.goal.Key,
		Variants:    variants,
		ABPlan:      &plan,
		AIAvailable: s.AIAvailable(),
		AIUsed:      aiUsed,
		CreatedAt:   s.now().UTC(),
	}
	if j.export {
		result.CSVURL = s.writeCSV(t.requestID, variants)
	}

	result.ShareURL = s.link("v", t.requestID)
	if err := s.store.Save(ctx, result); err != nil {
		s.logger.Error("failed to persist result, share link disabled",
			zap.String("request_id", t.requestID), zap.Error(err))
		result.ShareURL = ""
	}
	t.advance(StagePersisted, "Persisted result", nil)

	s.diag.GenerationSucceeded()
	t.advance(StageResponded, fmt.Sprintf("Generated %d variant(s)", len(variants)), result)
	return result, nil
}

// produce returns the variants and whether the model produced them.
func (s *Service) produce(ctx context.Context, t *tracker, j job) ([]types.Variant, bool, error) {
	if !s.AIEnabled() {
		t.advance(StageDeterministic, "Rendering channel templates", nil)
		variants, err := s.degradeToTemplates(j)
		return variants, false, err
	}

	t.advance(StageAIAttempted, "Requesting variants from the model", nil)

	genCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	req := generation.Request{
		Text:      j.text,
		Goal:      j.goal.Key,
		Channels:  j.channels,
		KBContext: knowledge.Retrieve(s.query(j), s.kb),
	}
	if j.text == "" {
		brief := j.brief
		req.Brief = &brief
	}

	variants, err := s.adapter.Generate(genCtx, req)
	if err != nil {
		s.logger.Warn("model generation failed, rendering templates instead",
			zap.String("request_id", t.requestID), zap.Error(err))
		t.advance(StageAIFailedFallback, "Model unavailable, rendered channel templates", nil)
		variants, err := s.degradeToTemplates(j)
		return variants, false, err
	}

	t.advance(StageAISucceeded, fmt.Sprintf("Model returned %d variant(s)", len(variants)), nil)
	return variants, true, nil
}

// degradeToTemplates is the single deterministic path used both when AI is off and
// when the model call fails.
func (s *Service) degradeToTemplates(j job) ([]types.Variant, error) {
	return s.engine.RenderAll(j.channels, j.brief, j.goal.Key)
}

func (s *Service) query(j job) string {
	if j.text != "" {
		return j.text
	}
	b := j.brief
	return strings.Join([]string{b.Product, b.Headline, b.Body, b.Audience}, " ")
}

// writeCSV returns the link to the written file, or "" when it could not be written.
func (s *Service) writeCSV(requestID string, variants []types.Variant) string {
	if s.sink == nil {
		return ""
	}
	name, err := s.sink.WriteVariants(requestID, variants)
	if err != nil {
		s.diag.ExportFailed()
		s.logger.Error("csv export failed, returning variants without a link",
			zap.String("request_id", requestID), zap.Error(err))
		return ""
	}
	s.diag.ExportWritten()
	return s.link("exports", name)
}

func (s *Service) link(prefix, name string) string {
	return s.baseURL + "/" + prefix + "/" + name
}

// Polish refines variants with the model. Without a model the variants are not touched
// and the response carries an explanatory message instead.
func (s *Service) Polish(ctx context.Context, req types.PolishRequest) (types.PolishResponse, error) {
	if err := req.Validate(); err != nil {
		s.diag.PolishFailed(1)
		return types.PolishResponse{}, err
	}

	if !s.polisher.Available() {
		s.diag.PolishServed()
		return types.PolishResponse{Polished: nil, Message: rewriting.NotConfiguredMessage}, nil
	}

	result := s.polisher.Polish(ctx, req)
	s.diag.PolishServed()

	resp := types.PolishResponse{Polished: result.Variants}
	if failures := result.Failures(); failures > 0 {
		s.diag.PolishFailed(failures)
		resp.Message = fmt.Sprintf("%d variant(s) kept their original copy.", failures)
		s.logger.Info("polish partially applied", zap.Stringer("result", result))
	}
	return resp, nil
}

// Export writes the submitted rows to a new CSV file.
func (s *Service) Export(_ context.Context, req types.ExportRequest) (types.ExportResponse, error) {
	if err := req.Validate(); err != nil {
		return types.ExportResponse{}, err
	}
	if s.sink == nil {
		s.diag.ExportFailed()
		return types.ExportResponse{}, ErrExportUnavailable
	}

	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		goal = s.catalog.DefaultGoal()
	}

	exportID := s.newID()
	name, err := s.sink.WriteExport(exportID, req, goal)
	if err != nil {
		s.diag.ExportFailed()
		s.logger.Error("export failed", zap.String("export_id", exportID), zap.Error(err))
		return types.ExportResponse{}, err
	}
	s.diag.ExportWritten()

	return types.ExportResponse{
		Success:     true,
		DownloadURL: s.link("exports", name),
		Filename:    name,
		ExportID:    exportID,
	}, nil
}

// Lookup returns a stored result. It returns store.ErrNotFound for unknown or expired ids.
func (s *Service) Lookup(ctx context.Context, id string) (types.GenerationResult, error) {
	return s.store.Get(ctx, id)
}

// Close releases the result store.
func (s *Service) Close() error {
	return s.store.Close()
}

// tracker walks one request through the stage machine and reports each stage.
type tracker struct {
	requestID  string
	current    Stage
	onProgress ProgressCallback
	logger     *zap.Logger
}

func (s *Service) newTracker(onProgress ProgressCallback) *tracker {
	return &tracker{requestID: s.newID(), onProgress: onProgress, logger: s.logger}
}

func (t *tracker) advance(to Stage, message string, content any) {
	if err := ValidateTransition(t.current, to); err != nil {
		t.logger.DPanic("stage machine violated", zap.String("request_id", t.requestID), zap.Error(err))
	}
	t.current = to
	if t.onProgress != nil {
		t.onProgress(ProgressEvent{
			Stage:     to,
			Category:  StageRegistry[to].Category,
			Message:   message,
			RequestID: t.requestID,
			Content:   content,
		})
	}
}
