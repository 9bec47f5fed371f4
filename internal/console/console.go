// Package console implements the analysis console state machine shared by the
// interactive UI and the headless commands.
package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/yildizm/SkillExtract/internal/analyzer"
	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/logger"
	"github.com/yildizm/SkillExtract/internal/pdfview"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// Status messages
const (
	StatusInitial  = "Upload a resume to start analysis."
	StatusRunning  = "Running spatial-semantic verification..."
	StatusFailed   = "Analysis failed."
	statusComplete = "Analysis complete. %d skill(s) verified."
	statusLoaded   = "Loaded %s (%d page(s)). Ready for analysis."
)

// DefaultTimeout bounds a single analysis request
const DefaultTimeout = 60 * time.Second

// ErrInFlight is returned when an operation is attempted while an analysis is running
var ErrInFlight = errors.New("analysis already in progress")

// Analyzer sends an analysis request to the external analyzer
type Analyzer interface {
	Analyze(ctx context.Context, req *common.AnalysisRequest) (*analyzer.Result, error)
}

// Renderer loads a PDF for display
type Renderer interface {
	Load(file *common.ResumeFile) (*pdfview.Document, error)
}

// Options configures a Console
type Options struct {
	Analyzer Analyzer
	Renderer Renderer
	Radar    scoring.RadarStrategy
	Timeout  time.Duration

	// ClearOnFileSelect drops prior findings when a new file is accepted
	ClearOnFileSelect bool

	// DefaultSkills seeds the required-skills text
	DefaultSkills string

	Logger *logger.Logger
}

// Snapshot is an immutable copy of console state for rendering
type Snapshot struct {
	State          common.UIState
	Result         *common.AnalysisResult
	FileName       string
	RequiredSkills string
	NumPages       int
}

// Selected returns the selected finding, if any
func (s Snapshot) Selected() (*common.SkillFinding, bool) {
	if s.Result == nil || !s.State.HasSelection() || s.State.Selected >= len(s.Result.Findings) {
		return nil, false
	}
	return &s.Result.Findings[s.State.Selected], true
}

// Console holds the state of one analysis session
type Console struct {
	mu       sync.RWMutex
	inflight *semaphore.Weighted

	analyzer          Analyzer
	renderer          Renderer
	radar             scoring.RadarStrategy
	timeout           time.Duration
	clearOnFileSelect bool
	log               *logger.Logger

	file      *common.ResumeFile
	doc       *pdfview.Document
	rawSkills string
	result    *common.AnalysisResult
	state     common.UIState
}

// New creates a console
func New(opts Options) (*Console, error) {
	if opts.Analyzer == nil {
		return nil, fmt.Errorf("console requires an analyzer")
	}
	if opts.Renderer == nil {
		opts.Renderer = pdfview.NewRenderer(pdfview.DefaultRenderConfig())
	}
	if opts.Radar == nil {
		opts.Radar = scoring.NewSkillsRadar(scoring.DefaultRequiredBaseline)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	return &Console{
		inflight:          semaphore.NewWeighted(1),
		analyzer:          opts.Analyzer,
		renderer:          opts.Renderer,
		radar:             opts.Radar,
		timeout:           opts.Timeout,
		clearOnFileSelect: opts.ClearOnFileSelect,
		log:               opts.Logger.WithComponent("console"),
		rawSkills:         opts.DefaultSkills,
		state: common.UIState{
			Selected: common.NoSelection,
			Status:   StatusInitial,
			Phase:    common.PhaseIdle,
		},
	}, nil
}

// SelectFile validates and loads a resume. A rejected file leaves the
// previous selection in place.
func (c *Console) SelectFile(file *common.ResumeFile) error {
	if !c.inflight.TryAcquire(1) {
		return ErrInFlight
	}
	defer c.inflight.Release(1)

	if err := validateResume(file); err != nil {
		c.mu.Lock()
		c.state.Error = err.Message
		c.mu.Unlock()
		c.log.Warn("rejected file: %s", err.Message)
		return err
	}

	// Parsing can be slow; keep it outside the lock
	doc, renderErr := c.renderer.Load(file)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.file = file
	c.doc = doc
	c.state.Selected = common.NoSelection
	c.state.Error = ""
	c.state.Phase = common.PhaseIdle
	if c.clearOnFileSelect {
		c.result = nil
	}

	if renderErr != nil {
		c.state.Error = common.UserMessage(renderErr)
		c.state.Status = StatusInitial
		c.log.WarnWithFields("failed to render resume", []logger.Field{logger.F("file", file.BaseName()), logger.Error(renderErr)})
		return renderErr
	}

	c.state.Status = fmt.Sprintf(statusLoaded, file.BaseName(), doc.NumPages)
	c.log.InfoWithFields("resume selected", []logger.Field{logger.F("file", file.BaseName()), logger.F("pages", doc.NumPages)})
	return nil
}

// SelectFilePath reads a resume from disk and selects it
func (c *Console) SelectFilePath(path string) error {
	file, err := ReadResume(path)
	if err != nil {
		c.mu.Lock()
		c.state.Error = common.UserMessage(err)
		c.mu.Unlock()
		return err
	}
	return c.SelectFile(file)
}

// ReadResume loads a file from disk as a resume candidate
func ReadResume(path string) (*common.ResumeFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, common.NewValidationError(common.MsgNoFile)
	}
	// #nosec G304 - the user chooses which resume to open
	data, err := os.ReadFile(path)
	if err != nil {
		ve := common.NewValidationError(fmt.Sprintf("Cannot read %s.", filepath.Base(path)))
		ve.Cause = err
		return nil, ve
	}
	return &common.ResumeFile{
		Name:        path,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}

var pdfMagic = []byte("%PDF-")

func validateResume(file *common.ResumeFile) *common.ConsoleError {
	if file == nil {
		return common.NewValidationError(common.MsgNoFile)
	}
	if file.Size() == 0 {
		return common.NewValidationError(common.MsgEmptyFile)
	}
	if mimetype.Detect(file.Data).Is("application/pdf") {
		return nil
	}
	if strings.EqualFold(filepath.Ext(file.Name), ".pdf") && bytes.HasPrefix(bytes.TrimLeft(file.Data, "\r\n\t "), pdfMagic) {
		return nil
	}
	return common.NewValidationError(common.MsgNotPDF)
}

// SetRequiredSkills stores the raw comma-separated skills text
func (c *Console) SetRequiredSkills(text string) {
	c.mu.Lock()
	c.rawSkills = text
	c.mu.Unlock()
}

// RequiredSkills returns the raw skills text
func (c *Console) RequiredSkills() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rawSkills
}

// Analyze sends the selected resume and required skills to the analyzer.
// Only one analysis runs at a time; a concurrent call returns ErrInFlight
// without sending anything.
func (c *Console) Analyze(ctx context.Context) (*common.AnalysisResult, error) {
	if !c.inflight.TryAcquire(1) {
		return nil, ErrInFlight
	}
	defer c.inflight.Release(1)

	req, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer c.finish()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.callAnalyzer(ctx, req)
	if err != nil {
		c.fail(err, req.RequestID)
		return nil, err
	}

	result := &common.AnalysisResult{
		Findings:   resp.Findings,
		Accuracy:   scoring.Accuracy(resp.Findings),
		Radar:      c.radar.Build(req.RequiredSkills, resp.Findings),
		RequestID:  req.RequestID,
		Model:      resp.Model,
		Notes:      resp.Notes,
		Requested:  req.RequiredSkills,
		AnalyzedAt: time.Now(),
		Duration:   time.Since(start),
	}
	if resp.RequestID != "" {
		result.RequestID = resp.RequestID
	}

	c.mu.Lock()
	c.result = result
	c.state.Selected = common.NoSelection
	if len(result.Findings) > 0 {
		c.state.Selected = 0
	}
	c.state.Error = ""
	c.state.Status = fmt.Sprintf(statusComplete, len(result.Findings))
	c.state.Phase = common.PhaseSucceeded
	c.mu.Unlock()

	c.log.InfoWithFields("analysis succeeded", []logger.Field{
		logger.RequestID(result.RequestID),
		logger.Count(len(result.Findings)),
		logger.F("accuracy", result.Accuracy),
		logger.Duration(result.Duration),
	})
	return result.Clone(), nil
}

// begin validates input and marks the console in flight
func (c *Console) begin() (*common.AnalysisRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		err := common.NewValidationError(common.MsgNoFile)
		c.state.Error = err.Message
		return nil, err
	}
	skills := common.ParseRequiredSkills(c.rawSkills)
	if len(skills) == 0 {
		err := common.NewValidationError(common.MsgNoSkills)
		c.state.Error = err.Message
		return nil, err
	}

	c.state.Error = ""
	c.state.Status = StatusRunning
	c.state.Selected = common.NoSelection
	c.state.InFlight = true
	c.state.Phase = common.PhaseInFlight

	return &common.AnalysisRequest{
		Resume:         *c.file,
		RequiredSkills: skills,
		RequestID:      uuid.NewString(),
	}, nil
}

// finish clears the in-flight flag on every exit path
func (c *Console) finish() {
	c.mu.Lock()
	c.state.InFlight = false
	c.mu.Unlock()
}

func (c *Console) fail(err error, requestID string) {
	c.mu.Lock()
	c.state.Error = common.UserMessage(err)
	c.state.Status = StatusFailed
	c.state.Phase = common.PhaseFailed
	c.mu.Unlock()

	c.log.ErrorWithFields("analysis failed", []logger.Field{logger.RequestID(requestID), logger.Error(err)})
}

// callAnalyzer turns a panic inside the analyzer into a transport failure
func (c *Console) callAnalyzer(ctx context.Context, req *common.AnalysisRequest) (resp *analyzer.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = nil
			err = common.NewTransportError("", 0, fmt.Errorf("analyzer panic: %v", rec))
		}
	}()

	resp, err = c.analyzer.Analyze(ctx, req)
	if err != nil {
		var ce *common.ConsoleError
		if !errors.As(err, &ce) {
			if errors.Is(err, context.DeadlineExceeded) {
				err = common.NewTimeoutError(common.MsgTimeout, err)
			} else {
				err = common.NewTransportError("", 0, err)
			}
		}
		return nil, err
	}
	if resp == nil {
		return nil, common.NewMalformedError(fmt.Errorf("analyzer returned no result"))
	}
	return resp, nil
}

// SelectFinding selects the finding at index i; an out-of-range index clears the selection
func (c *Console) SelectFinding(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil || i < 0 || i >= len(c.result.Findings) {
		c.state.Selected = common.NoSelection
		return
	}
	c.state.Selected = i
}

// SelectNext moves the selection down, wrapping to the first finding
func (c *Console) SelectNext() {
	c.step(1)
}

// SelectPrev moves the selection up, wrapping to the last finding
func (c *Console) SelectPrev() {
	c.step(-1)
}

func (c *Console) step(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil || len(c.result.Findings) == 0 {
		c.state.Selected = common.NoSelection
		return
	}
	n := len(c.result.Findings)
	if !c.state.HasSelection() {
		if delta > 0 {
			c.state.Selected = 0
		} else {
			c.state.Selected = n - 1
		}
		return
	}
	c.state.Selected = ((c.state.Selected+delta)%n + n) % n
}

// Snapshot returns a copy of the current state and result
func (c *Console) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		State:          c.state,
		Result:         c.result.Clone(),
		RequiredSkills: c.rawSkills,
	}
	if c.file != nil {
		snap.FileName = c.file.BaseName()
	}
	if c.doc != nil {
		snap.NumPages = c.doc.NumPages
	}
	return snap
}

// Document returns the rendered PDF of the selected file, or nil
func (c *Console) Document() *pdfview.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc
}

// InFlight reports whether an analysis is running
func (c *Console) InFlight() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.InFlight
}

// RadarMode returns the active radar strategy name
func (c *Console) RadarMode() string {
	return c.radar.Name()
}
