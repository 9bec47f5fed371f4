package console

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/SkillExtract/internal/analyzer"
	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/logger"
	"github.com/yildizm/SkillExtract/internal/pdfview"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

var pdfBytes = []byte("%PDF-1.4\n%test\n")

type fakeAnalyzer struct {
	mu      sync.Mutex
	calls   int
	lastReq *common.AnalysisRequest
	result  *analyzer.Result
	err     error
	panics  bool
	block   chan struct{}
	started chan struct{}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req *common.AnalysisRequest) (*analyzer.Result, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panics {
		panic("analyzer exploded")
	}
	return f.result, f.err
}

func (f *fakeAnalyzer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRenderer struct {
	err   error
	pages int
}

func (r *fakeRenderer) Load(file *common.ResumeFile) (*pdfview.Document, error) {
	if r.err != nil {
		return nil, common.NewRenderError(r.err)
	}
	pages := r.pages
	if pages == 0 {
		pages = 1
	}
	return &pdfview.Document{Name: file.BaseName(), NumPages: pages, Pages: make([]pdfview.Page, pages)}, nil
}

func newTestConsole(t *testing.T, a Analyzer, mutate ...func(*Options)) *Console {
	t.Helper()
	opts := Options{Analyzer: a, Renderer: &fakeRenderer{}, Timeout: 2 * time.Second}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func resume() *common.ResumeFile {
	return &common.ResumeFile{Name: "cv.pdf", ContentType: "application/pdf", Data: pdfBytes}
}

func successResult(findings ...common.SkillFinding) *analyzer.Result {
	return &analyzer.Result{Findings: findings, Model: "test-model"}
}

func TestInitialState(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{})
	snap := c.Snapshot()

	assert.Equal(t, StatusInitial, snap.State.Status)
	assert.Equal(t, common.NoSelection, snap.State.Selected)
	assert.Equal(t, common.PhaseIdle, snap.State.Phase)
	assert.False(t, snap.State.InFlight)
	assert.Nil(t, snap.Result)
}

func TestAnalyzeWithoutFileFailsFast(t *testing.T) {
	a := &fakeAnalyzer{}
	c := newTestConsole(t, a)
	c.SetRequiredSkills("Python")

	_, err := c.Analyze(context.Background())
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
	assert.Equal(t, "Please upload a PDF before running analysis", common.UserMessage(err))
	assert.Equal(t, 0, a.Calls())

	snap := c.Snapshot()
	assert.Equal(t, "Please upload a PDF before running analysis", snap.State.Error)
	assert.False(t, snap.State.InFlight)
}

func TestAnalyzeWithoutFileMakesNoHTTPRequest(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	cfg := analyzer.DefaultConfig()
	cfg.BaseURL = server.URL
	client, err := analyzer.New(cfg)
	require.NoError(t, err)

	c := newTestConsole(t, client)
	c.SetRequiredSkills("Python")
	_, err = c.Analyze(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestAnalyzeWithoutSkills(t *testing.T) {
	a := &fakeAnalyzer{}
	c := newTestConsole(t, a)
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills(" , ,")

	_, err := c.Analyze(context.Background())
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
	assert.Equal(t, common.MsgNoSkills, c.Snapshot().State.Error)
	assert.Equal(t, 0, a.Calls())
}

func TestAnalyzeSuccess(t *testing.T) {
	a := &fakeAnalyzer{result: successResult(
		common.SkillFinding{SkillName: "python", ConfidenceScore: 0.9, Section: "Skills"},
		common.SkillFinding{SkillName: "SQL", ConfidenceScore: 0.6, Section: "Projects"},
	)}
	c := newTestConsole(t, a)
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Python, FastAPI ,React")

	result, err := c.Analyze(context.Background())
	require.NoError(t, err)

	require.NotNil(t, a.lastReq)
	assert.Equal(t, []string{"Python", "FastAPI", "React"}, a.lastReq.RequiredSkills)
	assert.NotEmpty(t, a.lastReq.RequestID)
	assert.Equal(t, "cv.pdf", a.lastReq.Resume.Name)

	assert.Equal(t, 75, result.Accuracy)
	require.Len(t, result.Radar, 3)
	assert.Equal(t, common.RadarPoint{Topic: "Python", Candidate: 90, Required: 85}, result.Radar[0])
	assert.Equal(t, common.RadarPoint{Topic: "FastAPI", Candidate: 0, Required: 85}, result.Radar[1])
	assert.Equal(t, "test-model", result.Model)

	snap := c.Snapshot()
	assert.Equal(t, "Analysis complete. 2 skill(s) verified.", snap.State.Status)
	assert.Equal(t, 0, snap.State.Selected)
	assert.Empty(t, snap.State.Error)
	assert.False(t, snap.State.InFlight)
	assert.Equal(t, common.PhaseSucceeded, snap.State.Phase)

	selected, ok := snap.Selected()
	require.True(t, ok)
	assert.Equal(t, "python", selected.SkillName)
}

func TestAnalyzeEmptyFindingsSelectsNone(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{result: successResult()})
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")

	result, err := c.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Accuracy)

	snap := c.Snapshot()
	assert.Equal(t, common.NoSelection, snap.State.Selected)
	assert.Equal(t, "Analysis complete. 0 skill(s) verified.", snap.State.Status)
}

func TestAnalyzeFailureKeepsPriorFindings(t *testing.T) {
	a := &fakeAnalyzer{result: successResult(common.SkillFinding{SkillName: "Go", ConfidenceScore: 0.9, Section: "Skills"})}
	c := newTestConsole(t, a)
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")

	_, err := c.Analyze(context.Background())
	require.NoError(t, err)

	a.result = nil
	a.err = common.NewTransportError("Unreadable PDF", http.StatusUnprocessableEntity, nil)
	_, err = c.Analyze(context.Background())
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, "Unreadable PDF", snap.State.Error)
	assert.Equal(t, StatusFailed, snap.State.Status)
	assert.Equal(t, common.PhaseFailed, snap.State.Phase)
	assert.False(t, snap.State.InFlight)
	require.NotNil(t, snap.Result)
	require.Len(t, snap.Result.Findings, 1)
	assert.Equal(t, "Go", snap.Result.Findings[0].SkillName)
}

func TestAnalyzeResetsSelectionWhenStarting(t *testing.T) {
	a := &fakeAnalyzer{result: successResult(
		common.SkillFinding{SkillName: "Go", ConfidenceScore: 0.9, Section: "Skills"},
		common.SkillFinding{SkillName: "SQL", ConfidenceScore: 0.7, Section: "Skills"},
	)}
	var buf bytes.Buffer
	c := newTestConsole(t, a, func(o *Options) {
		o.Logger = logger.NewWithWriter("test", nil, &buf)
	})
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go,SQL")
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)
	c.SelectFinding(1)
	require.Equal(t, 1, c.Snapshot().State.Selected)

	a.result = nil
	a.err = common.NewTransportError("Unreadable PDF", http.StatusUnprocessableEntity, nil)
	a.started = make(chan struct{})
	a.block = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := c.Analyze(context.Background())
		done <- err
	}()
	<-a.started

	mid := c.Snapshot()
	assert.True(t, mid.State.InFlight)
	assert.False(t, mid.State.HasSelection())
	_, ok := mid.Selected()
	assert.False(t, ok)

	close(a.block)
	require.Error(t, <-done)

	snap := c.Snapshot()
	assert.Equal(t, common.NoSelection, snap.State.Selected)
	require.NotNil(t, snap.Result)
	assert.Len(t, snap.Result.Findings, 2)
	assert.Contains(t, buf.String(), "ERROR [console] analysis failed")
}

func TestAnalyzeGenericErrorMessage(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{err: errors.New("socket closed")})
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")

	_, err := c.Analyze(context.Background())
	require.Error(t, err)
	assert.True(t, common.IsTransportError(err))
	assert.Equal(t, common.MsgGenericFailure, c.Snapshot().State.Error)
}

func TestAnalyzeNilResultIsMalformed(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{})
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")

	_, err := c.Analyze(context.Background())
	require.Error(t, err)
	var ce *common.ConsoleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, common.KindMalformed, ce.Kind)
}

func TestInFlightClearedOnPanic(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{panics: true})
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")

	_, err := c.Analyze(context.Background())
	require.Error(t, err)
	assert.True(t, common.IsTransportError(err))

	snap := c.Snapshot()
	assert.False(t, snap.State.InFlight)
	assert.Equal(t, StatusFailed, snap.State.Status)
	assert.Equal(t, common.MsgGenericFailure, snap.State.Error)
}

func TestAnalyzeTimeout(t *testing.T) {
	a := &fakeAnalyzer{block: make(chan struct{})}
	defer close(a.block)

	c := newTestConsole(t, a, func(o *Options) { o.Timeout = 20 * time.Millisecond })
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")

	_, err := c.Analyze(context.Background())
	require.Error(t, err)
	assert.True(t, common.IsTimeoutError(err))
	assert.False(t, c.InFlight())
}

func TestConcurrentAnalyzeIsNoOp(t *testing.T) {
	a := &fakeAnalyzer{
		result:  successResult(),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	c := newTestConsole(t, a)
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")

	done := make(chan error, 1)
	go func() {
		_, err := c.Analyze(context.Background())
		done <- err
	}()

	<-a.started
	assert.True(t, c.InFlight())
	assert.Equal(t, StatusRunning, c.Snapshot().State.Status)

	_, err := c.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)
	assert.ErrorIs(t, c.SelectFile(resume()), ErrInFlight)

	close(a.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, a.Calls())
	assert.False(t, c.InFlight())
}

func TestSelectFileRejectsNonPDF(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{})

	err := c.SelectFile(&common.ResumeFile{Name: "cv.docx", Data: []byte("PK\x03\x04 not a pdf")})
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
	assert.Equal(t, common.MsgNotPDF, c.Snapshot().State.Error)

	err = c.SelectFile(&common.ResumeFile{Name: "cv.pdf"})
	assert.True(t, common.IsValidationError(err))

	err = c.SelectFile(nil)
	assert.True(t, common.IsValidationError(err))

	assert.Empty(t, c.Snapshot().FileName)
}

func TestSelectFileAcceptsPDFByExtensionAndMagic(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{})
	require.NoError(t, c.SelectFile(&common.ResumeFile{Name: "cv.PDF", Data: []byte("\n%PDF-1.7 leading newline")}))
	assert.Equal(t, "cv.PDF", c.Snapshot().FileName)
}

func TestSelectFileRenderError(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{}, func(o *Options) {
		o.Renderer = &fakeRenderer{err: errors.New("bad xref")}
	})

	err := c.SelectFile(resume())
	require.Error(t, err)
	assert.True(t, common.IsRenderError(err))

	snap := c.Snapshot()
	assert.Equal(t, "PDF render error: bad xref", snap.State.Error)
	assert.Equal(t, "cv.pdf", snap.FileName)
	assert.Nil(t, c.Document())
}

func TestSelectFileClearsErrorAndSelection(t *testing.T) {
	a := &fakeAnalyzer{result: successResult(
		common.SkillFinding{SkillName: "Go", ConfidenceScore: 0.9, Section: "Skills"},
		common.SkillFinding{SkillName: "SQL", ConfidenceScore: 0.7, Section: "Skills"},
	)}
	c := newTestConsole(t, a, func(o *Options) { o.Renderer = &fakeRenderer{pages: 3} })
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)
	c.SelectFinding(1)

	_ = c.SelectFile(&common.ResumeFile{Name: "notes.txt", Data: []byte("plain text")})
	require.NotEmpty(t, c.Snapshot().State.Error)

	require.NoError(t, c.SelectFile(resume()))
	snap := c.Snapshot()
	assert.Empty(t, snap.State.Error)
	assert.Equal(t, common.NoSelection, snap.State.Selected)
	assert.Equal(t, "Loaded cv.pdf (3 page(s)). Ready for analysis.", snap.State.Status)
	assert.Equal(t, 3, snap.NumPages)
}

func TestClearOnFileSelect(t *testing.T) {
	for _, clear := range []bool{false, true} {
		a := &fakeAnalyzer{result: successResult(common.SkillFinding{SkillName: "Go", ConfidenceScore: 0.9, Section: "Skills"})}
		c := newTestConsole(t, a, func(o *Options) { o.ClearOnFileSelect = clear })
		require.NoError(t, c.SelectFile(resume()))
		c.SetRequiredSkills("Go")
		_, err := c.Analyze(context.Background())
		require.NoError(t, err)

		require.NoError(t, c.SelectFile(resume()))
		snap := c.Snapshot()
		if clear {
			assert.Nil(t, snap.Result, "findings should be cleared")
		} else {
			require.NotNil(t, snap.Result, "findings should stay visible")
			assert.Len(t, snap.Result.Findings, 1)
		}
	}
}

func TestSelectFindingOnlyChangesSelection(t *testing.T) {
	a := &fakeAnalyzer{result: successResult(
		common.SkillFinding{SkillName: "Go", ConfidenceScore: 0.9, Section: "Skills"},
		common.SkillFinding{SkillName: "SQL", ConfidenceScore: 0.7, Section: "Skills"},
	)}
	c := newTestConsole(t, a)
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go,SQL")
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)

	before := c.Snapshot()
	c.SelectFinding(1)
	after := c.Snapshot()

	assert.Equal(t, 1, after.State.Selected)
	after.State.Selected = before.State.Selected
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Result.Findings, after.Result.Findings)
	assert.Equal(t, before.Result.Radar, after.Result.Radar)
	assert.Equal(t, before.Result.Accuracy, after.Result.Accuracy)

	c.SelectFinding(5)
	assert.Equal(t, common.NoSelection, c.Snapshot().State.Selected)
	c.SelectFinding(-1)
	assert.Equal(t, common.NoSelection, c.Snapshot().State.Selected)
}

func TestSelectNextPrevWrap(t *testing.T) {
	a := &fakeAnalyzer{result: successResult(
		common.SkillFinding{SkillName: "A", Section: "S"},
		common.SkillFinding{SkillName: "B", Section: "S"},
		common.SkillFinding{SkillName: "C", Section: "S"},
	)}
	c := newTestConsole(t, a)
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("A")
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)

	c.SelectPrev()
	assert.Equal(t, 2, c.Snapshot().State.Selected)
	c.SelectNext()
	assert.Equal(t, 0, c.Snapshot().State.Selected)

	c.SelectFinding(-1)
	c.SelectPrev()
	assert.Equal(t, 2, c.Snapshot().State.Selected)
}

func TestTopicRadarStrategy(t *testing.T) {
	radar, err := scoring.NewRadarStrategy(scoring.RadarModeTopics, 0, nil)
	require.NoError(t, err)

	a := &fakeAnalyzer{result: successResult(common.SkillFinding{SkillName: "Docker", ConfidenceScore: 0.8, Section: "Skills"})}
	c := newTestConsole(t, a, func(o *Options) { o.Radar = radar })
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")

	result, err := c.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Radar, 5)
	assert.Equal(t, "DevOps", result.Radar[4].Topic)
	assert.Equal(t, 35, result.Radar[4].Candidate)
	assert.Equal(t, scoring.RadarModeTopics, c.RadarMode())
}

func TestSnapshotIsIsolated(t *testing.T) {
	a := &fakeAnalyzer{result: successResult(common.SkillFinding{SkillName: "Go", ConfidenceScore: 0.9, Section: "Skills"})}
	c := newTestConsole(t, a)
	require.NoError(t, c.SelectFile(resume()))
	c.SetRequiredSkills("Go")
	result, err := c.Analyze(context.Background())
	require.NoError(t, err)

	result.Findings[0].SkillName = "mutated"
	snap := c.Snapshot()
	snap.Result.Findings[0].ConfidenceScore = 0

	again := c.Snapshot()
	assert.Equal(t, "Go", again.Result.Findings[0].SkillName)
	assert.Equal(t, 0.9, again.Result.Findings[0].ConfidenceScore)
}

func TestSelectFilePathAndReadResume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(path, pdfBytes, 0o600))

	file, err := ReadResume(path)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)

	c := newTestConsole(t, &fakeAnalyzer{})
	require.NoError(t, c.SelectFilePath(path))
	assert.Equal(t, "resume.pdf", c.Snapshot().FileName)

	err = c.SelectFilePath(filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))

	_, err = ReadResume("  ")
	assert.True(t, common.IsValidationError(err))
}

func TestNewRequiresAnalyzer(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestDefaultSkills(t *testing.T) {
	c := newTestConsole(t, &fakeAnalyzer{}, func(o *Options) { o.DefaultSkills = "Python,FastAPI" })
	assert.Equal(t, "Python,FastAPI", c.RequiredSkills())
	assert.Equal(t, "Python,FastAPI", c.Snapshot().RequiredSkills)
}
