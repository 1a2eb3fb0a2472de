package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/internal/assembler"
	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// fakeMedia probes a fixed duration and writes placeholder artifacts.
type fakeMedia struct {
	fs        afero.Fs
	duration  time.Duration
	probeErr  error
	probeGate chan struct{}
	missing   bool
}

func (f *fakeMedia) Probe(ctx context.Context, path string) (time.Duration, error) {
	if f.probeGate != nil {
		<-f.probeGate
	}
	return f.duration, f.probeErr
}

func (f *fakeMedia) Extract(ctx context.Context, ws media.Workspace, path string, start, duration time.Duration) (string, error) {
	out, err := ws.Track(fmt.Sprintf("chunk-%d.wav", start/time.Second))
	if err != nil {
		return "", err
	}
	return out, afero.WriteFile(f.fs, out, []byte("RIFF"), 0644)
}

func (f *fakeMedia) Check() error {
	if f.missing {
		return fmt.Errorf("%w: ffmpeg", models.ErrToolchainMissing)
	}
	return nil
}

func (f *fakeMedia) Status() []media.ToolStatus { return nil }

// fakeTranscriber can block each call until released and fail chosen windows.
type fakeTranscriber struct {
	mu      sync.Mutex
	calls   int
	failOn  map[int]bool
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, tier models.Tier, wavPath, hint string) (string, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.failOn[call] {
		return "", fmt.Errorf("%w: corrupt audio", models.ErrTranscriptionFailed)
	}
	return fmt.Sprintf("part %d", call), nil
}

func (f *fakeTranscriber) Close() error { return nil }

type fakeSummarizer struct{ calls int }

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.calls++
	return fmt.Sprintf("summary%d", f.calls), nil
}

type fixture struct {
	ctrl Controller
	fs   afero.Fs
	med  *fakeMedia
	tr   *fakeTranscriber
	sum  *fakeSummarizer
}

func newFixture(t *testing.T, duration time.Duration) *fixture {
	t.Helper()

	cfg := &config.Config{Paths: config.PathsConfig{Temp: "/tmp"}}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/in/meeting.mp4", []byte("media"), 0644); err != nil {
		t.Fatal(err)
	}

	med := &fakeMedia{fs: fs, duration: duration}
	tr := &fakeTranscriber{}
	sum := &fakeSummarizer{}
	log := logger.Nop()

	ctrl := New(cfg, Dependencies{
		FS:          fs,
		Prober:      med,
		Toolchain:   med,
		Transcripts: assembler.NewTranscripts(med, tr, log),
		Summaries:   assembler.NewSummaries(sum, 20, log),
		Logger:      log,
	})
	return &fixture{ctrl: ctrl, fs: fs, med: med, tr: tr, sum: sum}
}

func drain(ch <-chan models.ProgressEvent) []models.ProgressEvent {
	var events []models.ProgressEvent
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func assertNoArtifacts(t *testing.T, fs afero.Fs) {
	t.Helper()
	matches, err := afero.Glob(fs, "/tmp/recap-*")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("residual workspaces: %v", matches)
	}
}

func request() models.JobRequest {
	return models.JobRequest{MediaPath: "/in/meeting.mp4", Tier: models.TierFast, ChunkDuration: time.Minute}
}

func TestEndToEnd130Seconds(t *testing.T) {
	f := newFixture(t, 130*time.Second)

	id, err := f.ctrl.Start(request())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	job := f.ctrl.Wait()

	if job.ID != id || job.Phase != models.PhaseDone {
		t.Fatalf("job = %s/%s, want %s/done (err %q)", job.ID, job.Phase, id, job.Err)
	}

	lines := strings.Split(job.Transcript.String(), "\n")
	wantPrefixes := []string{"[0:00:00] ", "[0:01:00] ", "[0:02:00] "}
	if len(lines) != len(wantPrefixes) {
		t.Fatalf("transcript lines = %v", lines)
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
	if job.Summary == "" || f.sum.calls == 0 {
		t.Error("summary was not produced")
	}
	if job.MediaDuration != 130*time.Second {
		t.Errorf("MediaDuration = %v", job.MediaDuration)
	}

	events := drain(f.ctrl.Events())
	if len(events) == 0 {
		t.Fatal("no progress events")
	}
	for i, ev := range events {
		if ev.Percent < 0 || ev.Percent > 100 {
			t.Errorf("event %d percent %v out of range", i, ev.Percent)
		}
		if i > 0 && ev.Percent < events[i-1].Percent {
			t.Errorf("percent decreased: %v -> %v", events[i-1].Percent, ev.Percent)
		}
	}
	last := events[len(events)-1]
	if last.Percent != 100 || last.Phase != models.PhaseDone || !last.Final() {
		t.Errorf("last event = %+v", last)
	}

	sawSummaryPhase := false
	for _, ev := range events {
		if ev.Phase == models.PhaseSummarizing {
			sawSummaryPhase = true
			if ev.Percent < transcribeShare {
				t.Errorf("summarizing event at %v%%, want >= %v", ev.Percent, transcribeShare)
			}
		}
	}
	if !sawSummaryPhase {
		t.Error("no summarizing events")
	}

	assertNoArtifacts(t, f.fs)
}

func TestStartRejections(t *testing.T) {
	f := newFixture(t, time.Minute)

	tests := []struct {
		name string
		req  models.JobRequest
		want error
	}{
		{"empty path", models.JobRequest{}, models.ErrInputNotFound},
		{"missing file", models.JobRequest{MediaPath: "/in/nope.mp4"}, models.ErrInputNotFound},
		{"directory", models.JobRequest{MediaPath: "/in"}, models.ErrInputNotFound},
		{"bad tier", models.JobRequest{MediaPath: "/in/meeting.mp4", Tier: "ultra"}, models.ErrInvalidTier},
		{"bad chunk", models.JobRequest{MediaPath: "/in/meeting.mp4", ChunkDuration: 45 * time.Second}, models.ErrInvalidChunkDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.ctrl.Start(tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Start() error = %v, want %v", err, tt.want)
			}
			if got := f.ctrl.Snapshot().Phase; got != models.PhaseIdle {
				t.Errorf("phase = %s after rejection, want idle", got)
			}
		})
	}

	f.med.missing = true
	if _, err := f.ctrl.Start(request()); !errors.Is(err, models.ErrToolchainMissing) {
		t.Errorf("Start() error = %v, want ErrToolchainMissing", err)
	}
}

func TestStartDefaultsFromConfig(t *testing.T) {
	f := newFixture(t, 30*time.Second)

	if _, err := f.ctrl.Start(models.JobRequest{MediaPath: "/in/meeting.mp4"}); err != nil {
		t.Fatal(err)
	}
	job := f.ctrl.Wait()
	if job.Tier != models.TierFast || job.ChunkDuration != time.Minute {
		t.Errorf("defaults = %s/%v, want fast/1m", job.Tier, job.ChunkDuration)
	}
}

func TestRejectWhileRunning(t *testing.T) {
	f := newFixture(t, 2*time.Minute)
	f.tr.started = make(chan struct{}, 10)
	f.tr.gate = make(chan struct{})

	first, err := f.ctrl.Start(request())
	if err != nil {
		t.Fatal(err)
	}
	<-f.tr.started

	if _, err := f.ctrl.Start(request()); !errors.Is(err, models.ErrJobAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrJobAlreadyRunning", err)
	}
	if got := f.ctrl.Snapshot().ID; got != first {
		t.Errorf("running job replaced: %s != %s", got, first)
	}

	close(f.tr.gate)
	if job := f.ctrl.Wait(); job.Phase != models.PhaseDone {
		t.Errorf("phase = %s, want done", job.Phase)
	}
}

func TestCancelMidJob(t *testing.T) {
	f := newFixture(t, 5*time.Minute)
	f.tr.started = make(chan struct{}, 10)
	f.tr.gate = make(chan struct{})

	if _, err := f.ctrl.Start(request()); err != nil {
		t.Fatal(err)
	}
	<-f.tr.started

	f.ctrl.Cancel()
	f.ctrl.Cancel()
	close(f.tr.gate)

	job := f.ctrl.Wait()
	if job.Phase != models.PhaseCancelled {
		t.Fatalf("phase = %s, want cancelled", job.Phase)
	}
	// The in-flight window completes before the stop is observed.
	if len(job.Transcript) != 1 {
		t.Errorf("segments = %d, want 1", len(job.Transcript))
	}
	if job.Err != "" {
		t.Errorf("cancelled job carries error %q", job.Err)
	}
	if f.sum.calls != 0 {
		t.Error("summarization ran after cancel")
	}

	events := drain(f.ctrl.Events())
	if last := events[len(events)-1]; last.Phase != models.PhaseCancelled {
		t.Errorf("last event phase = %s, want cancelled", last.Phase)
	}
	assertNoArtifacts(t, f.fs)
}

func TestCancelBeforeFirstWindow(t *testing.T) {
	f := newFixture(t, 3*time.Minute)
	f.med.probeGate = make(chan struct{})

	if _, err := f.ctrl.Start(request()); err != nil {
		t.Fatal(err)
	}
	f.ctrl.Cancel()
	close(f.med.probeGate)

	job := f.ctrl.Wait()
	if job.Phase != models.PhaseCancelled {
		t.Fatalf("phase = %s, want cancelled", job.Phase)
	}
	if len(job.Transcript) != 0 || f.tr.calls != 0 {
		t.Errorf("segments = %d, transcriber calls = %d, want 0/0", len(job.Transcript), f.tr.calls)
	}
	assertNoArtifacts(t, f.fs)
}

func TestCancelWhenIdleIsNoop(t *testing.T) {
	f := newFixture(t, time.Minute)
	f.ctrl.Cancel()
	if got := f.ctrl.Snapshot().Phase; got != models.PhaseIdle {
		t.Errorf("phase = %s, want idle", got)
	}
	select {
	case <-f.ctrl.Done():
	default:
		t.Error("Done() should be closed when no job ran")
	}
}

func TestProbeFailureFailsJob(t *testing.T) {
	f := newFixture(t, 0)
	f.med.probeErr = fmt.Errorf("%w: no audio stream", models.ErrMediaUnreadable)

	if _, err := f.ctrl.Start(request()); err != nil {
		t.Fatal(err)
	}
	job := f.ctrl.Wait()

	if job.Phase != models.PhaseFailed {
		t.Fatalf("phase = %s, want failed", job.Phase)
	}
	if !strings.Contains(job.Err, "media unreadable") || !strings.HasPrefix(job.Err, "probe:") {
		t.Errorf("Err = %q", job.Err)
	}
	if len(job.Transcript) != 0 || job.Summary != "" {
		t.Error("failed probe should leave no output")
	}

	events := drain(f.ctrl.Events())
	last := events[len(events)-1]
	if last.Phase != models.PhaseFailed || last.Err == "" {
		t.Errorf("last event = %+v", last)
	}
	assertNoArtifacts(t, f.fs)
}

func TestOneWindowFailureCompletes(t *testing.T) {
	f := newFixture(t, 4*time.Minute)
	f.tr.failOn = map[int]bool{2: true}

	if _, err := f.ctrl.Start(request()); err != nil {
		t.Fatal(err)
	}
	job := f.ctrl.Wait()

	if job.Phase != models.PhaseDone {
		t.Fatalf("phase = %s, want done", job.Phase)
	}
	if len(job.Transcript) != 3 || job.Skipped != 1 {
		t.Errorf("segments = %d skipped = %d, want 3/1", len(job.Transcript), job.Skipped)
	}
}

func TestRestartClearsPreviousJob(t *testing.T) {
	f := newFixture(t, 2*time.Minute)

	first, err := f.ctrl.Start(request())
	if err != nil {
		t.Fatal(err)
	}
	f.ctrl.Wait()

	f.med.duration = 30 * time.Second
	second, err := f.ctrl.Start(request())
	if err != nil {
		t.Fatalf("restart error = %v", err)
	}
	job := f.ctrl.Wait()

	if first == second {
		t.Error("restart reused the job ID")
	}
	if len(job.Transcript) != 1 {
		t.Errorf("segments = %d, want 1 (previous transcript cleared)", len(job.Transcript))
	}
}

func TestTranscriptOnlyWithoutSummaries(t *testing.T) {
	f := newFixture(t, time.Minute)
	impl := f.ctrl.(*implController)
	impl.deps.Summaries = nil

	if _, err := f.ctrl.Start(request()); err != nil {
		t.Fatal(err)
	}
	job := f.ctrl.Wait()
	if job.Phase != models.PhaseDone || job.Summary != "" || f.sum.calls != 0 {
		t.Errorf("job = %s summary %q calls %d", job.Phase, job.Summary, f.sum.calls)
	}
}

func TestPublishDropsOldest(t *testing.T) {
	c := New(&config.Config{}, Dependencies{Logger: logger.Nop()}).(*implController)

	for i := 0; i < eventBuffer+10; i++ {
		c.publish(models.ProgressEvent{Percent: float64(i)})
	}

	events := drain(c.Events())
	if len(events) != eventBuffer {
		t.Fatalf("buffered %d events, want %d", len(events), eventBuffer)
	}
	if events[0].Percent != 10 || events[len(events)-1].Percent != float64(eventBuffer+9) {
		t.Errorf("kept %v..%v, want the newest events", events[0].Percent, events[len(events)-1].Percent)
	}
}

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from, to models.Phase
		want     bool
	}{
		{models.PhaseIdle, models.PhaseTranscribing, true},
		{models.PhaseIdle, models.PhaseSummarizing, false},
		{models.PhaseTranscribing, models.PhaseSummarizing, true},
		{models.PhaseTranscribing, models.PhaseDone, true},
		{models.PhaseSummarizing, models.PhaseTranscribing, false},
		{models.PhaseSummarizing, models.PhaseCancelled, true},
		{models.PhaseDone, models.PhaseTranscribing, true},
		{models.PhaseFailed, models.PhaseSummarizing, false},
	}
	for _, tt := range tests {
		if got := isValidTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("isValidTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestProgressClamp(t *testing.T) {
	c := New(&config.Config{}, Dependencies{Logger: logger.Nop()}).(*implController)
	p := &progress{c: c, jobID: "j"}

	p.emit(40, models.PhaseTranscribing, "", "", nil)
	p.emit(30, models.PhaseTranscribing, "", "", nil)
	p.emit(120, models.PhaseSummarizing, "", "", nil)

	events := drain(c.Events())
	got := []float64{events[0].Percent, events[1].Percent, events[2].Percent}
	if got[0] != 40 || got[1] != 40 || got[2] != 100 {
		t.Errorf("percents = %v, want [40 40 100]", got)
	}
}
