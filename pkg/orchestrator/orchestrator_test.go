package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/framereel/pkg/adapters/logger"
	"github.com/user/framereel/pkg/dirs"
	"github.com/user/framereel/pkg/frames"
	"github.com/user/framereel/pkg/mocks"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/stages/encode"
)

// mockEncodeStage is a mock for the encode stage.
type mockEncodeStage struct {
	result pipeline.EncodeResult
	err    error
	inputs []pipeline.EncodeInput
}

func (m *mockEncodeStage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return pipeline.EncodeResult{}, m.err
	}
	return m.result, nil
}

type fixture struct {
	fs      *mocks.FileSystem
	access  *mocks.StorageAccess
	surface *mocks.Surface
	encode  *mockEncodeStage
	orch    *Orchestrator
}

func newFixture(config Config) *fixture {
	f := &fixture{
		fs:      mocks.NewFileSystem(),
		access:  &mocks.StorageAccess{},
		surface: &mocks.Surface{Width: 8, Height: 8},
		encode:  &mockEncodeStage{result: pipeline.EncodeResult{Encoder: "libx264", Success: true, FileSize: 42}},
	}
	resolver := dirs.New(f.access, f.fs, logger.NewNoop(), "/data", "/tmp/fb")
	f.orch = New(resolver, f.surface, &mocks.Renderer{}, f.fs, f.encode, logger.NewNoop(), config)
	return f
}

func TestOrchestrator_InitFailureStaysNotReady(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.access.RequestFunc = func(ctx context.Context, dir string) error {
		return errors.New("denied")
	}

	f.orch.Init(context.Background())

	if f.orch.Ready() {
		t.Fatal("expected orchestrator to stay not ready")
	}

	f.orch.StartCapture()
	f.orch.StopCapture()

	if _, err := f.orch.Record(context.Background(), time.Millisecond); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady from Record, got %v", err)
	}
	res := f.orch.Generate(context.Background())
	if res.Success || !errors.Is(res.Err, ErrNotReady) {
		t.Errorf("expected failed generate with ErrNotReady, got %+v", res)
	}
	if len(f.encode.inputs) != 0 {
		t.Error("expected encoder not to run")
	}
}

func TestOrchestrator_Init(t *testing.T) {
	f := newFixture(DefaultConfig())

	f.orch.Init(context.Background())

	if !f.orch.Ready() {
		t.Fatal("expected orchestrator to be ready")
	}
	if f.orch.Layout().Base != "/data" {
		t.Errorf("expected /data base, got %s", f.orch.Layout().Base)
	}
	if !f.fs.HasDir(filepath.Join("/data", "frames")) || !f.fs.HasDir(filepath.Join("/data", "videos")) {
		t.Error("expected frames and videos directories")
	}
}

func TestOrchestrator_CaptureWritesFrames(t *testing.T) {
	config := DefaultConfig()
	config.Interval = time.Hour
	f := newFixture(config)
	f.orch.Init(context.Background())

	f.orch.StartCapture()
	d := f.orch.Driver()
	for i := 0; i < 3; i++ {
		d.Tick(context.Background())
		d.Wait()
	}
	f.orch.StopCapture()

	names, err := frames.List(f.fs, f.orch.Layout().Frames)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 3 || names[0] != "frame_0000.png" || names[2] != "frame_0002.png" {
		t.Errorf("unexpected frames %v", names)
	}
}

func TestOrchestrator_StartCaptureTicks(t *testing.T) {
	config := DefaultConfig()
	config.Interval = 5 * time.Millisecond
	f := newFixture(config)
	f.orch.Init(context.Background())

	f.orch.StartCapture()
	time.Sleep(100 * time.Millisecond)
	f.orch.StopCapture()

	d := f.orch.Driver()
	d.Wait()
	if d.Active() {
		t.Error("expected session to be stopped")
	}
	count := d.FrameCount()
	if count == 0 {
		t.Fatal("expected frames to be captured while running")
	}

	time.Sleep(30 * time.Millisecond)
	d.Wait()
	if d.FrameCount() != count {
		t.Errorf("expected no captures after stop, got %d then %d", count, d.FrameCount())
	}
}

func TestOrchestrator_StartCaptureTwiceKeepsOneTicker(t *testing.T) {
	config := DefaultConfig()
	config.Interval = 5 * time.Millisecond
	f := newFixture(config)
	f.orch.Init(context.Background())

	f.orch.StartCapture()
	f.orch.StartCapture()
	time.Sleep(50 * time.Millisecond)
	f.orch.StopCapture()
	f.orch.Driver().Wait()

	names, _ := frames.List(f.fs, f.orch.Layout().Frames)
	for i, name := range names {
		if name != frames.Name(i) {
			t.Fatalf("expected gap-free numbering, got %v", names)
		}
	}
	if len(names) == 0 {
		t.Error("expected frames to be captured")
	}
}

func TestOrchestrator_RestartAfterFrameLimit(t *testing.T) {
	config := DefaultConfig()
	config.Interval = 5 * time.Millisecond
	config.MaxFrames = 2
	f := newFixture(config)
	f.orch.Init(context.Background())

	for round := 1; round <= 2; round++ {
		stats, err := f.orch.Record(context.Background(), 2*time.Second)
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if stats.Frames != 2*round {
			t.Errorf("round %d: expected %d frames in total, got %d", round, 2*round, stats.Frames)
		}
	}

	f.orch.StartCapture()
	deadline := time.After(2 * time.Second)
	for f.orch.Driver().FrameCount() < 6 {
		select {
		case <-deadline:
			t.Fatalf("expected capture to resume after the limit, counter %d", f.orch.Driver().FrameCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
	f.orch.StopCapture()
}

func TestOrchestrator_InitContinuesNumbering(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.fs.WriteFile(filepath.Join("/data", "frames", frames.Name(0)), []byte("a"))
	f.fs.WriteFile(filepath.Join("/data", "frames", frames.Name(1)), []byte("b"))

	f.orch.Init(context.Background())

	if got := f.orch.Driver().FrameCount(); got != 2 {
		t.Errorf("expected counter to continue at 2, got %d", got)
	}
}

func TestOrchestrator_InitClean(t *testing.T) {
	config := DefaultConfig()
	config.Clean = true
	f := newFixture(config)
	f.fs.WriteFile(filepath.Join("/data", "frames", frames.Name(0)), []byte("a"))

	f.orch.Init(context.Background())

	if got := f.orch.Driver().FrameCount(); got != 0 {
		t.Errorf("expected counter 0 after clean, got %d", got)
	}
	if _, ok := f.fs.GetFile(filepath.Join("/data", "frames", frames.Name(0))); ok {
		t.Error("expected stale frame to be removed")
	}
}

func TestOrchestrator_Record(t *testing.T) {
	config := DefaultConfig()
	config.Interval = 5 * time.Millisecond
	f := newFixture(config)
	f.orch.Init(context.Background())

	stats, err := f.orch.Record(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if stats.Frames == 0 {
		t.Error("expected frames to be recorded")
	}
	if f.orch.Driver().Active() {
		t.Error("expected session to be stopped after Record")
	}
}

func TestOrchestrator_Generate(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.orch.Init(context.Background())
	f.fs.WriteFile(filepath.Join("/data", "frames", frames.Name(0)), []byte("a"))

	res := f.orch.Generate(context.Background())

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Frames != 1 || res.FileSize != 42 || res.Encoder != "libx264" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(f.encode.inputs) != 1 {
		t.Fatalf("expected one encode call, got %d", len(f.encode.inputs))
	}
	in := f.encode.inputs[0]
	if in.FramesDir != filepath.Join("/data", "frames") || in.OutputPath != filepath.Join("/data", "videos", "output.mp4") {
		t.Errorf("unexpected encode input %+v", in)
	}
	if in.FrameRate != 30 || in.PreferredEncoder != "libx264" || in.FallbackEncoder != "mpeg4" {
		t.Errorf("unexpected encoder settings %+v", in)
	}
}

func TestOrchestrator_GenerateWithNoFramesStillRuns(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.orch.Init(context.Background())

	f.orch.Generate(context.Background())

	if len(f.encode.inputs) != 1 {
		t.Error("expected encoder to run without frames")
	}
}

func TestOrchestrator_GenerateNonZeroExit(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.encode.result = pipeline.EncodeResult{Encoder: "mpeg4", ExitCode: 1}
	f.orch.Init(context.Background())

	res := f.orch.Generate(context.Background())

	if res.Success {
		t.Error("expected failure")
	}
	var exitErr *ExitError
	if !errors.As(res.Err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("expected ExitError with code 1, got %v", res.Err)
	}
}

func TestOrchestrator_GenerateStartError(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.encode.err = errors.New("no ffmpeg")
	f.orch.Init(context.Background())

	res := f.orch.Generate(context.Background())

	if res.Success || res.Err == nil {
		t.Errorf("expected failure with error, got %+v", res)
	}
}

func TestOrchestrator_GenerateWithEncodeStage(t *testing.T) {
	fs := mocks.NewFileSystem()
	runner := &mocks.CommandRunner{EncodersListing: []string{" V....D mpeg4 MPEG-4 part 2"}}
	resolver := dirs.New(&mocks.StorageAccess{}, fs, logger.NewNoop(), "/data", "")
	orch := New(resolver, &mocks.Surface{}, &mocks.Renderer{}, fs,
		encode.NewStage(runner, fs, logger.NewNoop()), logger.NewNoop(), DefaultConfig())
	orch.Init(context.Background())

	res := orch.Generate(context.Background())

	if !res.Success || res.Encoder != "mpeg4" {
		t.Errorf("expected mpeg4 fallback success, got %+v", res)
	}
	want := "-y -framerate 30 -i " + filepath.Join("/data", "frames", "frame_%04d.png") +
		" -c:v mpeg4 -pix_fmt yuv420p " + filepath.Join("/data", "videos", "output.mp4")
	if runner.LastCall() != want {
		t.Errorf("unexpected encoder call\n got: %s\nwant: %s", runner.LastCall(), want)
	}
}
