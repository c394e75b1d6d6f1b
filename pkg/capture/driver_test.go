package capture

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/user/framereel/pkg/adapters/filesink"
	"github.com/user/framereel/pkg/adapters/ggrenderer"
	"github.com/user/framereel/pkg/adapters/logger"
	"github.com/user/framereel/pkg/adapters/osfilesystem"
	"github.com/user/framereel/pkg/frames"
	"github.com/user/framereel/pkg/mocks"
)

func newTestDriver(surface *mocks.Surface, sink *mocks.FrameSink, opts Options) *Driver {
	return New(surface, sink, logger.NewNoop(), opts)
}

func TestDriver_InitialState(t *testing.T) {
	d := newTestDriver(&mocks.Surface{}, &mocks.FrameSink{}, Options{})

	if d.Active() {
		t.Error("expected inactive session")
	}
	if d.FrameCount() != 0 {
		t.Errorf("expected counter 0, got %d", d.FrameCount())
	}
}

func TestDriver_TickWhileInactive(t *testing.T) {
	surface := &mocks.Surface{}
	sink := &mocks.FrameSink{}
	d := newTestDriver(surface, sink, Options{})

	d.Tick(context.Background())
	d.Wait()

	if surface.Snapshots() != 0 {
		t.Errorf("expected no snapshot while inactive, got %d", surface.Snapshots())
	}
	if len(sink.SavedIndexes()) != 0 {
		t.Error("expected no frames while inactive")
	}
}

func TestDriver_SequentialFrames(t *testing.T) {
	sink := &mocks.FrameSink{}
	d := newTestDriver(&mocks.Surface{}, sink, Options{})

	d.Start()
	for i := 0; i < 5; i++ {
		d.Tick(context.Background())
		d.Wait()
	}

	got := sink.SavedIndexes()
	for i, idx := range got {
		if idx != i {
			t.Fatalf("expected indexes 0..4 in order, got %v", got)
		}
	}
	if len(got) != 5 || d.FrameCount() != 5 {
		t.Errorf("expected 5 frames, got %v (counter %d)", got, d.FrameCount())
	}
}

func TestDriver_StartTwiceKeepsNumbering(t *testing.T) {
	sink := &mocks.FrameSink{}
	d := newTestDriver(&mocks.Surface{}, sink, Options{})

	d.Start()
	d.Tick(context.Background())
	d.Wait()
	d.Tick(context.Background())
	d.Wait()

	d.Start()
	if !d.Active() {
		t.Fatal("expected session to remain active")
	}
	if d.FrameCount() != 2 {
		t.Fatalf("expected counter to be kept at 2, got %d", d.FrameCount())
	}

	d.Tick(context.Background())
	d.Wait()

	got := sink.SavedIndexes()
	if len(got) != 3 || got[2] != 2 {
		t.Errorf("expected numbering to continue at 2, got %v", got)
	}
}

func TestDriver_RestartAfterStopContinues(t *testing.T) {
	sink := &mocks.FrameSink{}
	d := newTestDriver(&mocks.Surface{}, sink, Options{})

	d.Start()
	d.Tick(context.Background())
	d.Wait()
	d.Stop()

	d.Tick(context.Background())
	d.Wait()
	if d.FrameCount() != 1 {
		t.Fatalf("expected stopped session to ignore ticks, got counter %d", d.FrameCount())
	}

	d.Start()
	d.Tick(context.Background())
	d.Wait()

	if got := sink.SavedIndexes(); len(got) != 2 || got[1] != 1 {
		t.Errorf("expected indexes [0 1], got %v", got)
	}
}

func TestDriver_StartIndex(t *testing.T) {
	sink := &mocks.FrameSink{}
	d := newTestDriver(&mocks.Surface{}, sink, Options{StartIndex: 12})

	d.Start()
	d.Tick(context.Background())
	d.Wait()

	if got := sink.SavedIndexes(); len(got) != 1 || got[0] != 12 {
		t.Errorf("expected first frame at 12, got %v", got)
	}
	if stats := d.Stats(); stats.Frames != 1 {
		t.Errorf("expected 1 frame in stats, got %d", stats.Frames)
	}
}

func TestDriver_SnapshotErrorDropsFrame(t *testing.T) {
	fail := true
	surface := &mocks.Surface{
		SnapshotFunc: func(ctx context.Context) (image.Image, error) {
			if fail {
				return nil, errors.New("surface detached")
			}
			return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
		},
	}
	sink := &mocks.FrameSink{}
	d := newTestDriver(surface, sink, Options{})

	d.Start()
	d.Tick(context.Background())
	d.Wait()

	if !d.Active() {
		t.Error("expected session to continue after a dropped frame")
	}
	if d.FrameCount() != 0 {
		t.Errorf("expected counter unchanged, got %d", d.FrameCount())
	}

	fail = false
	d.Tick(context.Background())
	d.Wait()

	if got := sink.SavedIndexes(); len(got) != 1 || got[0] != 0 {
		t.Errorf("expected next frame to reuse index 0, got %v", got)
	}
	if stats := d.Stats(); stats.Dropped != 1 {
		t.Errorf("expected 1 dropped frame, got %d", stats.Dropped)
	}
}

func TestDriver_SaveErrorDropsFrame(t *testing.T) {
	sink := &mocks.FrameSink{
		SaveFrameFunc: func(index int, img image.Image) error {
			return errors.New("disk full")
		},
	}
	d := newTestDriver(&mocks.Surface{}, sink, Options{})

	d.Start()
	d.Tick(context.Background())
	d.Wait()

	if d.FrameCount() != 0 {
		t.Errorf("expected counter unchanged, got %d", d.FrameCount())
	}
	if d.Stats().Dropped != 1 {
		t.Errorf("expected 1 dropped frame, got %d", d.Stats().Dropped)
	}
}

func TestDriver_SettleDelayWhenRepainting(t *testing.T) {
	surface := &mocks.Surface{RepaintingFunc: func() bool { return true }}
	d := newTestDriver(surface, &mocks.FrameSink{}, Options{SettleDelay: 30 * time.Millisecond})

	start := time.Now()
	d.capture(context.Background())
	elapsed := time.Since(start)

	if elapsed < 30*time.Millisecond {
		t.Errorf("expected settle delay of at least 30ms, took %s", elapsed)
	}
	if surface.RepaintChecks() != 1 {
		t.Errorf("expected a single repaint check, got %d", surface.RepaintChecks())
	}
	if surface.Snapshots() != 1 {
		t.Errorf("expected snapshot after waiting, got %d", surface.Snapshots())
	}
}

func TestDriver_MaxFramesStopsSession(t *testing.T) {
	sink := &mocks.FrameSink{}
	d := newTestDriver(&mocks.Surface{}, sink, Options{MaxFrames: 3})

	d.Start()
	for i := 0; i < 5; i++ {
		d.Tick(context.Background())
		d.Wait()
	}

	if d.Active() {
		t.Error("expected session to stop at the frame limit")
	}
	if len(sink.SavedIndexes()) != 3 {
		t.Errorf("expected 3 frames, got %v", sink.SavedIndexes())
	}
	select {
	case <-d.LimitReached():
	default:
		t.Error("expected limit channel to be closed")
	}
}

func TestDriver_MaxFramesCountsFromStartIndex(t *testing.T) {
	sink := &mocks.FrameSink{}
	d := newTestDriver(&mocks.Surface{}, sink, Options{StartIndex: 10, MaxFrames: 2})

	d.Start()
	for i := 0; i < 4; i++ {
		d.Tick(context.Background())
		d.Wait()
	}

	got := sink.SavedIndexes()
	if len(got) != 2 || got[0] != 10 || got[1] != 11 {
		t.Errorf("expected frames 10 and 11, got %v", got)
	}
}

func TestDriver_RestartAfterFrameLimit(t *testing.T) {
	sink := &mocks.FrameSink{}
	d := newTestDriver(&mocks.Surface{}, sink, Options{MaxFrames: 2})

	d.Start()
	for i := 0; i < 3; i++ {
		d.Tick(context.Background())
		d.Wait()
	}
	first := d.LimitReached()
	select {
	case <-first:
	default:
		t.Fatal("expected limit channel to be closed")
	}

	d.Start()
	if !d.Active() {
		t.Fatal("expected restart after the limit to activate the session")
	}
	select {
	case <-d.LimitReached():
		t.Fatal("expected a fresh limit channel for the new session")
	default:
	}

	for i := 0; i < 3; i++ {
		d.Tick(context.Background())
		d.Wait()
	}
	got := sink.SavedIndexes()
	if len(got) != 4 || got[2] != 2 || got[3] != 3 {
		t.Errorf("expected frames 0..3 across both sessions, got %v", got)
	}
	if d.Active() {
		t.Error("expected second session to stop at its limit")
	}
}

func TestDriver_StopDoesNotCancelInFlight(t *testing.T) {
	release := make(chan struct{})
	surface := &mocks.Surface{
		SnapshotFunc: func(ctx context.Context) (image.Image, error) {
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
		},
	}
	sink := &mocks.FrameSink{}
	d := newTestDriver(surface, sink, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start()
	d.Tick(ctx)
	d.Stop()
	cancel()
	close(release)
	d.Wait()

	if got := sink.SavedIndexes(); len(got) != 1 {
		t.Errorf("expected in-flight capture to complete, got %v", got)
	}
}

func TestDriver_OverlappingCapturesStayGapFree(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	surface := &mocks.Surface{
		SnapshotFunc: func(ctx context.Context) (image.Image, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			time.Sleep(time.Duration(n%3) * time.Millisecond)
			return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
		},
	}
	sink := &mocks.FrameSink{}
	d := newTestDriver(surface, sink, Options{})

	d.Start()
	for i := 0; i < 20; i++ {
		d.Tick(context.Background())
	}
	d.Wait()

	got := sink.SavedIndexes()
	if len(got) != 20 {
		t.Fatalf("expected 20 frames, got %d", len(got))
	}
	for i, idx := range got {
		if idx != i {
			t.Fatalf("expected strictly increasing indexes, got %v", got)
		}
	}
}

func TestDriver_Run(t *testing.T) {
	sink := &mocks.FrameSink{}
	d := newTestDriver(&mocks.Surface{}, sink, Options{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	d.Start()
	d.Run(ctx)
	d.Stop()
	d.Wait()

	if len(sink.SavedIndexes()) == 0 {
		t.Error("expected frames to be captured while running")
	}
}

func TestDriver_WritesNumberedFiles(t *testing.T) {
	dir := t.TempDir()
	sink := filesink.New(dir, osfilesystem.New(), ggrenderer.New())
	d := New(&mocks.Surface{Width: 16, Height: 16}, sink, logger.NewNoop(), Options{})

	d.Start()
	for i := 0; i < 3; i++ {
		d.Tick(context.Background())
		d.Wait()
	}

	names, err := frames.List(osfilesystem.New(), dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"frame_0000.png", "frame_0001.png", "frame_0002.png"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %s, got %s", want[i], names[i])
		}
		if _, err := osfilesystem.New().Size(filepath.Join(dir, names[i])); err != nil {
			t.Errorf("frame %s not readable: %v", names[i], err)
		}
	}
}
