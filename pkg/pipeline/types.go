package pipeline

import (
	"github.com/user/framereel/pkg/adapters/codecdetect"
)

// Encoder identifiers understood by the external encoder.
const (
	EncoderH264  = "libx264"
	EncoderMPEG4 = "mpeg4"
)

// Encoding defaults.
const (
	DefaultFrameRate = 30
	DefaultPixFmt    = "yuv420p"
	OutputName       = "output.mp4"
)

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput describes one encoder invocation over a frames directory.
type EncodeInput struct {
	FramesDir        string // Directory holding frame_XXXX.png files
	OutputPath       string // Destination video, overwritten when present
	FrameRate        int    // Input frame rate (default: 30)
	PreferredEncoder string // Used when the capability listing mentions it (default: libx264)
	FallbackEncoder  string // Used otherwise (default: mpeg4)
	PixFmt           string // Output pixel format (default: yuv420p)
	FrameCount       int    // Frames expected on disk, informational
}

// DefaultEncodeInput returns EncodeInput with default encoder settings.
func DefaultEncodeInput(framesDir, outputPath string) EncodeInput {
	return EncodeInput{
		FramesDir:        framesDir,
		OutputPath:       outputPath,
		FrameRate:        DefaultFrameRate,
		PreferredEncoder: EncoderH264,
		FallbackEncoder:  EncoderMPEG4,
		PixFmt:           DefaultPixFmt,
	}
}

// EncodeResult reports the outcome of an encoder invocation.
type EncodeResult struct {
	Encoder    string           // Encoder identifier that was passed to -c:v
	OutputPath string           // Video path
	Success    bool             // Encoder exited with status 0
	ExitCode   int              // Encoder exit status
	Lines      []string         // Encoder log output
	FileSize   int64            // Output size in bytes, 0 when unknown
	Info       codecdetect.Info // Detected stream info, zero when not inspected
}

// =============================================================================
// Capture Types
// =============================================================================

// CaptureStats summarizes a capture session.
type CaptureStats struct {
	Frames  int // Frames written
	Dropped int // Captures that failed and were discarded
}
