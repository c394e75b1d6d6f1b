// Package encode implements the encode invoker: it probes the external
// encoder, picks an encoder identifier and turns a frames directory into a
// video.
package encode

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/framereel/pkg/adapters/codecdetect"
	"github.com/user/framereel/pkg/frames"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

// Stage runs the external encoder over captured frames.
type Stage struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	logger ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(runner ports.CommandRunner, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		runner: runner,
		fs:     fs,
		logger: logger.WithComponent("encode"),
	}
}

// Probe runs the encoder with -encoders and returns its capability listing.
// The banner is hidden so the listing starts with data.
func (s *Stage) Probe(ctx context.Context) ([]string, error) {
	s.logger.Debug("Probing encoder capabilities")
	res, err := s.runner.Run(ctx, ProbeArgs...)
	if err != nil {
		return nil, fmt.Errorf("probe encoders: %w", err)
	}
	return res.Lines, nil
}

// ProbeArgs is the capability listing command line.
var ProbeArgs = []string{"-hide_banner", "-encoders"}

// SelectEncoder returns preferred if any listing line mentions it,
// otherwise fallback.
func SelectEncoder(listing []string, preferred, fallback string) string {
	if preferred == "" {
		return fallback
	}
	for _, line := range listing {
		if strings.Contains(line, preferred) {
			return preferred
		}
	}
	return fallback
}

// BuildArgs returns the encoder command line for the given input and encoder.
func BuildArgs(input pipeline.EncodeInput, encoder string) []string {
	return []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", input.FrameRate),
		"-i", filepath.Join(input.FramesDir, frames.Pattern),
		"-c:v", encoder,
		"-pix_fmt", input.PixFmt,
		input.OutputPath,
	}
}

// Execute probes, selects an encoder and encodes the frames.
// A non-zero exit is reported as Success=false with its log lines surfaced
// to the logger; the returned error is reserved for failures to start the
// encoder at all. Partial output is left in place.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	input = withDefaults(input)
	result := pipeline.EncodeResult{OutputPath: input.OutputPath}

	listing, err := s.Probe(ctx)
	if err != nil {
		s.logger.Warn("Encoder probe failed: %s", err)
	}
	result.Encoder = SelectEncoder(listing, input.PreferredEncoder, input.FallbackEncoder)
	s.logger.Info("Selected encoder %s", result.Encoder)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("Encoding %d frames at %d fps", input.FrameCount, input.FrameRate)
	res, err := s.runner.Run(ctx, BuildArgs(input, result.Encoder)...)
	if err != nil {
		s.logger.Error("Failed to start encoder: %s", err)
		return result, fmt.Errorf("run encoder: %w", err)
	}

	result.ExitCode = res.ExitCode
	result.Lines = res.Lines
	result.Success = res.Succeeded()

	if !result.Success {
		s.logger.Error("Encoder exited with status %d", res.ExitCode)
		for _, line := range res.Lines {
			s.logger.Error("%s", line)
		}
		return result, nil
	}

	if size, err := s.fs.Size(input.OutputPath); err == nil {
		result.FileSize = size
	}
	s.logger.Info("Video generated: %s (%d bytes)", input.OutputPath, result.FileSize)

	s.inspect(&result)
	return result, nil
}

// inspect fills in stream info from the output file. Failures only log.
func (s *Stage) inspect(result *pipeline.EncodeResult) {
	data, err := s.fs.ReadFile(result.OutputPath)
	if err != nil {
		s.logger.Debug("Could not inspect output: %s", err)
		return
	}
	info, err := codecdetect.InspectBytes(data)
	if err != nil {
		s.logger.Debug("Could not inspect output: %s", err)
		return
	}
	result.Info = info
	s.logger.Debug("Detected %s video, %d samples, %d ms", info.Codec, info.Samples, info.DurationMs)
}

func withDefaults(input pipeline.EncodeInput) pipeline.EncodeInput {
	if input.FrameRate <= 0 {
		input.FrameRate = pipeline.DefaultFrameRate
	}
	if input.PreferredEncoder == "" {
		input.PreferredEncoder = pipeline.EncoderH264
	}
	if input.FallbackEncoder == "" {
		input.FallbackEncoder = pipeline.EncoderMPEG4
	}
	if input.PixFmt == "" {
		input.PixFmt = pipeline.DefaultPixFmt
	}
	return input
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult] = (*Stage)(nil)
