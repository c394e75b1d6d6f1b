package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Recording Summary"))

	fmt.Fprintf(&b, "## %s\n\n", t("Capture"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	if s.Capture.Surface != "" {
		row(&b, t("Surface"), fmt.Sprintf("%s (%dx%d)", s.Capture.Surface, s.Capture.Width, s.Capture.Height))
	}
	if s.Capture.IntervalMs > 0 {
		row(&b, t("Capture Interval"), fmt.Sprintf("%d ms", s.Capture.IntervalMs))
	}
	row(&b, t("Frames Captured"), fmt.Sprintf("%d", s.Capture.Frames))
	if s.Capture.Dropped > 0 {
		row(&b, t("Frames Dropped"), fmt.Sprintf("%d", s.Capture.Dropped))
	}
	if s.Capture.TotalOnDisk > 0 {
		row(&b, t("Frames Encoded"), fmt.Sprintf("%d", s.Capture.TotalOnDisk))
	}
	if s.Capture.Directory != "" {
		row(&b, t("Frames Directory"), "`"+s.Capture.Directory+"`")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Video"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	if s.Video.Success {
		row(&b, t("Status"), t("Generated"))
	} else {
		row(&b, t("Status"), fmt.Sprintf("%s (%s %d)", t("Failed"), t("exit status"), s.Video.ExitCode))
	}
	if s.Video.Path != "" {
		row(&b, t("Output"), "`"+s.Video.Path+"`")
	}
	if s.Video.Encoder != "" {
		row(&b, t("Encoder"), s.Video.Encoder)
	}
	if s.Video.FrameRate > 0 {
		row(&b, t("Frame Rate"), fmt.Sprintf("%d fps", s.Video.FrameRate))
	}
	if s.Video.Success {
		row(&b, t("File Size"), formatBytes(s.Video.FileSize))
		if s.Video.Codec != "" {
			row(&b, t("Codec"), s.Video.Codec)
		}
		if s.Video.Samples > 0 {
			row(&b, t("Samples"), fmt.Sprintf("%d", s.Video.Samples))
		}
		if s.Video.DurationMs > 0 {
			row(&b, t("Duration"), fmt.Sprintf("%d ms", s.Video.DurationMs))
		}
	}
	if s.Video.ElapsedMs > 0 {
		row(&b, t("Encode Time"), fmt.Sprintf("%d ms", s.Video.ElapsedMs))
	}
	b.WriteString("\n")

	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format(time.RFC3339))
	if s.RunID != "" {
		footer += fmt.Sprintf(" · %s %s", t("Run"), s.RunID)
	}
	if f.version != "" {
		footer += fmt.Sprintf(" · framereel %s", f.version)
	}
	fmt.Fprintf(&b, "---\n\n_%s_\n", footer)

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, value)
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
