package codecdetect

import (
	"path/filepath"
	"testing"
)

func TestCodecForSampleEntry(t *testing.T) {
	cases := map[string]Codec{
		"avc1": CodecH264,
		"avc3": CodecH264,
		"hvc1": CodecHEVC,
		"hev1": CodecHEVC,
		"mp4v": CodecMPEG4,
		"av01": CodecAV1,
		"mp4a": CodecUnknown,
	}
	for box, want := range cases {
		if got := codecForSampleEntry(box); got != want {
			t.Errorf("codecForSampleEntry(%q) = %s, want %s", box, got, want)
		}
	}
}

func TestInspectFile_Missing(t *testing.T) {
	info, err := InspectFile(filepath.Join(t.TempDir(), "output.mp4"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if info.Codec != CodecUnknown {
		t.Errorf("expected unknown codec, got %s", info.Codec)
	}
}

func TestInspectBytes_NotMP4(t *testing.T) {
	if _, err := InspectBytes([]byte("definitely not an mp4 file")); err == nil {
		t.Error("expected error for non-MP4 data")
	}
}
