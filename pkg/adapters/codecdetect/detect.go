// Package codecdetect inspects MP4 files produced by the encoder.
package codecdetect

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecMPEG4   Codec = "mpeg4"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// Info describes the first video track of an MP4 file.
type Info struct {
	Codec      Codec
	Samples    int // Number of video samples (frames); 0 for fragmented files
	DurationMs int // Track duration from the media header
}

// DetectFromFile detects the video codec used in an MP4 file.
func DetectFromFile(path string) (Codec, error) {
	info, err := InspectFile(path)
	return info.Codec, err
}

// InspectFile reads the video track description of an MP4 file.
func InspectFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{Codec: CodecUnknown}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return InspectReader(f)
}

// InspectBytes reads the video track description from MP4 data.
func InspectBytes(data []byte) (Info, error) {
	return InspectReader(bytes.NewReader(data))
}

// InspectReader reads the video track description from an io.ReadSeeker.
// The reader is rewound afterwards.
func InspectReader(reader io.ReadSeeker) (Info, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Info{Codec: CodecUnknown}, fmt.Errorf("decode mp4: %w", err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return Info{Codec: CodecUnknown}, fmt.Errorf("seek: %w", err)
	}

	return inspectMP4File(mp4File)
}

func inspectMP4File(mp4File *mp4.File) (Info, error) {
	var traks []*mp4.TrakBox
	if mp4File.IsFragmented() && mp4File.Init != nil && mp4File.Init.Moov != nil {
		traks = append(traks, mp4File.Init.Moov.Traks...)
	}
	if mp4File.Moov != nil {
		traks = append(traks, mp4File.Moov.Traks...)
	}

	for _, trak := range traks {
		if info, ok := inspectTrack(trak); ok {
			return info, nil
		}
	}

	return Info{Codec: CodecUnknown}, fmt.Errorf("no video track found")
}

func inspectTrack(trak *mp4.TrakBox) (Info, bool) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
		return Info{}, false
	}

	// Only process video tracks
	if trak.Mdia.Hdlr.HandlerType != "vide" {
		return Info{}, false
	}

	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return Info{}, false
	}

	info := Info{Codec: CodecUnknown}
	stbl := trak.Mdia.Minf.Stbl

	for _, child := range stbl.Stsd.Children {
		if codec := codecForSampleEntry(child.Type()); codec != CodecUnknown {
			info.Codec = codec
			break
		}
	}

	if stbl.Stsz != nil {
		info.Samples = int(stbl.Stsz.SampleNumber)
	}

	if mdhd := trak.Mdia.Mdhd; mdhd != nil && mdhd.Timescale > 0 {
		info.DurationMs = int(mdhd.Duration * 1000 / uint64(mdhd.Timescale))
	}

	return info, true
}

func codecForSampleEntry(boxType string) Codec {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "mp4v":
		return CodecMPEG4
	case "av01":
		return CodecAV1
	default:
		return CodecUnknown
	}
}
