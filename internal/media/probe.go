package media

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo is the technical metadata ffprobe reports for a clip.
type VideoInfo struct {
	Duration float64
	Width    int
	Height   int
	Format   string
}

// ProbeVideo runs ffprobe against the file and extracts duration and the
// dimensions of the first video stream. Requires ffprobe on PATH; callers
// treat failures as missing metadata, not as a broken file.
func ProbeVideo(path string) (*VideoInfo, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration   string `json:"duration"`
			FormatName string `json:"format_name"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("cannot parse ffprobe output for %s: %w", path, err)
	}

	info := &VideoInfo{Format: result.Format.FormatName}
	if duration, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
		info.Duration = duration
	}
	for _, stream := range result.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}
	return info, nil
}
