package decode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/slateplayer/slate/internal/frame"
)

// FFmpegBackend decodes through ffmpeg/ffprobe subprocesses: one
// ffprobe JSON call for metadata, then a rawvideo bgr24 pipe for
// frames. No cgo, no linked decoder libraries.
type FFmpegBackend struct {
	// FFprobePath and FFmpegPath override the binaries on PATH.
	FFprobePath string
	FFmpegPath  string
}

// Name implements Backend.
func (b *FFmpegBackend) Name() string { return "ffmpeg" }

func (b *FFmpegBackend) ffprobe() string {
	if b.FFprobePath != "" {
		return b.FFprobePath
	}
	return "ffprobe"
}

func (b *FFmpegBackend) ffmpeg() string {
	if b.FFmpegPath != "" {
		return b.FFmpegPath
	}
	return "ffmpeg"
}

// Open probes the file, then starts the decode process. The returned
// producer owns the subprocess; Close terminates it.
func (b *FFmpegBackend) Open(ctx context.Context, path string) (FrameProducer, Info, error) {
	out, err := exec.CommandContext(ctx, b.ffprobe(),
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	).Output()
	if err != nil {
		return nil, Info{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	info, err := ParseProbeJSON(out)
	if err != nil {
		return nil, Info{}, err
	}

	cctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cctx, b.ffmpeg(),
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, Info{}, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, Info{}, fmt.Errorf("start ffmpeg: %w", err)
	}

	return &ffmpegProducer{
		cmd:    cmd,
		out:    stdout,
		cancel: cancel,
		width:  info.Width,
		height: info.Height,
	}, info, nil
}

type ffmpegProducer struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	cancel context.CancelFunc
	width  int
	height int
}

// Next reads exactly one frame from the pipe. Returns io.EOF when the
// stream ends.
func (p *ffmpegProducer) Next() (*frame.Frame, error) {
	f := frame.New(p.width, p.height)
	if _, err := io.ReadFull(p.out, f.Pix); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return nil, err
	}
	return f, nil
}

func (p *ffmpegProducer) Close() error {
	p.cancel()
	_ = p.out.Close()
	// Wait reaps the process; the kill from cancel makes the exit
	// status meaningless here.
	_ = p.cmd.Wait()
	return nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

// ParseProbeJSON converts raw ffprobe JSON output into an Info.
// Exported for testing without a real ffprobe binary.
func ParseProbeJSON(data []byte) (Info, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var info Info
	for _, s := range raw.Streams {
		if s.CodecType != "video" {
			continue
		}
		info.Width = s.Width
		info.Height = s.Height
		info.Codec = s.CodecName
		info.FPS = parseRate(s.AvgFrameRate)
		break
	}
	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, fmt.Errorf("no video stream found")
	}
	if secs, err := strconv.ParseFloat(raw.Format.Duration, 64); err == nil {
		info.Duration = time.Duration(secs * float64(time.Second))
	}
	return info, nil
}

// parseRate parses ffprobe's "30000/1001" rational rate form.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
