// ABOUTME: Input loading for the play command
// ABOUTME: Decodes audio files or synthesizes a tone into one session-format buffer
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/streamplay/internal/fetch"
	"github.com/Resonate-Protocol/streamplay/internal/tone"
	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/decode"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/resample"
)

// toneInput is the play argument that selects the generated tone
const toneInput = "tone"

var errNoFetcher = errors.New("remote inputs are disabled")

// inputFile is one file or URL given on the command line
type inputFile struct {
	path     string
	codec    audio.Codec
	data     []byte
	duration float64
}

// source is everything the play command feeds to a session
type source struct {
	name   string
	buffer *audio.Buffer
	files  []inputFile
}

func loadSource(ctx context.Context, args []string, s Settings, fetcher *fetch.Fetcher) (*source, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == toneInput) {
		return loadTone(s)
	}

	src := &source{name: strings.Join(args, ", ")}
	buffers := make([]*audio.Buffer, 0, len(args))
	for _, input := range args {
		path := input
		if fetch.IsRemote(input) {
			if fetcher == nil {
				return nil, fmt.Errorf("%w: %s", errNoFetcher, input)
			}
			local, err := fetcher.Fetch(ctx, input)
			if err != nil {
				return nil, err
			}
			path = local
		}

		f, buf, err := loadFile(path, s)
		if err != nil {
			return nil, err
		}
		f.path = input
		src.files = append(src.files, f)
		buffers = append(buffers, buf)
	}

	joined, err := audio.Concat(buffers...)
	if err != nil {
		return nil, fmt.Errorf("failed to join inputs: %w", err)
	}
	src.buffer = joined
	return src, nil
}

func loadTone(s Settings) (*source, error) {
	gen, err := tone.New(s.SampleRate, s.Channels)
	if err != nil {
		return nil, err
	}
	if s.Frequency > 0 {
		gen.SetFrequency(s.Frequency)
	}
	return &source{
		name:   fmt.Sprintf("tone %.0fHz", s.Frequency),
		buffer: gen.Generate(s.Duration),
	}, nil
}

// loadFile decodes a whole file and converts it to the session rate and
// channel count
func loadFile(path string, s Settings) (inputFile, *audio.Buffer, error) {
	codec, err := codecForPath(path)
	if err != nil {
		return inputFile{}, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return inputFile{}, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec, err := decode.New(audio.Format{
		Codec:      codec,
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
		BitDepth:   s.BitDepth,
	})
	if err != nil {
		return inputFile{}, nil, err
	}
	defer func() { _ = dec.Close() }()

	buf, err := dec.Decode(data)
	if err != nil {
		return inputFile{}, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	f := inputFile{path: path, codec: codec, data: data, duration: buf.Duration()}
	buf = resample.Buffer(fitChannels(buf, s.Channels), s.SampleRate)
	return f, buf, nil
}

func codecForPath(path string) (audio.Codec, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "mp3", "wav", "flac":
		return audio.Codec(ext), nil
	default:
		return "", fmt.Errorf("unsupported audio file: %s (supported: .mp3, .wav, .flac)", path)
	}
}

// fitChannels maps buf onto the requested channel count. Mono is copied to
// every channel and a mono target averages the source channels.
func fitChannels(buf *audio.Buffer, channels int) *audio.Buffer {
	src := buf.Channels()
	if src == channels || src == 0 {
		return buf
	}

	out := audio.NewBuffer(channels, buf.Frames(), buf.SampleRate)
	if channels == 1 {
		mono := out.Data[0]
		for _, data := range buf.Data {
			for i, v := range data {
				mono[i] += v / float32(src)
			}
		}
		return out
	}
	for ch := range out.Data {
		copy(out.Data[ch], buf.Data[ch%src])
	}
	return out
}
