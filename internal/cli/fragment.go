// ABOUTME: Splits a loaded source into wire fragments for the session format
// ABOUTME: PCM and G.711 by fragment length, Opus by packet, file codecs pass through
package cli

import (
	"fmt"

	"github.com/zaf/g711"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/encode"
)

// fragment is one AddFragment payload and the audio time it carries
type fragment struct {
	data     []byte
	duration float64
}

func fragmentSource(src *source, format audio.Format, fragmentMs int) ([]fragment, error) {
	switch format.Codec {
	case audio.CodecPCM:
		enc, err := encode.NewPCM(format)
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		return chunk(src.buffer, fragmentMs, enc.Encode)

	case audio.CodecULaw, audio.CodecALaw:
		compand := g711.EncodeUlaw
		if format.Codec == audio.CodecALaw {
			compand = g711.EncodeAlaw
		}
		enc, err := encode.NewPCM(audio.Format{
			Codec:      audio.CodecPCM,
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   16,
		})
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		return chunk(src.buffer, fragmentMs, func(samples []float32) ([]byte, error) {
			lpcm, err := enc.Encode(samples)
			if err != nil {
				return nil, err
			}
			return compand(lpcm), nil
		})

	case audio.CodecOpus:
		enc, err := encode.NewOpus(format)
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		packets, err := enc.EncodeAll(audio.Interleave(src.buffer))
		if err != nil {
			return nil, err
		}
		packetDuration := float64(enc.FrameSamples()/format.Channels) / float64(format.SampleRate)
		frags := make([]fragment, len(packets))
		for i, p := range packets {
			frags[i] = fragment{data: p, duration: packetDuration}
		}
		return frags, nil

	case audio.CodecMP3, audio.CodecWAV, audio.CodecFLAC:
		if len(src.files) == 0 {
			return nil, fmt.Errorf("format %s needs file input", format.Codec)
		}
		frags := make([]fragment, 0, len(src.files))
		for _, f := range src.files {
			if f.codec != format.Codec {
				return nil, fmt.Errorf("%s is not a %s file", f.path, format.Codec)
			}
			frags = append(frags, fragment{data: f.data, duration: f.duration})
		}
		return frags, nil

	default:
		return nil, fmt.Errorf("unsupported format: %s", format.Codec)
	}
}

// chunk cuts buf into fragmentMs pieces (the last may be shorter) and
// encodes each one
func chunk(buf *audio.Buffer, fragmentMs int, enc func([]float32) ([]byte, error)) ([]fragment, error) {
	if fragmentMs <= 0 {
		return nil, fmt.Errorf("invalid fragment length: %dms", fragmentMs)
	}

	interleaved := audio.Interleave(buf)
	channels := buf.Channels()
	step := buf.SampleRate * fragmentMs / 1000 * channels
	if step <= 0 {
		step = channels
	}

	var frags []fragment
	for start := 0; start < len(interleaved); start += step {
		end := min(start+step, len(interleaved))
		data, err := enc(interleaved[start:end])
		if err != nil {
			return nil, err
		}
		frames := (end - start) / channels
		frags = append(frags, fragment{
			data:     data,
			duration: float64(frames) / float64(buf.SampleRate),
		})
	}
	return frags, nil
}
