// ABOUTME: Audio type definitions
// ABOUTME: Defines codecs and stream formats
package audio

import "fmt"

// Codec identifies how fragment bytes are encoded
type Codec string

const (
	CodecPCM  Codec = "pcm"
	CodecMP3  Codec = "mp3"
	CodecWAV  Codec = "wav"
	CodecFLAC Codec = "flac"
	CodecOpus Codec = "opus"
	CodecULaw Codec = "mulaw"
	CodecALaw Codec = "alaw"
)

// Compressed reports whether fragments of this codec go through a decoder
// rather than the PCM sample converter.
func (c Codec) Compressed() bool {
	return c != CodecPCM
}

// Valid reports whether c is a codec this package knows about
func (c Codec) Valid() bool {
	switch c {
	case CodecPCM, CodecMP3, CodecWAV, CodecFLAC, CodecOpus, CodecULaw, CodecALaw:
		return true
	}
	return false
}

// ParseCodec converts a user supplied name to a Codec
func ParseCodec(name string) (Codec, error) {
	c := Codec(name)
	switch name {
	case "ulaw", "pcmu":
		c = CodecULaw
	case "pcma":
		c = CodecALaw
	}
	if !c.Valid() {
		return "", fmt.Errorf("unknown codec: %s", name)
	}
	return c, nil
}

// Format describes audio stream format
type Format struct {
	Codec      Codec
	SampleRate int
	Channels   int
	BitDepth   int // Only meaningful for CodecPCM
}

func (f Format) String() string {
	if f.Codec == CodecPCM {
		return fmt.Sprintf("%s %dHz %dch %dbit", f.Codec, f.SampleRate, f.Channels, f.BitDepth)
	}
	return fmt.Sprintf("%s %dHz %dch", f.Codec, f.SampleRate, f.Channels)
}
