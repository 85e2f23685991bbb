// ABOUTME: Streaming fragment player package
// ABOUTME: Buffers audio fragments and schedules gap-free playback units
// Package streamplay buffers audio fragments that arrive asynchronously and
// schedules them for gap-free playback on an output device.
//
// Raw PCM fragments are converted to float32 and accumulated; compressed
// fragments (MP3, WAV, FLAC, Opus, G.711) are decoded concurrently and queued.
// A flush ticker extracts one playback unit per interval and schedules it at a
// playback cursor that advances by exactly the unit's duration, so consecutive
// units play back to back regardless of how the stream was chunked.
//
// Example:
//
//	dev := output.NewMalgo(logger)
//	_ = dev.Open(16000, 1)
//	p, err := streamplay.NewPlayer(streamplay.Config{
//	    Format:     audio.CodecPCM,
//	    SampleRate: 16000,
//	    Channels:   1,
//	    BitDepth:   16,
//	    Device:     dev,
//	})
//	p.On(streamplay.EventUnitEnded, func(ev streamplay.Event) {
//	    fmt.Println("unit ended", ev.Params["utterance"])
//	})
//	_ = p.SetParams(streamplay.Params{"utterance": "42"})
//	_ = p.AddFragment(pcmBytes)
//	...
//	_ = p.Stop()
package streamplay
