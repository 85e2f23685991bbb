// ABOUTME: Audio output package for timeline-scheduled playback
// ABOUTME: Provides Device interface, Timeline mixer and malgo/oto/PortAudio backends
// Package output provides audio playback devices that render buffers at
// positions on their own timeline.
//
// Every backend shares a Timeline: a frame-counting clock plus a set of
// scheduled voices that the audio callback mixes into the hardware buffer.
// CurrentTime only advances while the backend is rendering, so suspending a
// device halts its clock.
//
// Backends: malgo (miniaudio, default), oto, PortAudio (build with
// -tags portaudio). Virtual is a deterministic device for tests whose clock
// moves only when Advance is called.
//
// Example:
//
//	out, err := output.New(output.BackendMalgo, logger)
//	err = out.Open(48000, 2)
//	buf := out.NewBuffer(2, 4800, 48000)
//	err = out.Schedule(buf, out.CurrentTime(), func() { log.Println("done") })
package output
