// ABOUTME: Caller-supplied key/value params
// ABOUTME: Shallow-merged on set and snapshotted per scheduled unit
package streamplay

// Params is opaque caller data attached to playback units
type Params map[string]string

// Clone returns an independent copy. Clone of nil is an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p overlaid with other
func (p Params) Merge(other Params) Params {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}
