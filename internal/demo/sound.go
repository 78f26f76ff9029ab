package demo

import (
	"errors"

	"github.com/rawbytedev/visitree"
	"github.com/rawbytedev/visitree/pkg/geom"
)

//go:generate go tool stringer -type=Status -trimprefix=Status -output=status_string.go

type Status uint8

const (
	StatusPlaying Status = iota
	StatusStopped
	StatusPaused
)

const MaxChannels = 2

// SoundBuffer is decoded sample data, usually shared by several sources.
type SoundBuffer struct {
	Path       string
	SampleRate uint32
	Channels   uint8
	Streaming  bool
	Samples    []float32
}

func (b *SoundBuffer) Visit(v *visitree.Visitor) error {
	return errors.Join(
		v.Path("Path", &b.Path),
		v.Uint32("SampleRate", &b.SampleRate),
		v.Uint8("Channels", &b.Channels),
		v.Bool("Streaming", &b.Streaming),
		visitree.PrimitiveArray(v, "Samples", &b.Samples),
	)
}

// Duration is the buffer length in seconds.
func (b *SoundBuffer) Duration() float64 {
	if b.SampleRate == 0 || b.Channels == 0 {
		return 0
	}
	return float64(len(b.Samples)/int(b.Channels)) / float64(b.SampleRate)
}

// SoundSource plays one buffer. Sources are chained into their context's
// list through next and prev.
type SoundSource struct {
	Buffer           *SoundBuffer
	Status           Status
	PlaybackPosition float64
	SampleRate       float64
	Pan              float32
	Pitch            float32
	Gain             float32
	ChannelGain      [MaxChannels]float32
	Position         geom.Vec3

	next, prev *SoundSource
}

func NewSoundSource(buf *SoundBuffer) *SoundSource {
	s := &SoundSource{
		Status: StatusStopped,
		Pitch:  1,
		Gain:   1,
	}
	for i := range s.ChannelGain {
		s.ChannelGain[i] = 1
	}
	s.SetBuffer(buf)
	return s
}

func (s *SoundSource) SetBuffer(buf *SoundBuffer) {
	s.Buffer = buf
	s.PlaybackPosition = 0
	s.SampleRate = 0
	if buf != nil {
		s.SampleRate = float64(buf.SampleRate)
	}
}

func (s *SoundSource) Play()  { s.Status = StatusPlaying }
func (s *SoundSource) Pause() { s.Status = StatusPaused }

func (s *SoundSource) Stop() {
	s.Status = StatusStopped
	s.PlaybackPosition = 0
}

// CanProduceSamples reports whether Advance would move the playback position.
func (s *SoundSource) CanProduceSamples() bool {
	return s.Status == StatusPlaying && s.Buffer != nil && len(s.Buffer.Samples) > 0
}

// Advance moves playback forward by dt seconds and stops at the end of a
// non-streaming buffer.
func (s *SoundSource) Advance(dt float64) {
	if !s.CanProduceSamples() {
		return
	}
	s.PlaybackPosition += dt * s.SampleRate * float64(s.Pitch)
	frames := float64(len(s.Buffer.Samples) / max(int(s.Buffer.Channels), 1))
	if s.PlaybackPosition >= frames {
		if s.Buffer.Streaming {
			s.PlaybackPosition -= frames
			return
		}
		s.Stop()
	}
}

func (s *SoundSource) Next() *SoundSource { return s.next }
func (s *SoundSource) Prev() *SoundSource { return s.prev }

// Visit leaves next and prev to the owning list.
func (s *SoundSource) Visit(v *visitree.Visitor) error {
	gains := s.ChannelGain[:]
	errs := errors.Join(
		visitree.Pointer(v, "Buffer", &s.Buffer),
		visitree.Enum(v, "Status", &s.Status),
		v.Float64("PlaybackPosition", &s.PlaybackPosition),
		v.Float64("SampleRate", &s.SampleRate),
		v.Float32("Pan", &s.Pan),
		v.Float32("Pitch", &s.Pitch),
		v.Float32("Gain", &s.Gain),
		visitree.PrimitiveArray(v, "ChannelGain", &gains),
		v.Vec3("Position", &s.Position),
	)
	if v.IsReading() {
		clear(s.ChannelGain[:])
		copy(s.ChannelGain[:], gains)
	}
	return errs
}

var sourceLinks = visitree.Links[*SoundSource]{
	Next:    func(s *SoundSource) *SoundSource { return s.next },
	SetNext: func(s, n *SoundSource) { s.next = n },
	Prev:    func(s *SoundSource) *SoundSource { return s.prev },
	SetPrev: func(s, p *SoundSource) { s.prev = p },
}

// SoundContext owns the buffers and the list of live sources.
type SoundContext struct {
	MasterGain float32
	Buffers    []*SoundBuffer

	head, tail *SoundSource
	count      int
}

func NewSoundContext() *SoundContext {
	return &SoundContext{MasterGain: 1}
}

func (c *SoundContext) AddBuffer(b *SoundBuffer) {
	c.Buffers = append(c.Buffers, b)
}

// AddSource appends s to the source list.
func (c *SoundContext) AddSource(s *SoundSource) {
	s.prev, s.next = c.tail, nil
	if c.tail != nil {
		c.tail.next = s
	} else {
		c.head = s
	}
	c.tail = s
	c.count++
}

// RemoveSource unlinks s, which must belong to c.
func (c *SoundContext) RemoveSource(s *SoundSource) {
	if s.prev != nil {
		s.prev.next = s.next
	} else {
		c.head = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	} else {
		c.tail = s.prev
	}
	s.next, s.prev = nil, nil
	c.count--
}

func (c *SoundContext) Head() *SoundSource { return c.head }
func (c *SoundContext) Tail() *SoundSource { return c.tail }
func (c *SoundContext) Len() int           { return c.count }

// Sources returns the live sources in list order.
func (c *SoundContext) Sources() []*SoundSource {
	out := make([]*SoundSource, 0, c.count)
	for s := c.head; s != nil; s = s.next {
		out = append(out, s)
	}
	return out
}

// Update advances every playing source by dt seconds.
func (c *SoundContext) Update(dt float64) {
	for s := c.head; s != nil; s = s.next {
		s.Advance(dt)
	}
}

func (c *SoundContext) Visit(v *visitree.Visitor) error {
	err := errors.Join(
		v.Float32("MasterGain", &c.MasterGain),
		visitree.PointerArray(v, "Buffers", &c.Buffers),
		visitree.LinkedList(v, "Sources", &c.head, &c.tail, sourceLinks),
	)
	if v.IsReading() {
		c.count = 0
		for s := c.head; s != nil; s = s.next {
			c.count++
		}
	}
	return err
}
