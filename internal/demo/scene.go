package demo

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/visitree"
	"github.com/rawbytedev/visitree/pkg/geom"
)

type Camera struct {
	Position   geom.Vec3
	Rotation   geom.Quat
	Viewport   geom.Vec4
	FOV        float32
	Projection geom.Mat4
}

func (c *Camera) Visit(v *visitree.Visitor) error {
	return errors.Join(
		v.Vec3("Position", &c.Position),
		v.Quat("Rotation", &c.Rotation),
		v.Vec4("Viewport", &c.Viewport),
		v.Float32("FOV", &c.FOV),
		v.Mat4("Projection", &c.Projection),
	)
}

// Mesh is stored by value inside its scene. Its texture is shared.
type Mesh struct {
	Name    string
	Layer   int8
	LOD     uint8
	Bias    int16
	Flags   uint16
	Normal  geom.Mat3
	Indices []uint16
	Texture *Texture
}

func (m *Mesh) Visit(v *visitree.Visitor) error {
	return errors.Join(
		v.String("Name", &m.Name),
		v.Int8("Layer", &m.Layer),
		v.Uint8("LOD", &m.LOD),
		v.Int16("Bias", &m.Bias),
		v.Uint16("Flags", &m.Flags),
		v.Mat3("Normal", &m.Normal),
		visitree.PrimitiveArray(v, "Indices", &m.Indices),
		visitree.Pointer(v, "Texture", &m.Texture),
	)
}

type Scene struct {
	Name   string
	Seed   int64
	Frame  uint64
	Camera Camera
	Meshes []Mesh
	UI     *Panel
	Sound  *SoundContext
}

func (s *Scene) Visit(v *visitree.Visitor) error {
	return errors.Join(
		v.String("Name", &s.Name),
		v.Int64("Seed", &s.Seed),
		v.Uint64("Frame", &s.Frame),
		v.Object("Camera", &s.Camera),
		visitree.Array(v, "Meshes", &s.Meshes),
		visitree.Pointer(v, "UI", &s.UI),
		visitree.Pointer(v, "Sound", &s.Sound),
	)
}

// Save writes s to path as the root object of a new document.
func (s *Scene) Save(path string, opts ...visitree.Option) error {
	v := visitree.NewWriter(opts...)
	if err := s.Visit(v); err != nil {
		return fmt.Errorf("visit scene: %w", err)
	}
	return v.Save(path)
}

// LoadScene reads a scene written by Save. Any field that fails to load is
// reported, with the rest of the scene still filled in.
func LoadScene(path string, opts ...visitree.Option) (*Scene, error) {
	v, err := visitree.Load(path, opts...)
	if err != nil {
		return nil, err
	}
	s := new(Scene)
	if err := s.Visit(v); err != nil {
		return s, fmt.Errorf("visit scene: %w", err)
	}
	return s, nil
}

// SampleScene builds a scene that uses every field kind and shares objects:
// two meshes use one texture, two sources play one buffer, and the panel
// tree links parents and children both ways.
func SampleScene() *Scene {
	brick := NewTexture("brick.png", 2, 2)
	brick.AddRef()
	brick.AddRef()
	for i := range brick.Pixels {
		brick.Pixels[i] = byte(i * 7)
	}

	step := &SoundBuffer{
		Path:       "sounds/step.wav",
		SampleRate: 44100,
		Channels:   2,
		Samples:    []float32{0, 0.25, 0.5, 0.25, 0, -0.25, -0.5, -0.25},
	}
	sound := NewSoundContext()
	sound.AddBuffer(step)
	left := NewSoundSource(step)
	left.Pan = -1
	left.Position = geom.Vec3{X: -2, Y: 0, Z: 1}
	left.Play()
	right := NewSoundSource(step)
	right.Pan = 1
	right.Gain = 0.5
	right.ChannelGain = [MaxChannels]float32{0.25, 1}
	right.Position = geom.Vec3{X: 2, Y: 0, Z: 1}
	right.Pause()
	sound.AddSource(left)
	sound.AddSource(right)

	root := &Panel{
		Name:       "window",
		Bounds:     geom.Rect{W: 640, H: 480},
		Background: geom.Color{R: 32, G: 32, B: 32, A: 255},
		Image:      brick,
	}
	root.Presenter.EnableVerticalScroll(true)
	root.Presenter.SetVScroll(12.5)
	root.AddChild(&Panel{Name: "list", Bounds: geom.Rect{X: 8, Y: 8, W: 200, H: 400}})
	root.AddChild(&Panel{Name: "preview", Bounds: geom.Rect{X: 216, Y: 8, W: 416, H: 400}})

	return &Scene{
		Name:  "level-01",
		Seed:  -42,
		Frame: 1 << 40,
		Camera: Camera{
			Position:   geom.Vec3{Y: 1.8, Z: -5},
			Rotation:   geom.IdentityQuat(),
			Viewport:   geom.Vec4{Z: 640, W: 480},
			FOV:        75,
			Projection: geom.IdentityMat4(),
		},
		Meshes: []Mesh{
			{Name: "floor", Layer: -1, LOD: 0, Bias: -3, Flags: 0x0101, Normal: geom.IdentityMat3(), Indices: []uint16{0, 1, 2, 2, 3, 0}, Texture: brick},
			{Name: "wall", Layer: 2, LOD: 1, Bias: 4, Flags: 0x8000, Normal: geom.IdentityMat3(), Indices: []uint16{0, 2, 1}, Texture: brick},
		},
		UI:    root,
		Sound: sound,
	}
}
