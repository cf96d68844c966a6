package texture

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Allowed square texture sizes, one bucket each.
var BucketSizes = []int{16, 32, 64, 128, 256, 512, 1024, 2048}

var (
	// ErrInvalidTextureSize is returned for non-square images or sizes without a bucket.
	ErrInvalidTextureSize = errors.New("invalid texture size")
	// ErrInvalidPixelData is returned when the pixel buffer does not hold width*height RGBA pixels.
	ErrInvalidPixelData = errors.New("invalid pixel data")
	// ErrUnknownTextureID is returned when resolving an id that was never loaded.
	ErrUnknownTextureID = errors.New("unknown texture id")
	// ErrAtlasNotPrepared is returned when resolving while loads are pending a rebuild.
	ErrAtlasNotPrepared = errors.New("texture atlas not prepared since last load")
)

// ID identifies a loaded texture. IDs are assigned sequentially from 0 in load order.
type ID uint32

// Location is where a texture lives on the GPU: a bucket's texture array and a layer in it.
type Location struct {
	Bucket int
	Layer  int
}

// ArrayHandle is a backend texture array object.
type ArrayHandle uint32

// ArrayBackend creates immutable texture arrays on the GPU.
type ArrayBackend interface {
	// CreateArray uploads one RGBA layer of size*size pixels per entry.
	CreateArray(size int, layers [][]byte) (ArrayHandle, error)
	DeleteArray(h ArrayHandle)
}

// State is the rebuild state of the atlas.
type State int

const (
	// Dirty means images were loaded after the arrays were last built (or they were never built).
	Dirty State = iota
	// Clean means every bucket's array holds every loaded image.
	Clean
)

func (s State) String() string {
	if s == Clean {
		return "clean"
	}
	return "dirty"
}

type bucket struct {
	size   int
	images [][]byte
	array  ArrayHandle
}

// Stats summarizes the atlas contents.
type Stats struct {
	Textures     int
	PerBucket    map[int]int // bucket size -> texture count
	Rebuilds     int
	State        State
	PreparedOnce bool
}

// Manager owns raw texture images, grouped in power-of-two buckets, and the
// texture arrays built from them. It must only be used from the goroutine
// that owns the GPU context.
type Manager struct {
	backend   ArrayBackend
	log       *zap.Logger
	buckets   []bucket
	locations []Location
	state     State
	prepared  bool
	rebuilds  int
}

// NewManager creates an empty atlas. It starts Dirty: the arrays are built on
// the first PrepareForFrame.
func NewManager(backend ArrayBackend, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	buckets := make([]bucket, len(BucketSizes))
	for i, size := range BucketSizes {
		buckets[i].size = size
	}
	return &Manager{
		backend: backend,
		log:     log,
		buckets: buckets,
		state:   Dirty,
	}
}

// BucketFor returns the bucket index for a texture of the given dimensions.
func BucketFor(width, height int) (int, error) {
	if width != height {
		return 0, fmt.Errorf("%w: %dx%d is not square", ErrInvalidTextureSize, width, height)
	}
	for i, size := range BucketSizes {
		if size == width {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %dx%d has no bucket", ErrInvalidTextureSize, width, height)
}

// Load adds an RGBA image and returns its id. The manager keeps pixels, the
// caller must not modify them afterwards. Existing locations are unaffected;
// the texture becomes resolvable after the next PrepareForFrame.
func (m *Manager) Load(pixels []byte, width, height int) (ID, error) {
	b, err := BucketFor(width, height)
	if err != nil {
		return 0, err
	}
	if len(pixels) != width*height*4 {
		return 0, fmt.Errorf("%w: got %d bytes for %dx%d RGBA", ErrInvalidPixelData, len(pixels), width, height)
	}

	bk := &m.buckets[b]
	id := ID(len(m.locations))
	m.locations = append(m.locations, Location{Bucket: b, Layer: len(bk.images)})
	bk.images = append(bk.images, pixels)
	m.state = Dirty

	m.log.Debug("texture loaded",
		zap.Uint32("id", uint32(id)),
		zap.Int("bucket_size", bk.size),
		zap.Int("layer", len(bk.images)-1),
	)
	return id, nil
}

// State returns the rebuild state.
func (m *Manager) State() State {
	return m.state
}

// PrepareForFrame rebuilds every bucket's texture array if anything was
// loaded since the last call. Empty buckets get a 1x1 placeholder so every
// sampler stays bindable. On error the previous arrays are kept and the atlas
// stays Dirty.
func (m *Manager) PrepareForFrame() error {
	if m.state == Clean {
		return nil
	}

	arrays := make([]ArrayHandle, len(m.buckets))
	for i := range m.buckets {
		bk := &m.buckets[i]

		size, layers := bk.size, bk.images
		if len(layers) == 0 {
			size, layers = 1, [][]byte{placeholder}
		}

		h, err := m.backend.CreateArray(size, layers)
		if err != nil {
			for _, created := range arrays[:i] {
				m.backend.DeleteArray(created)
			}
			return fmt.Errorf("building %dpx texture array: %w", bk.size, err)
		}
		arrays[i] = h
	}

	if m.prepared {
		for i := range m.buckets {
			m.backend.DeleteArray(m.buckets[i].array)
		}
	}
	for i := range m.buckets {
		m.buckets[i].array = arrays[i]
	}

	m.state = Clean
	m.prepared = true
	m.rebuilds++

	m.log.Info("texture atlas rebuilt", zap.Object("atlas", m.Stats()))
	return nil
}

// Resolve returns where a texture lives on the GPU.
func (m *Manager) Resolve(id ID) (Location, error) {
	if int(id) >= len(m.locations) {
		return Location{}, fmt.Errorf("%w: %d (loaded %d)", ErrUnknownTextureID, id, len(m.locations))
	}
	if m.state != Clean {
		return Location{}, fmt.Errorf("%w: texture %d", ErrAtlasNotPrepared, id)
	}
	return m.locations[id], nil
}

// Samplers returns the texture array of every bucket, indexed like BucketSizes.
// It panics if PrepareForFrame never succeeded.
func (m *Manager) Samplers() []ArrayHandle {
	if !m.prepared {
		panic("texture: Samplers called before PrepareForFrame")
	}
	out := make([]ArrayHandle, len(m.buckets))
	for i := range m.buckets {
		out[i] = m.buckets[i].array
	}
	return out
}

// Stats returns a snapshot of the atlas contents.
func (m *Manager) Stats() Stats {
	s := Stats{
		Textures:     len(m.locations),
		PerBucket:    make(map[int]int),
		Rebuilds:     m.rebuilds,
		State:        m.state,
		PreparedOnce: m.prepared,
	}
	for _, bk := range m.buckets {
		if len(bk.images) > 0 {
			s.PerBucket[bk.size] = len(bk.images)
		}
	}
	return s
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("textures", s.Textures)
	enc.AddInt("rebuilds", s.Rebuilds)
	enc.AddString("state", s.State.String())
	return enc.AddObject("buckets", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		for _, size := range BucketSizes {
			if n := s.PerBucket[size]; n > 0 {
				enc.AddInt(strconv.Itoa(size), n)
			}
		}
		return nil
	}))
}

// Close releases all texture arrays.
func (m *Manager) Close() {
	if !m.prepared {
		return
	}
	for i := range m.buckets {
		m.backend.DeleteArray(m.buckets[i].array)
		m.buckets[i].array = 0
	}
	m.prepared = false
	m.state = Dirty
}

// Transparent black, used for the layer of an empty bucket.
var placeholder = []byte{0, 0, 0, 0}
