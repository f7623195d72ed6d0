package labelmesh

import (
	"image"
	"io"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultWidth and DefaultHeight size the canvas when neither the script nor a
// backdrop image gives one.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Script is a recorded annotation session: the canvas, an optional backdrop
// image and the list of editing events to replay.
type Script struct {
	Width  float64      `yaml:"width,omitempty"`
	Height float64      `yaml:"height,omitempty"`
	Image  string       `yaml:"image,omitempty"`
	Seed   *SeedOptions `yaml:"seeding,omitempty"`
	Ops    []Op         `yaml:"ops"`
}

// Op is one editing event. Exactly one of Insert, Paint, Reset, Seed or
// Collapse is set.
type Op struct {
	Insert   *Point   `yaml:"insert,omitempty"`
	Force    bool     `yaml:"force,omitempty"`
	Paint    *Point   `yaml:"paint,omitempty"`
	Label    Label    `yaml:"label,omitempty"`
	Override bool     `yaml:"override,omitempty"`
	Reset    *Point   `yaml:"reset,omitempty"`
	Seed     *int64   `yaml:"seed,omitempty"`
	Collapse *float64 `yaml:"collapse,omitempty"`
}

func (o Op) kind() string {
	var kinds []string
	if o.Insert != nil {
		kinds = append(kinds, "insert")
	}
	if o.Paint != nil {
		kinds = append(kinds, "paint")
	}
	if o.Reset != nil {
		kinds = append(kinds, "reset")
	}
	if o.Seed != nil {
		kinds = append(kinds, "seed")
	}
	if o.Collapse != nil {
		kinds = append(kinds, "collapse")
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Stats counts the outcome of a replay.
type Stats struct {
	Inserted  int
	Rejected  int
	Skipped   int
	Painted   int
	Reset     int
	Seeded    int
	Collapsed int
}

// ParseScript decodes and validates a YAML annotation script.
func ParseScript(r io.Reader) (*Script, error) {
	// Seeding fields left out of the script keep their defaults.
	seed := DefaultSeedOptions
	s := Script{Seed: &seed}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding script")
	}
	if s.Width < 0 || s.Height < 0 {
		return nil, errors.Errorf("invalid canvas %gx%g", s.Width, s.Height)
	}
	if err := s.Seed.validate(); err != nil {
		return nil, err
	}
	for i, op := range s.Ops {
		if op.kind() == "" {
			return nil, errors.Errorf("op %d: exactly one of insert, paint, reset, seed or collapse is required", i)
		}
		if op.Paint != nil && op.Label == Unknown && !op.Override {
			return nil, errors.Errorf("op %d: painting unknown needs override", i)
		}
	}
	return &s, nil
}

func (o *SeedOptions) validate() error {
	if o == nil {
		return nil
	}
	switch {
	case o.PointRate < 0 || o.PointRate > 1:
		return errors.Errorf("seeding: rate %g is outside [0, 1]", o.PointRate)
	case o.MaxPoints < 0:
		return errors.Errorf("seeding: max %d is negative", o.MaxPoints)
	case o.BlurRadius < 0:
		return errors.Errorf("seeding: blur %d is negative", o.BlurRadius)
	}
	return nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening script")
	}
	defer f.Close()

	s, err := ParseScript(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return s, nil
}

// Canvas returns the canvas size: the script values first, then the backdrop
// bounds, then the defaults.
func (s *Script) Canvas(backdrop image.Image) (float64, float64) {
	width, height := s.Width, s.Height
	if backdrop != nil {
		if width == 0 {
			width = float64(backdrop.Bounds().Dx())
		}
		if height == 0 {
			height = float64(backdrop.Bounds().Dy())
		}
	}
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	return width, height
}

// Apply replays the script on the mesh. Events which miss the mesh or hit an
// existing vertex are logged and skipped; any other failure stops the replay.
func (s *Script) Apply(m *Mesh, backdrop image.Image, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seedOpts := DefaultSeedOptions
	if s.Seed != nil {
		seedOpts = *s.Seed
	}

	var stats Stats
	for i, op := range s.Ops {
		log := logger.With(zap.Int("op", i), zap.String("kind", op.kind()))

		var err error
		switch op.kind() {
		case "insert":
			var ok bool
			if ok, err = m.InsertPoint(*op.Insert, op.Force); err == nil {
				if ok {
					stats.Inserted++
				} else {
					stats.Rejected++
					log.Debug("insert rejected")
				}
			}
		case "paint":
			var n int
			if n, err = m.Paint(*op.Paint, op.Label, op.Override); err == nil {
				stats.Painted += n
			}
		case "reset":
			var n int
			if n, err = m.ResetComponent(*op.Reset); err == nil {
				stats.Reset += n
			}
		case "seed":
			if backdrop == nil {
				return stats, errors.Errorf("op %d: seeding needs a backdrop image", i)
			}
			stats.Seeded += m.Seed(backdrop, seedOpts, rand.New(rand.NewSource(*op.Seed)))
		case "collapse":
			stats.Collapsed += m.CollapseDegenerate(*op.Collapse)
		}

		switch {
		case err == nil:
		case errors.Is(err, ErrNoContainingTriangle), errors.Is(err, ErrDuplicatePoint):
			stats.Skipped++
			log.Warn("event skipped", zap.Error(err))
		default:
			return stats, errors.Wrapf(err, "op %d", i)
		}
	}
	return stats, nil
}
