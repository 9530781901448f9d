// Package config holds the fully resolved settings the front ends pass to
// the agents.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidDepth   = errors.New("search depth must be at least 1")
	ErrUnknownProfile = errors.New("unknown evaluation profile")
	ErrUnknownKind    = errors.New("unknown agent kind")
)

// Kind selects an agent implementation.
type Kind string

const (
	KindRandom    Kind = "random"
	KindAlphaBeta Kind = "alphabeta"
)

// Profile selects the evaluation function of an alpha-beta agent.
type Profile string

const (
	ProfileMaterial         Profile = "material"
	ProfileMaterialMobility Profile = "mat_mob"
	ProfileAggressive       Profile = "aggressive"
)

// ParseProfile accepts the short and long profile names.
func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "material":
		return ProfileMaterial, nil
	case "mat_mob", "material_mobility":
		return ProfileMaterialMobility, nil
	case "aggressive":
		return ProfileAggressive, nil
	}
	return "", errors.Wrapf(ErrUnknownProfile, "%q", name)
}

// Agent configures one AI player.
type Agent struct {
	Kind     Kind    `json:"kind" yaml:"kind"`
	Depth    int     `json:"depth" yaml:"depth"`
	Profile  Profile `json:"profile" yaml:"profile"`
	Ordering bool    `json:"ordering" yaml:"ordering"`
	// Seed fixes the random agent's choices; 0 seeds from the clock.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// DefaultAgent mirrors the defaults of the command line.
func DefaultAgent() Agent {
	return Agent{
		Kind:     KindAlphaBeta,
		Depth:    3,
		Profile:  ProfileMaterialMobility,
		Ordering: true,
	}
}

// Validate reports every problem with the configuration at once.
func (a Agent) Validate() error {
	var errs error
	switch a.Kind {
	case KindRandom:
		return nil
	case KindAlphaBeta:
	default:
		return errors.Wrapf(ErrUnknownKind, "%q", a.Kind)
	}
	if a.Depth < 1 {
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalidDepth, "got %d", a.Depth))
	}
	if _, err := ParseProfile(string(a.Profile)); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}

func (a Agent) String() string {
	if a.Kind == KindRandom {
		return fmt.Sprintf("%s(seed=%d)", a.Kind, a.Seed)
	}
	ord := "N"
	if a.Ordering {
		ord = "Y"
	}
	return fmt.Sprintf("%s(d=%d,eval=%s,ord=%s)", a.Kind, a.Depth, a.Profile, ord)
}

// Game configures a session: which sides are played by humans and which
// agent plays the others.
type Game struct {
	Event      string `json:"event" yaml:"event"`
	HumanWhite bool   `json:"human_white" yaml:"human_white"`
	HumanBlack bool   `json:"human_black" yaml:"human_black"`
	White      Agent  `json:"white" yaml:"white"`
	Black      Agent  `json:"black" yaml:"black"`
	ReplayDir  string `json:"replay_dir" yaml:"replay_dir"`
	Autosave   bool   `json:"autosave" yaml:"autosave"`
}

// Default is a human playing White against the default agent.
func Default() Game {
	return Game{
		Event:      "Casual Game",
		HumanWhite: true,
		White:      DefaultAgent(),
		Black:      DefaultAgent(),
		ReplayDir:  "replays",
		Autosave:   true,
	}
}

// Validate checks the agents of every side not played by a human.
func (g Game) Validate() error {
	var errs error
	if !g.HumanWhite {
		if err := g.White.Validate(); err != nil {
			errs = multierror.Append(errs, errors.WithMessage(err, "white"))
		}
	}
	if !g.HumanBlack {
		if err := g.Black.Validate(); err != nil {
			errs = multierror.Append(errs, errors.WithMessage(err, "black"))
		}
	}
	return errs
}

// Load reads a game configuration from a .json, .yaml or .yml file on top
// of the defaults.
func Load(path string) (Game, error) {
	g := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return g, errors.Wrap(err, "reading config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &g)
	case ".json":
		err = json.Unmarshal(data, &g)
	default:
		return g, errors.Errorf("config %s: unsupported extension", path)
	}
	if err != nil {
		return g, errors.Wrapf(err, "decoding %s", path)
	}
	if g.White.Profile != "" {
		if g.White.Profile, err = ParseProfile(string(g.White.Profile)); err != nil && !g.HumanWhite {
			return g, err
		}
	}
	if g.Black.Profile != "" {
		if g.Black.Profile, err = ParseProfile(string(g.Black.Profile)); err != nil && !g.HumanBlack {
			return g, err
		}
	}
	return g, g.Validate()
}
