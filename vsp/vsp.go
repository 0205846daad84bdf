// Package vsp exchanges vehicle geometry with an external lofting tool: it writes a parametric
// description of the vehicle, optionally runs the tool on it, and reads the component
// measurements the tool produces.
package vsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fwsizing/fixedwing"
	kitlog "github.com/go-kit/log"
)

// MeasurementsFile is the CompGeom report read back from the session directory.
const MeasurementsFile = "CompGeom.csv"

var (
	// ErrClosed is returned by every method of a closed session.
	ErrClosed = errors.New("vsp: session closed")
	// ErrNoCommand is returned by Run when the session has no external command.
	ErrNoCommand = errors.New("vsp: no external command configured")
)

// Config configures a session. An empty WorkDir uses a temporary directory owned, and removed,
// by the session. Command is run by Run with Args followed by the model path.
type Config struct {
	WorkDir string
	Command string
	Args    []string
	Logger  kitlog.Logger
}

// Session is an explicit handle on the external tool. It must be closed.
type Session struct {
	cfg     Config
	dir     string
	ownsDir bool
	model   string
	closed  bool
	logger  kitlog.Logger
}

// Open prepares a session. When a command is configured it must be found in PATH.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg, dir: cfg.WorkDir, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = kitlog.NewNopLogger()
	}
	if cfg.Command != "" {
		if _, err := exec.LookPath(cfg.Command); err != nil {
			return nil, fmt.Errorf("vsp: %w", err)
		}
	}
	if s.dir == "" {
		dir, err := os.MkdirTemp("", "fixedwing-vsp-")
		if err != nil {
			return nil, fmt.Errorf("vsp: %w", err)
		}
		s.dir, s.ownsDir = dir, true
	} else if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("vsp: %w", err)
	}
	s.logger.Log("level", "info", "subsys", "vsp", "status", "open", "dir", s.dir)
	return s, nil
}

// Dir returns the session working directory.
func (s *Session) Dir() string {
	return s.dir
}

// Close releases the session. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Log("level", "info", "subsys", "vsp", "status", "closed", "dir", s.dir)
	if s.ownsDir {
		return os.RemoveAll(s.dir)
	}
	return nil
}

// Write describes the vehicle into the session directory and returns the file path.
func (s *Session) Write(v *fixedwing.Vehicle) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	data, err := json.MarshalIndent(Describe(v), "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, sanitize(v.Tag)+".vsp.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("vsp: %w", err)
	}
	s.model = path
	s.logger.Log("level", "info", "subsys", "vsp", "wrote", path)
	return path, nil
}

// Run executes the external tool on the last written model, in the session directory.
func (s *Session) Run(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if s.cfg.Command == "" {
		return ErrNoCommand
	}
	if s.model == "" {
		return errors.New("vsp: no model written")
	}
	args := append(append([]string{}, s.cfg.Args...), s.model)
	cmd := exec.CommandContext(ctx, s.cfg.Command, args...)
	cmd.Dir = s.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("vsp: running %s: %w: %s", s.cfg.Command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ReadMeasurements parses the CompGeom report found in the session directory.
func (s *Session) ReadMeasurements() (Measurements, error) {
	if s.closed {
		return nil, ErrClosed
	}
	f, err := os.Open(filepath.Join(s.dir, MeasurementsFile))
	if err != nil {
		return nil, fmt.Errorf("vsp: %w", err)
	}
	defer f.Close()
	return ReadCompGeom(f)
}

func sanitize(tag string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, tag)
}
