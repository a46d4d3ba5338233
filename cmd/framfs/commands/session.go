// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bureau-foundation/framfs/cmd/framfs/cli"
	"github.com/bureau-foundation/framfs/lib/config"
	"github.com/bureau-foundation/framfs/lib/device"
	"github.com/bureau-foundation/framfs/lib/framfs"
)

// deviceParams selects the device image and configuration. Embedded in
// the params of every command that opens a device.
type deviceParams struct {
	ConfigPath string `json:"config"      flag:"config"      desc:"config file (default: $FRAMFS_CONFIG)"`
	Device     string `json:"device"      flag:"device,d"    desc:"device image file (overrides device.path)"`
	DeviceSize int64  `json:"device_size" flag:"device-size" desc:"device capacity in bytes (default: the image's size, else device.size)"`
	LogLevel   string `json:"log_level"   flag:"log-level"   desc:"log level: debug, info, warn or error"`
}

// loadConfig reads --config, then $FRAMFS_CONFIG, and falls back to the
// built-in defaults when neither is set.
func (p *deviceParams) loadConfig() (*config.Config, error) {
	switch {
	case p.ConfigPath != "":
		return config.LoadFile(p.ConfigPath)
	case os.Getenv(config.EnvVar) != "":
		return config.Load()
	default:
		return config.Default(), nil
	}
}

// resolve applies command-line overrides to the loaded configuration.
// An existing image's size takes precedence over device.size; sizeHint,
// when positive, sizes an image that does not exist yet.
func (p *deviceParams) resolve(sizeHint int64) (*config.Config, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return nil, err
	}

	if p.Device != "" {
		cfg.Device.Path = p.Device
	}
	if cfg.Device.Path == "" {
		return nil, errors.New("no device image: pass --device or set device.path in the config file")
	}

	if p.DeviceSize > 0 {
		cfg.Device.Size = p.DeviceSize
	} else if info, err := os.Stat(cfg.Device.Path); err == nil && info.Size() > 0 {
		cfg.Device.Size = info.Size()
	} else if sizeHint > 0 {
		cfg.Device.Size = sizeHint
	}

	if p.LogLevel != "" {
		cfg.Log.Level = p.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// session is one opened device and the unmounted filesystem bound to it.
type session struct {
	config *config.Config
	logger *slog.Logger
	device *device.File
	fs     *framfs.Filesystem

	// created is true when opening made a new image file.
	created bool
}

// open resolves configuration and opens the device image. The image is
// created only when create is set; otherwise a missing image is an
// error.
func (p *deviceParams) open(env Env, create bool, sizeHint int64) (*session, error) {
	cfg, err := p.resolve(sizeHint)
	if err != nil {
		return nil, err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewCommandLogger(env.Stderr, level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(cfg.Device.Path)
	missing := errors.Is(statErr, fs.ErrNotExist)
	if missing && !create {
		return nil, fmt.Errorf("device image %s does not exist (run 'framfs format' first)", cfg.Device.Path)
	}

	dev, err := device.OpenFile(cfg.Device.Path, cfg.Device.Size)
	if err != nil {
		return nil, err
	}
	filesystem, err := framfs.New(dev, framfs.Options{Logger: logger})
	if err != nil {
		dev.Close()
		return nil, err
	}

	return &session{
		config:  cfg,
		logger:  logger.With("device", cfg.Device.Path),
		device:  dev,
		fs:      filesystem,
		created: missing,
	}, nil
}

// mount opens the device image and loads the filesystem on it.
func (p *deviceParams) mount(env Env) (*session, error) {
	s, err := p.open(env, false, 0)
	if err != nil {
		return nil, err
	}
	if err := s.fs.Mount(0, framfs.MountLoad); err != nil {
		s.device.Close()
		return nil, fmt.Errorf("mounting %s: %w", s.config.Device.Path, err)
	}
	return s, nil
}

// openFile mounts the device and opens the named file on it.
func (p *deviceParams) openFile(env Env, name string) (*session, *framfs.File, error) {
	s, err := p.mount(env)
	if err != nil {
		return nil, nil, err
	}
	file, err := s.fs.Open(name)
	if err != nil {
		s.device.Close()
		return nil, nil, err
	}
	return s, file, nil
}

// closeInto syncs and closes the device, storing the first failure in
// *err unless it already holds one.
func (s *session) closeInto(err *error) {
	syncErr := s.device.Sync()
	closeErr := s.device.Close()
	if *err == nil {
		*err = errors.Join(syncErr, closeErr)
	}
}

// discard closes the device and removes the image if this session
// created it.
func (s *session) discard() {
	s.device.Close()
	if s.created {
		os.Remove(s.config.Device.Path)
	}
}
