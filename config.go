// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultQueueCapacity is the default bound of each direction's queue.
const DefaultQueueCapacity = 64

// minQueueCapacity is the smallest bound lfq accepts.
const minQueueCapacity = 2

// ErrInvalidConfig reports a configuration value out of range.
var ErrInvalidConfig = errors.New("syncall: invalid configuration")

// Config tunes an endpoint pair. The TOML keys match the struct tags:
//
//	queue-capacity  = 64
//	max-buffer-size = 67108864
//	wait-timeout    = "30s"
//	auto-release    = true
type Config struct {
	// QueueCapacity bounds the actions in flight per direction. It must
	// be at least 2.
	QueueCapacity int `toml:"queue-capacity"`

	// MaxBufferSize is the reservation of each reply buffer, header
	// included. Replies that do not fit fail with ErrBufferOverflow.
	MaxBufferSize int `toml:"max-buffer-size"`

	// WaitTimeout bounds every blocking wait for a reply. Zero waits
	// forever; a wait that elapses fails with ErrTimeout.
	WaitTimeout time.Duration `toml:"wait-timeout"`

	// AutoRelease releases a remote reference when its handle becomes
	// unreachable. Release then happens at the garbage collector's pace.
	AutoRelease bool `toml:"auto-release"`

	// Registerer receives the exposer metrics. Nil disables registration.
	Registerer prometheus.Registerer `toml:"-"`
}

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() Config {
	return Config{
		QueueCapacity: DefaultQueueCapacity,
		MaxBufferSize: DefaultMaxBufferSize,
		AutoRelease:   true,
	}
}

// Validate reports the first value out of range.
func (c Config) Validate() error {
	switch {
	case c.QueueCapacity < minQueueCapacity:
		return fmt.Errorf("%w: queue-capacity %d", ErrInvalidConfig, c.QueueCapacity)
	case c.MaxBufferSize < headerSize:
		return fmt.Errorf("%w: max-buffer-size %d below %d", ErrInvalidConfig, c.MaxBufferSize, headerSize)
	case c.WaitTimeout < 0:
		return fmt.Errorf("%w: wait-timeout %v", ErrInvalidConfig, c.WaitTimeout)
	}
	return nil
}

// normalize replaces out-of-range values with their defaults.
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.QueueCapacity < minQueueCapacity {
		log.Warningf("queue capacity %d out of range, using %d", c.QueueCapacity, d.QueueCapacity)
		c.QueueCapacity = d.QueueCapacity
	}
	if c.MaxBufferSize < headerSize {
		log.Warningf("max buffer size %d out of range, using %d", c.MaxBufferSize, d.MaxBufferSize)
		c.MaxBufferSize = d.MaxBufferSize
	}
	if c.WaitTimeout < 0 {
		c.WaitTimeout = 0
	}
}

// ParseConfig decodes TOML data over DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads and parses a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Option adjusts a Config.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(dst *Config) { *dst = c }
}

// WithQueueCapacity sets Config.QueueCapacity.
func WithQueueCapacity(n int) Option {
	return func(c *Config) { c.QueueCapacity = n }
}

// WithMaxBufferSize sets Config.MaxBufferSize.
func WithMaxBufferSize(n int) Option {
	return func(c *Config) { c.MaxBufferSize = n }
}

// WithWaitTimeout sets Config.WaitTimeout.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Config) { c.WaitTimeout = d }
}

// WithAutoRelease sets Config.AutoRelease.
func WithAutoRelease(on bool) Option {
	return func(c *Config) { c.AutoRelease = on }
}

// WithRegisterer sets Config.Registerer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *Config) { c.Registerer = r }
}
