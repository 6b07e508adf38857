// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"code.hybscloud.com/syncall"
)

func TestParseConfig(t *testing.T) {
	c, err := syncall.ParseConfig([]byte(`
queue-capacity  = 16
max-buffer-size = 1048576
wait-timeout    = "250ms"
auto-release    = false
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	want := syncall.Config{
		QueueCapacity: 16,
		MaxBufferSize: 1 << 20,
		WaitTimeout:   250 * time.Millisecond,
		AutoRelease:   false,
	}
	if c != want {
		t.Fatalf("config = %+v, want %+v", c, want)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	c, err := syncall.ParseConfig([]byte(`wait-timeout = "1s"`))
	if err != nil {
		t.Fatal(err)
	}
	d := syncall.DefaultConfig()
	if c.QueueCapacity != d.QueueCapacity || c.MaxBufferSize != d.MaxBufferSize || !c.AutoRelease {
		t.Fatalf("unset keys not defaulted: %+v", c)
	}
	if c.WaitTimeout != time.Second {
		t.Fatalf("wait-timeout = %v, want 1s", c.WaitTimeout)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	for _, data := range []string{
		`queue-capacity = 0`,
		`queue-capacity = 1`,
		`max-buffer-size = 4`,
		`wait-timeout = "-1s"`,
	} {
		if _, err := syncall.ParseConfig([]byte(data)); !errors.Is(err, syncall.ErrInvalidConfig) {
			t.Fatalf("ParseConfig(%s) = %v, want ErrInvalidConfig", data, err)
		}
	}
	if _, err := syncall.ParseConfig([]byte(`queue-capacity = "many"`)); err == nil {
		t.Fatal("type mismatch accepted")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syncall.toml")
	if err := os.WriteFile(path, []byte("queue-capacity = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := syncall.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.QueueCapacity != 8 {
		t.Fatalf("queue-capacity = %d, want 8", c.QueueCapacity)
	}
	if _, err := syncall.LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadConfig(missing) = %v, want ErrNotExist", err)
	}
}

func TestOptions(t *testing.T) {
	base := syncall.DefaultConfig()
	base.QueueCapacity = 2
	a, _ := syncall.New(
		syncall.WithConfig(base),
		syncall.WithMaxBufferSize(4096),
		syncall.WithWaitTimeout(time.Second),
		syncall.WithAutoRelease(false),
	)
	defer a.Close()
	c := a.Config()
	if c.QueueCapacity != 2 || c.MaxBufferSize != 4096 || c.WaitTimeout != time.Second || c.AutoRelease {
		t.Fatalf("config = %+v", c)
	}

	// Out-of-range options fall back to defaults.
	b, _ := syncall.New(syncall.WithQueueCapacity(-1), syncall.WithMaxBufferSize(1))
	defer b.Close()
	d := syncall.DefaultConfig()
	if got := b.Config(); got.QueueCapacity != d.QueueCapacity || got.MaxBufferSize != d.MaxBufferSize {
		t.Fatalf("config = %+v, want defaults", got)
	}

	// A single-slot queue is below what the transport supports.
	c1, _ := syncall.New(syncall.WithQueueCapacity(1))
	defer c1.Close()
	if got := c1.Config().QueueCapacity; got != d.QueueCapacity {
		t.Fatalf("queue capacity = %d, want %d", got, d.QueueCapacity)
	}
}
