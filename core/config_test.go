package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFileTOML(t *testing.T) {
	path := writeConfig(t, "vibecore.toml", "growth_factor = 3\nsmall_map_capacity = 4\n")
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GrowthFactor != 3 || cfg.SmallMapCapacity != 4 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.MinArrayCapacity != defaultMinArrayCapacity || cfg.SmallSortThreshold != defaultSmallSortThreshold {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	path := writeConfig(t, "vibecore.yaml", "min_array_capacity: 16\nsmall_sort_threshold: 8\n")
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MinArrayCapacity != 16 || cfg.SmallSortThreshold != 8 || cfg.GrowthFactor != defaultGrowthFactor {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigFileRejectsBadInput(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"unknown.yaml", "growth: 2\n", "parse"},
		{"range.toml", "small_map_capacity = 100\n", "small_map_capacity"},
		{"factor.yml", "growth_factor: 1\n", "growth_factor"},
		{"config.json", "{}", "unsupported config format"},
	}
	for _, tc := range cases {
		_, err := LoadConfigFile(writeConfig(t, tc.name, tc.body))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestConfigDrivesContainers(t *testing.T) {
	cfg := Config{SmallMapCapacity: 2, MinArrayCapacity: 10}.withDefaults()
	k := NewKernel(&cfg)
	m := k.NewMap()
	for i := 0; i < 3; i++ {
		mustSet(t, k, m, NewInt(int64(i)), NewNil())
	}
	if m.Kind() != StorageTable {
		t.Fatalf("small capacity 2 should promote on the third key, got %s", m.Kind())
	}
	arr := k.NewArray()
	arr.Push(NewInt(1))
	if arr.Capacity() != 10 {
		t.Fatalf("capacity %d, want min capacity 10", arr.Capacity())
	}
}

func TestPartialConfigIsDefaulted(t *testing.T) {
	k := NewKernel(nil)
	m := NewMap(&Config{})
	mustSet(t, k, m, NewInt(1), NewInt(2))
	if v := mustGet(t, k, m, NewInt(1)); v.Int() != 2 {
		t.Fatalf("h[1] = %s", v.Inspect())
	}

	partial := &Config{SmallMapCapacity: 2}
	small := NewMap(partial)
	for i := 0; i < 3; i++ {
		mustSet(t, k, small, NewInt(int64(i)), NewNil())
	}
	if small.Kind() != StorageTable {
		t.Fatalf("small capacity 2 should promote on the third key, got %s", small.Kind())
	}

	arr := NewArray(partial)
	for i := 0; i < 1000; i++ {
		arr.Push(NewInt(int64(i)))
	}
	if arr.Reallocations() > 12 {
		t.Fatalf("growth factor not defaulted: %d reallocations for 1000 pushes", arr.Reallocations())
	}

	b := NewArrayBuilder(&Config{}, 0)
	b.Append(NewInt(1))
	if got := b.Finish(); got.Len() != 1 || got.Kind() != StorageInt32 {
		t.Fatalf("builder from empty config produced %s", NewArrayValue(got).Inspect())
	}
	if *partial != (Config{SmallMapCapacity: 2}) {
		t.Fatalf("caller config was modified: %+v", *partial)
	}
}
