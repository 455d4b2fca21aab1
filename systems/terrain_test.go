package systems

import (
	"testing"

	"github.com/Software-Cat/MLHummingbirds/config"
)

func TestTerrainHeightsWithinBounds(t *testing.T) {
	cfg := config.MustLoad("")
	terr := NewTerrain(cfg, 42)

	for x := float32(-9); x <= 9; x += 1.5 {
		for z := float32(-9); z <= 9; z += 1.5 {
			h := terr.HeightAt(x, z)
			if h < 0 || h > terr.MaxHeight() {
				t.Fatalf("HeightAt(%v, %v) = %v, want within [0, %v]", x, z, h, terr.MaxHeight())
			}
		}
	}
}

func TestTerrainDeterministicPerSeed(t *testing.T) {
	cfg := config.MustLoad("")
	a := NewTerrain(cfg, 7)
	b := NewTerrain(cfg, 7)
	c := NewTerrain(cfg, 8)

	same := true
	differ := false
	for x := float32(-5); x <= 5; x += 2.5 {
		if a.HeightAt(x, 1) != b.HeightAt(x, 1) {
			same = false
		}
		if a.HeightAt(x, 1) != c.HeightAt(x, 1) {
			differ = true
		}
	}
	if !same {
		t.Error("same seed produced different terrain")
	}
	if !differ {
		t.Error("different seeds produced identical terrain")
	}
}

func TestTerrainFlattensAtRim(t *testing.T) {
	cfg := config.MustLoad("")
	terr := NewTerrain(cfg, 42)

	rim := cfg.Derived.AreaRadius32
	if h := terr.HeightAt(rim, 0); h != 0 {
		t.Errorf("height at rim = %v, want 0", h)
	}
	if h := terr.HeightAt(0, -rim); h != 0 {
		t.Errorf("height at rim = %v, want 0", h)
	}
}

func TestTerrainConfigSeedOverridesSession(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Terrain.Seed = 99

	a := NewTerrain(cfg, 1)
	b := NewTerrain(cfg, 2)

	for x := float32(-5); x <= 5; x += 2.5 {
		if a.HeightAt(x, 3) != b.HeightAt(x, 3) {
			t.Fatal("explicit terrain seed should ignore the session seed")
		}
	}
}
