package flora

import "github.com/Software-Cat/MLHummingbirds/geom"

// FlowerDescriptor places one flower in its plant's local frame.
type FlowerDescriptor struct {
	Offset geom.Vec3 // Nectar surface center relative to the stem base
	Up     geom.Vec3 // Outward nectar surface normal (unit, local frame)
}

// PlantDescriptor is the static recipe for one flower-bearing plant.
// Descriptors are plain data so layouts can come from the generator or,
// eventually, from a YAML scene file.
type PlantDescriptor struct {
	X, Z       float32 // Stem base on the ground plane; height comes from the terrain
	StemHeight float32
	StemRadius float32
	Flowers    []FlowerDescriptor
}

// FlowerCount sums the flowers over a descriptor list.
func FlowerCount(descs []PlantDescriptor) int {
	n := 0
	for i := range descs {
		n += len(descs[i].Flowers)
	}
	return n
}
