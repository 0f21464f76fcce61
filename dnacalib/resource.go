package dnacalib

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/dna"
)

// Resource names a kind of rig element.
type Resource uint8

const (
	// Joint is a skeleton joint.
	Joint Resource = iota
	// BlendShape is a blend shape channel.
	BlendShape
	// Mesh is a mesh.
	Mesh
	// AnimatedMap is an animated map.
	AnimatedMap
)

func (r Resource) String() string {
	switch r {
	case Joint:
		return "joint"
	case BlendShape:
		return "blend shape"
	case Mesh:
		return "mesh"
	case AnimatedMap:
		return "animated map"
	default:
		return "unknown"
	}
}

// ParseResource parses a resource name such as "joint" or "blendShape".
func ParseResource(s string) (Resource, error) {
	switch strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)) {
	case "joint", "joints":
		return Joint, nil
	case "blendshape", "blendshapes", "blendshapechannel":
		return BlendShape, nil
	case "mesh", "meshes":
		return Mesh, nil
	case "animatedmap", "animatedmaps":
		return AnimatedMap, nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown resource %q", s)
}

// names returns the name list of r.
func names(d *dna.DNA, r Resource) *[]string {
	def := &d.Definition
	switch r {
	case Joint:
		return &def.JointNames
	case BlendShape:
		return &def.BlendShapeChannelNames
	case Mesh:
		return &def.MeshNames
	default:
		return &def.AnimatedMapNames
	}
}

// lodMapping returns the LOD mapping of r.
func lodMapping(d *dna.DNA, r Resource) *dna.LODMapping {
	def := &d.Definition
	switch r {
	case Joint:
		return &def.LODJointMapping
	case BlendShape:
		return &def.LODBlendShapeMapping
	case Mesh:
		return &def.LODMeshMapping
	default:
		return &def.LODAnimatedMapMapping
	}
}

// lookup resolves a name to an index.
func lookup(d *dna.DNA, r Resource, name string) (int, error) {
	for i, n := range *names(d, r) {
		if n == name {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrNotFound, "%s %q", r, name)
}
