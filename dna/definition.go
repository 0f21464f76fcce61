package dna

import (
	"slices"

	"github.com/hupe1980/terse/archive"
)

// Definition holds the names and static data of a rig: what exists on each
// LOD, the joint hierarchy and the neutral joint transforms.
type Definition struct {
	section archive.DeferredOffset

	LODJointMapping       LODMapping
	LODBlendShapeMapping  LODMapping
	LODAnimatedMapMapping LODMapping
	LODMeshMapping        LODMapping

	GUIControlNames        []string
	RawControlNames        []string
	JointNames             []string
	BlendShapeChannelNames []string
	AnimatedMapNames       []string
	MeshNames              []string

	// MeshBlendShapeChannelMapping pairs mesh indices (From) with blend
	// shape channel indices (To).
	MeshBlendShapeChannelMapping SurjectiveMapping

	// JointHierarchy holds the parent of every joint. Root joints are their
	// own parent.
	JointHierarchy []uint16

	// NeutralJointTranslations and NeutralJointRotations are local to the
	// parent joint. Rotations are Euler angles in degrees.
	NeutralJointTranslations Vector3Vector
	NeutralJointRotations    Vector3Vector
}

// Serialize implements archive.Serializer.
func (d *Definition) Serialize(ar archive.Archive) {
	ar.Process(d.section.Proxy())
	ar.Label("lodJointMapping")
	ar.Process(&d.LODJointMapping)
	ar.Label("lodBlendShapeMapping")
	ar.Process(&d.LODBlendShapeMapping)
	ar.Label("lodAnimatedMapMapping")
	ar.Process(&d.LODAnimatedMapMapping)
	ar.Label("lodMeshMapping")
	ar.Process(&d.LODMeshMapping)
	ar.Label("guiControlNames")
	ar.Process(&d.GUIControlNames)
	ar.Label("rawControlNames")
	ar.Process(&d.RawControlNames)
	ar.Label("jointNames")
	ar.Process(&d.JointNames)
	ar.Label("blendShapeChannelNames")
	ar.Process(&d.BlendShapeChannelNames)
	ar.Label("animatedMapNames")
	ar.Process(&d.AnimatedMapNames)
	ar.Label("meshNames")
	ar.Process(&d.MeshNames)
	ar.Label("meshBlendShapeChannelMapping")
	ar.Process(&d.MeshBlendShapeChannelMapping)
	ar.Label("jointHierarchy")
	ar.Process(&d.JointHierarchy)
	ar.Label("neutralJointTranslations")
	ar.Process(&d.NeutralJointTranslations)
	ar.Label("neutralJointRotations")
	ar.Process(&d.NeutralJointRotations)
}

// JointParent returns the parent index of joint i.
func (d *Definition) JointParent(i int) int { return int(d.JointHierarchy[i]) }

// IsRootJoint reports whether joint i is its own parent.
func (d *Definition) IsRootJoint(i int) bool { return d.JointParent(i) == i }

// BlendShapeChannelsOfMesh returns the channel indices mapped to mesh.
func (d *Definition) BlendShapeChannelsOfMesh(mesh int) []uint16 {
	var out []uint16
	m := &d.MeshBlendShapeChannelMapping
	for i := range m.From {
		if int(m.From[i]) == mesh {
			out = append(out, m.To[i])
		}
	}
	return out
}

func (d *Definition) clone() Definition {
	return Definition{
		section:                      d.section,
		LODJointMapping:              d.LODJointMapping.Clone(),
		LODBlendShapeMapping:         d.LODBlendShapeMapping.Clone(),
		LODAnimatedMapMapping:        d.LODAnimatedMapMapping.Clone(),
		LODMeshMapping:               d.LODMeshMapping.Clone(),
		GUIControlNames:              slices.Clone(d.GUIControlNames),
		RawControlNames:              slices.Clone(d.RawControlNames),
		JointNames:                   slices.Clone(d.JointNames),
		BlendShapeChannelNames:       slices.Clone(d.BlendShapeChannelNames),
		AnimatedMapNames:             slices.Clone(d.AnimatedMapNames),
		MeshNames:                    slices.Clone(d.MeshNames),
		MeshBlendShapeChannelMapping: d.MeshBlendShapeChannelMapping.Clone(),
		JointHierarchy:               slices.Clone(d.JointHierarchy),
		NeutralJointTranslations:     d.NeutralJointTranslations.Clone(),
		NeutralJointRotations:        d.NeutralJointRotations.Clone(),
	}
}
