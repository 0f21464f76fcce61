package dna

import (
	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/archive"
)

// Layout version written by this package.
const (
	Generation uint16 = 2
	Revision   uint16 = 1
)

// DNA is a complete rig document. Create documents with New or one of the
// readers; the zero value is not usable.
type DNA struct {
	markers   *archive.Markers
	signature Signature
	version   Version
	sections  sections

	Descriptor Descriptor
	Definition Definition
	Behavior   Behavior
	Geometry   Geometry

	eof Signature
	err error
}

// New returns an empty document.
func New() *DNA {
	m := archive.NewMarkers()
	s := newSections(m)
	return &DNA{
		markers:    m,
		signature:  newSignature("DNA"),
		version:    newVersion(Generation, Revision),
		sections:   s,
		Descriptor: Descriptor{section: s.descriptor},
		Definition: Definition{section: s.definition},
		Behavior:   newBehavior(m, s.behavior),
		Geometry:   Geometry{section: s.geometry},
		eof:        newSignature("AND"),
	}
}

// Load reads the document. Loading stops after the header when the
// signature or version do not match.
func (d *DNA) Load(ar archive.Archive) {
	d.markers.Reset()
	d.err = nil

	ar.Label("signature")
	ar.Process(&d.signature)
	ar.Label("version")
	ar.Process(&d.version)
	if !ar.IsOk() {
		return
	}
	if !d.signature.Matches() {
		d.err = errors.Wrapf(ErrSignatureMismatch, "got %q", d.signature.String())
		return
	}
	if !d.version.Matches() {
		d.err = errors.Wrapf(ErrVersionMismatch, "got %d.%d",
			d.version.Generation.Got, d.version.Version.Got)
		return
	}

	ar.Label("sections")
	ar.Process(&d.sections)
	ar.Label("descriptor")
	ar.Process(&d.Descriptor)
	ar.Label("definition")
	ar.Process(&d.Definition)
	ar.Label("behavior")
	ar.Process(&d.Behavior)
	if d.Behavior.err != nil {
		d.err = d.Behavior.err
		return
	}
	ar.Label("geometry")
	ar.Process(&d.Geometry)
	ar.Label("eof")
	ar.Process(&d.eof)
	if ar.IsOk() && !d.eof.Matches() {
		d.err = errors.Wrapf(ErrMalformed, "end signature %q", d.eof.String())
	}
}

// Save writes the document.
func (d *DNA) Save(ar archive.Archive) {
	d.markers.Reset()

	ar.Label("signature")
	ar.Process(&d.signature)
	ar.Label("version")
	ar.Process(&d.version)
	ar.Label("sections")
	ar.Process(&d.sections)
	ar.Label("descriptor")
	ar.Process(&d.Descriptor)
	ar.Label("definition")
	ar.Process(&d.Definition)
	ar.Label("behavior")
	ar.Process(&d.Behavior)
	ar.Label("geometry")
	ar.Process(&d.Geometry)
	ar.Label("eof")
	ar.Process(&d.eof)
}

// Clone returns a deep copy with its own marker arena.
func (d *DNA) Clone() *DNA {
	c := New()
	c.Descriptor = d.Descriptor.clone()
	c.Descriptor.section = c.sections.descriptor
	c.Definition = d.Definition.clone()
	c.Definition.section = c.sections.definition
	c.Behavior.Payload = d.Behavior.Payload.Clone()
	c.Geometry = d.Geometry.clone()
	c.Geometry.section = c.sections.geometry
	return c
}

// SectionOffsets returns the absolute positions of the descriptor,
// definition, behavior and geometry sections recorded by the last read or
// write. Text archives leave them zero.
func (d *DNA) SectionOffsets() [4]uint64 {
	return [4]uint64{
		d.sections.descriptor.Value(),
		d.sections.definition.Value(),
		d.sections.behavior.Value(),
		d.sections.geometry.Value(),
	}
}

// LODCount returns the number of LODs.
func (d *DNA) LODCount() int { return int(d.Descriptor.LODCount) }

// JointCount returns the number of joints.
func (d *DNA) JointCount() int { return len(d.Definition.JointNames) }

// BlendShapeChannelCount returns the number of blend shape channels.
func (d *DNA) BlendShapeChannelCount() int { return len(d.Definition.BlendShapeChannelNames) }

// AnimatedMapCount returns the number of animated maps.
func (d *DNA) AnimatedMapCount() int { return len(d.Definition.AnimatedMapNames) }

// MeshCount returns the number of meshes.
func (d *DNA) MeshCount() int { return len(d.Definition.MeshNames) }

// JointIndex returns the index of the joint called name.
func (d *DNA) JointIndex(name string) (int, bool) { return indexOf(d.Definition.JointNames, name) }

// BlendShapeChannelIndex returns the index of the channel called name.
func (d *DNA) BlendShapeChannelIndex(name string) (int, bool) {
	return indexOf(d.Definition.BlendShapeChannelNames, name)
}

// AnimatedMapIndex returns the index of the animated map called name.
func (d *DNA) AnimatedMapIndex(name string) (int, bool) {
	return indexOf(d.Definition.AnimatedMapNames, name)
}

// MeshIndex returns the index of the mesh called name.
func (d *DNA) MeshIndex(name string) (int, bool) { return indexOf(d.Definition.MeshNames, name) }

// MeshIndicesForLOD returns the meshes present on lod.
func (d *DNA) MeshIndicesForLOD(lod int) []uint16 { return d.Definition.LODMeshMapping.IndicesFor(lod) }

// JointIndicesForLOD returns the joints present on lod.
func (d *DNA) JointIndicesForLOD(lod int) []uint16 {
	return d.Definition.LODJointMapping.IndicesFor(lod)
}

// Mesh returns mesh i, or nil when the document has no geometry for it.
func (d *DNA) Mesh(i int) *Mesh {
	if i < 0 || i >= len(d.Geometry.Meshes) {
		return nil
	}
	return &d.Geometry.Meshes[i]
}

func indexOf(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}
