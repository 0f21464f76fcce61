// Package dna implements a reduced rig document: descriptor, definition,
// an opaque behavior region and mesh geometry, readable and writable as
// binary or JSON archives.
//
// A document starts with the "DNA" signature and a version and ends with the
// "AND" signature. Binary documents carry a section lookup table of absolute
// offsets that is patched while writing, so readers can seek straight to a
// section.
//
//	d, err := dna.Load("rig.dna")
//	if err != nil {
//		return err
//	}
//	d.Definition.JointNames[0] = "root"
//	return dna.Save(d, "rig.json", dna.JSON, stream.None)
package dna
