// Package dnacalib edits rig documents through commands.
//
// Every edit is a [Command]. Commands are grouped into a [Sequence] and run
// in order against a document:
//
//	seq := dnacalib.NewSequence(
//		dnacalib.RenameJoint(0, "root"),
//		dnacalib.RemoveBlendShape(3, 4),
//		&dnacalib.Translate{Delta: tdm.Vec3{0, 0, 5}},
//	)
//	if err := seq.Run(d); err != nil {
//		return err
//	}
//
// Commands validate their arguments before touching the document, so a
// failing command leaves it unchanged. A failing sequence stops at the
// failing command; earlier commands stay applied.
//
// The behavior section is carried as an opaque payload and is never
// rewritten. Commands that remove or rename elements only update
// definition and geometry data.
package dnacalib
