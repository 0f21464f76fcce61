package dnacalib

import (
	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/dna"
)

// Rename changes the name of one element. The element is addressed by
// OldName when it is set, by Index otherwise.
type Rename struct {
	Resource Resource
	Index    int
	OldName  string
	NewName  string
}

// RenameJoint renames the joint at index.
func RenameJoint(index int, name string) *Rename {
	return &Rename{Resource: Joint, Index: index, NewName: name}
}

// RenameBlendShape renames the blend shape channel at index.
func RenameBlendShape(index int, name string) *Rename {
	return &Rename{Resource: BlendShape, Index: index, NewName: name}
}

// RenameMesh renames the mesh at index.
func RenameMesh(index int, name string) *Rename {
	return &Rename{Resource: Mesh, Index: index, NewName: name}
}

// RenameAnimatedMap renames the animated map at index.
func RenameAnimatedMap(index int, name string) *Rename {
	return &Rename{Resource: AnimatedMap, Index: index, NewName: name}
}

// RenameByName renames the element of kind r called oldName.
func RenameByName(r Resource, oldName, newName string) *Rename {
	return &Rename{Resource: r, OldName: oldName, NewName: newName}
}

// Run implements Command.
func (c *Rename) Run(d *dna.DNA) error {
	if c.NewName == "" {
		return errors.Wrapf(ErrInvalidArgument, "empty %s name", c.Resource)
	}
	list := names(d, c.Resource)
	index := c.Index
	if c.OldName != "" {
		i, err := lookup(d, c.Resource, c.OldName)
		if err != nil {
			return err
		}
		index = i
	}
	if err := checkIndex(c.Resource, index, len(*list)); err != nil {
		return err
	}
	(*list)[index] = c.NewName
	return nil
}
