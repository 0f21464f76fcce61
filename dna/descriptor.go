package dna

import (
	"slices"

	"github.com/hupe1980/terse/archive"
)

// CoordinateSystem names the direction of each axis.
type CoordinateSystem struct {
	XAxis uint16
	YAxis uint16
	ZAxis uint16
}

// Serialize implements archive.Serializer.
func (c *CoordinateSystem) Serialize(ar archive.Archive) {
	ar.Label("xAxis")
	ar.Process(&c.XAxis)
	ar.Label("yAxis")
	ar.Process(&c.YAxis)
	ar.Label("zAxis")
	ar.Process(&c.ZAxis)
}

// Descriptor holds the general information about a rig.
type Descriptor struct {
	section archive.DeferredOffset

	Name             string
	Archetype        uint16
	Gender           uint16
	Age              uint16
	Metadata         []archive.Pair[string, string]
	TranslationUnit  uint16
	RotationUnit     uint16
	CoordinateSystem CoordinateSystem
	LODCount         uint16
	MaxLOD           uint16
	Complexity       string
	DBName           string
}

// Serialize implements archive.Serializer.
func (d *Descriptor) Serialize(ar archive.Archive) {
	ar.Process(d.section.Proxy())
	ar.Label("name")
	ar.Process(&d.Name)
	ar.Label("archetype")
	ar.Process(&d.Archetype)
	ar.Label("gender")
	ar.Process(&d.Gender)
	ar.Label("age")
	ar.Process(&d.Age)
	ar.Label("metadata")
	ar.Process(&d.Metadata)
	ar.Label("translationUnit")
	ar.Process(&d.TranslationUnit)
	ar.Label("rotationUnit")
	ar.Process(&d.RotationUnit)
	ar.Label("coordinateSystem")
	ar.Process(&d.CoordinateSystem)
	ar.Label("lodCount")
	ar.Process(&d.LODCount)
	ar.Label("maxLOD")
	ar.Process(&d.MaxLOD)
	ar.Label("complexity")
	ar.Process(&d.Complexity)
	ar.Label("dbName")
	ar.Process(&d.DBName)
}

// MetadataValue returns the value stored under key.
func (d *Descriptor) MetadataValue(key string) (string, bool) {
	for _, kv := range d.Metadata {
		if kv.First == key {
			return kv.Second, true
		}
	}
	return "", false
}

// SetMetadata stores value under key, replacing an existing entry.
func (d *Descriptor) SetMetadata(key, value string) {
	for i := range d.Metadata {
		if d.Metadata[i].First == key {
			d.Metadata[i].Second = value
			return
		}
	}
	d.Metadata = append(d.Metadata, archive.Pair[string, string]{First: key, Second: value})
}

func (d *Descriptor) clone() Descriptor {
	c := *d
	c.Metadata = slices.Clone(d.Metadata)
	return c
}
