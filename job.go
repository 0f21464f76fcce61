package terse

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/hupe1980/terse/dna"
	"github.com/hupe1980/terse/dnacalib"
	"github.com/hupe1980/terse/internal/conv"
	"github.com/hupe1980/terse/internal/errs"
	"github.com/hupe1980/terse/stream"
	"github.com/hupe1980/terse/tdm"
)

// JobFile is the content of a YAML or JSON job file.
type JobFile struct {
	Workers   int         `mapstructure:"workers"`
	RateLimit int         `mapstructure:"rateLimit"`
	MinIO     MinIOConfig `mapstructure:"minio"`
	Jobs      []Job       `mapstructure:"jobs"`
}

// Job loads one document, edits it and stores the result.
//
// Format and Compression select the output encoding. An empty format keeps
// binary; an empty compression follows the output extension.
type Job struct {
	Input       string        `mapstructure:"input"`
	Output      string        `mapstructure:"output"`
	Format      string        `mapstructure:"format"`
	Compression string        `mapstructure:"compression"`
	Commands    []CommandSpec `mapstructure:"commands"`
}

// CommandSpec is the declarative form of a dnacalib command. Op selects the
// command; the other fields are read as the command needs them.
type CommandSpec struct {
	Op        string      `mapstructure:"op"`
	Resource  string      `mapstructure:"resource"`
	Index     int         `mapstructure:"index"`
	Indices   []int       `mapstructure:"indices"`
	Name      string      `mapstructure:"name"`
	OldName   string      `mapstructure:"oldName"`
	Vector    []float32   `mapstructure:"vector"`
	Origin    []float32   `mapstructure:"origin"`
	Factor    float32     `mapstructure:"factor"`
	LODs      []int       `mapstructure:"lods"`
	Threshold float32     `mapstructure:"threshold"`
	Mesh      int         `mapstructure:"mesh"`
	Positions [][]float32 `mapstructure:"positions"`
	Masks     []float32   `mapstructure:"masks"`
	Operation string      `mapstructure:"operation"`
	Values    [][]float32 `mapstructure:"values"`

	// Skin weight and blend shape target edits.
	Vertex        int         `mapstructure:"vertex"`
	Weights       []float32   `mapstructure:"weights"`
	Joints        []int       `mapstructure:"joints"`
	Target        int         `mapstructure:"target"`
	Deltas        [][]float32 `mapstructure:"deltas"`
	VertexIndices []int       `mapstructure:"vertexIndices"`
}

// LoadJobFile reads a job file. The type follows the extension (.yaml, .yml
// or .json).
func LoadJobFile(path string) (*JobFile, error) {
	v := viper.New()
	v.SetConfigFile(path)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	case ".json":
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read job file %s", path)
	}

	var f JobFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, errors.Wrapf(err, "decode job file %s", path)
	}
	return &f, nil
}

// Validate checks the locations, encodings and commands of the job.
func (j *Job) Validate() error {
	if j.Input == "" || j.Output == "" {
		return errors.Wrap(ErrInvalidJob, "input and output are required")
	}
	if _, err := ParseLocation(j.Input); err != nil {
		return errs.Mark(err, ErrInvalidJob)
	}
	if _, err := ParseLocation(j.Output); err != nil {
		return errs.Mark(err, ErrInvalidJob)
	}
	if _, err := j.encoding(); err != nil {
		return err
	}
	_, err := j.Sequence()
	return err
}

type encoding struct {
	format      dna.Format
	compression stream.Compression
}

func (j *Job) encoding() (encoding, error) {
	f, err := dna.ParseFormat(j.Format)
	if err != nil {
		return encoding{}, errs.Mark(err, ErrInvalidJob)
	}
	c := dna.CompressionFor(j.Output)
	if j.Compression != "" {
		if c, err = stream.ParseCompression(j.Compression); err != nil {
			return encoding{}, errs.Mark(err, ErrInvalidJob)
		}
	}
	return encoding{format: f, compression: c}, nil
}

// Sequence builds the command sequence of the job.
func (j *Job) Sequence() (*dnacalib.Sequence, error) {
	seq := dnacalib.NewSequence()
	for i := range j.Commands {
		c, err := j.Commands[i].Build()
		if err != nil {
			return nil, &CommandError{Index: i, Op: j.Commands[i].Op, cause: err}
		}
		seq.Add(c)
	}
	return seq, nil
}

// Build returns the command described by s.
func (s *CommandSpec) Build() (dnacalib.Command, error) {
	switch normalizeOp(s.Op) {
	case "rename":
		r, err := dnacalib.ParseResource(s.Resource)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidJob)
		}
		if s.OldName != "" {
			return dnacalib.RenameByName(r, s.OldName, s.Name), nil
		}
		return &dnacalib.Rename{Resource: r, Index: s.Index, NewName: s.Name}, nil
	case "remove":
		r, err := dnacalib.ParseResource(s.Resource)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidJob)
		}
		indices := s.Indices
		if len(indices) == 0 {
			indices = []int{s.Index}
		}
		return &dnacalib.Remove{Resource: r, Indices: indices}, nil
	case "clearblendshapes":
		return dnacalib.ClearBlendShapes{}, nil
	case "setlods":
		return &dnacalib.SetLODs{LODs: s.LODs}, nil
	case "translate":
		v, err := vec3(s.Vector, "vector")
		if err != nil {
			return nil, err
		}
		return &dnacalib.Translate{Delta: v}, nil
	case "scale":
		o, err := optionalVec3(s.Origin, "origin")
		if err != nil {
			return nil, err
		}
		return &dnacalib.Scale{Factor: s.Factor, Origin: o}, nil
	case "rotate":
		v, err := vec3(s.Vector, "vector")
		if err != nil {
			return nil, err
		}
		o, err := optionalVec3(s.Origin, "origin")
		if err != nil {
			return nil, err
		}
		return &dnacalib.Rotate{Degrees: v, Origin: o}, nil
	case "setneutraljointtranslations":
		values, err := vec3s(s.Values, "values")
		if err != nil {
			return nil, err
		}
		return &dnacalib.SetNeutralJointTranslations{Values: values}, nil
	case "setneutraljointrotations":
		values, err := vec3s(s.Values, "values")
		if err != nil {
			return nil, err
		}
		return &dnacalib.SetNeutralJointRotations{Values: values}, nil
	case "setvertexpositions":
		positions, err := vec3s(s.Positions, "positions")
		if err != nil {
			return nil, err
		}
		op, err := vectorOperation(s.Operation)
		if err != nil {
			return nil, err
		}
		return &dnacalib.SetVertexPositions{MeshIndex: s.Mesh, Positions: positions, Masks: s.Masks, Operation: op}, nil
	case "setskinweights":
		joints, err := narrow(s.Joints, "joints", conv.IntToUint16)
		if err != nil {
			return nil, err
		}
		return &dnacalib.SetSkinWeights{MeshIndex: s.Mesh, VertexIndex: s.Vertex, Weights: s.Weights, JointIndices: joints}, nil
	case "setblendshapetargetdeltas":
		deltas, err := vec3s(s.Deltas, "deltas")
		if err != nil {
			return nil, err
		}
		var vertices []uint32
		if s.VertexIndices != nil {
			if vertices, err = narrow(s.VertexIndices, "vertexIndices", conv.IntToUint32); err != nil {
				return nil, err
			}
		}
		op, err := vectorOperation(s.Operation)
		if err != nil {
			return nil, err
		}
		return &dnacalib.SetBlendShapeTargetDeltas{
			MeshIndex:             s.Mesh,
			BlendShapeTargetIndex: s.Target,
			Deltas:                deltas,
			VertexIndices:         vertices,
			Masks:                 s.Masks,
			Operation:             op,
		}, nil
	case "pruneblendshapetargets":
		return &dnacalib.PruneBlendShapeTargets{Threshold: s.Threshold}, nil
	case "calculatemeshlowerlods":
		return &dnacalib.CalculateMeshLowerLODs{MeshIndex: s.Mesh}, nil
	}
	return nil, errors.Wrapf(ErrInvalidJob, "unknown op %q", s.Op)
}

func normalizeOp(op string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(op))
}

// vectorOperation parses name, defaulting to Overwrite.
func vectorOperation(name string) (dnacalib.VectorOperation, error) {
	if name == "" {
		return dnacalib.Overwrite, nil
	}
	op, err := dnacalib.ParseVectorOperation(name)
	if err != nil {
		return 0, errs.Mark(err, ErrInvalidJob)
	}
	return op, nil
}

func narrow[T uint16 | uint32](vs []int, field string, to func(int) (T, error)) ([]T, error) {
	out := make([]T, len(vs))
	for i, v := range vs {
		x, err := to(v)
		if err != nil {
			return nil, errs.Mark(errors.Wrapf(err, "%s element %d", field, i), ErrInvalidJob)
		}
		out[i] = x
	}
	return out, nil
}

func vec3(v []float32, field string) (tdm.Vec3, error) {
	if len(v) != 3 {
		return tdm.Vec3{}, errors.Wrapf(ErrInvalidJob, "%s needs 3 components, got %d", field, len(v))
	}
	return tdm.Vec3{v[0], v[1], v[2]}, nil
}

func optionalVec3(v []float32, field string) (tdm.Vec3, error) {
	if len(v) == 0 {
		return tdm.Vec3{}, nil
	}
	return vec3(v, field)
}

func vec3s(vs [][]float32, field string) ([]tdm.Vec3, error) {
	out := make([]tdm.Vec3, len(vs))
	for i, v := range vs {
		x, err := vec3(v, field)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = x
	}
	return out, nil
}
