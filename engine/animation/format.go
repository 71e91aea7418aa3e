package animation

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/math"
	"github.com/spaghettifunk/anima-rig/engine/resources"
)

const (
	skeletonRecordFields = 10
	clipRecordFields     = 10
)

// recordScanner yields the fields of non-empty, non-comment lines and keeps
// track of the line number for error reporting.
type recordScanner struct {
	scanner *bufio.Scanner
	path    string
	line    int
}

func newRecordScanner(r io.Reader, path string) *recordScanner {
	return &recordScanner{
		scanner: bufio.NewScanner(r),
		path:    path,
	}
}

// next returns the fields of the next record, or io.EOF.
func (rs *recordScanner) next() ([]string, error) {
	for rs.scanner.Scan() {
		rs.line++
		line := strings.TrimSpace(rs.scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return splitRecord(line), nil
	}
	if err := rs.scanner.Err(); err != nil {
		return nil, core.NewLoadError(rs.path, rs.line, "read failed").Wrap(err)
	}
	return nil, io.EOF
}

// expect reads the next record and checks its field count.
func (rs *recordScanner) expect(count int, what string) ([]string, error) {
	fields, err := rs.next()
	if errors.Is(err, io.EOF) {
		return nil, core.NewLoadError(rs.path, rs.line, "unexpected end of file, expected %s", what)
	}
	if err != nil {
		return nil, err
	}
	if len(fields) != count {
		return nil, core.NewLoadError(rs.path, rs.line, "%s has %d fields, expected %d", what, len(fields), count)
	}
	return fields, nil
}

func (rs *recordScanner) fail(reason string, args ...interface{}) *core.LoadError {
	return core.NewLoadError(rs.path, rs.line, reason, args...)
}

// splitRecord splits on tabs; lines without tabs fall back to whitespace and commas.
func splitRecord(line string) []string {
	var raw []string
	if strings.Contains(line, "\t") {
		raw = strings.Split(line, "\t")
	} else {
		raw = strings.FieldsFunc(line, func(r rune) bool {
			return unicode.IsSpace(r) || r == ','
		})
	}
	fields := raw[:0]
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func (rs *recordScanner) parseInt(field, what string) (int, error) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, rs.fail("invalid %s '%s'", what, field).Wrap(err)
	}
	return v, nil
}

func (rs *recordScanner) parseFloats(fields []string, what string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, rs.fail("invalid %s value '%s'", what, f).Wrap(err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (rs *recordScanner) expectEOF() error {
	if _, err := rs.next(); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return rs.fail("unexpected trailing record")
	}
	return nil
}

// LoadSkeleton reads a skeleton file: a bone count line followed by one record
// per bone: name, length, rest location (x y z), rest rotation (w x y z), parent.
func LoadSkeleton(path string) (*Skeleton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "cannot open skeleton").Wrap(err)
	}
	defer f.Close()

	return ParseSkeleton(f, resources.NameFromPath(path), path)
}

func ParseSkeleton(r io.Reader, name, path string) (*Skeleton, error) {
	rs := newRecordScanner(r, path)

	header, err := rs.expect(1, "bone count")
	if err != nil {
		return nil, err
	}
	boneCount, err := rs.parseInt(header[0], "bone count")
	if err != nil {
		return nil, err
	}
	if boneCount <= 0 {
		return nil, rs.fail("bone count must be positive, got %d", boneCount)
	}

	bones := make([]Bone, boneCount)
	for i := 0; i < boneCount; i++ {
		fields, err := rs.expect(skeletonRecordFields, "bone record")
		if err != nil {
			return nil, err
		}
		values, err := rs.parseFloats(fields[1:9], "bone")
		if err != nil {
			return nil, err
		}
		parent, err := rs.parseInt(fields[9], "parent index")
		if err != nil {
			return nil, err
		}
		bones[i] = Bone{
			Index:        i,
			Name:         fields[0],
			Length:       values[0],
			RestLocation: mgl32.Vec3{values[1], values[2], values[3]},
			RestRotation: math.QuatFromWXYZ(values[4], values[5], values[6], values[7]),
			Parent:       parent,
		}
	}
	if err := rs.expectEOF(); err != nil {
		return nil, err
	}

	// Parent indices are only checked once every bone is known.
	skel, err := NewSkeleton(name, bones)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "invalid skeleton").Wrap(err)
	}
	return skel, nil
}

// LoadClip reads a clip file: a "boneCount frameCount" line followed by
// frameCount blocks of boneCount records: scale (x y z), rotation (w x y z),
// location (x y z). A positive expectedBoneCount must match the file.
func LoadClip(name, path string, expectedBoneCount int) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "cannot open clip").Wrap(err)
	}
	defer f.Close()

	return ParseClip(f, name, path, expectedBoneCount)
}

func ParseClip(r io.Reader, name, path string, expectedBoneCount int) (*Clip, error) {
	rs := newRecordScanner(r, path)

	header, err := rs.expect(2, "clip header")
	if err != nil {
		return nil, err
	}
	boneCount, err := rs.parseInt(header[0], "bone count")
	if err != nil {
		return nil, err
	}
	frameCount, err := rs.parseInt(header[1], "frame count")
	if err != nil {
		return nil, err
	}
	if boneCount <= 0 || frameCount <= 0 {
		return nil, rs.fail("clip needs at least one bone and one frame, got %d bones and %d frames", boneCount, frameCount)
	}
	if expectedBoneCount > 0 && boneCount != expectedBoneCount {
		return nil, rs.fail("clip has %d bones, skeleton has %d", boneCount, expectedBoneCount).Wrap(core.ErrBoneCountMismatch)
	}

	frames := make([][]FrameTransform, frameCount)
	for f := 0; f < frameCount; f++ {
		frames[f] = make([]FrameTransform, boneCount)
		for b := 0; b < boneCount; b++ {
			fields, err := rs.expect(clipRecordFields, "frame record")
			if err != nil {
				return nil, err
			}
			v, err := rs.parseFloats(fields, "frame")
			if err != nil {
				return nil, err
			}
			frames[f][b] = FrameTransform{
				Scale:    mgl32.Vec3{v[0], v[1], v[2]},
				Rotation: math.QuatFromWXYZ(v[3], v[4], v[5], v[6]),
				Location: mgl32.Vec3{v[7], v[8], v[9]},
			}
		}
	}
	if err := rs.expectEOF(); err != nil {
		return nil, err
	}

	clip, err := NewClip(name, boneCount, frames)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "invalid clip").Wrap(err)
	}
	return clip, nil
}
