package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// objCorner is one face corner; a zero component means "not given".
type objCorner struct {
	pos int
	uv  int
}

type objParser struct {
	positions []mgl32.Vec3
	texCoords []mgl32.Vec2
	builder   *MeshBuilder
	line      int
	faces     int
}

// LoadObj reads a Wavefront OBJ file. Polygons are fan triangulated
// and the V coordinate is flipped to a top-left texture origin.
func LoadObj(path string) (*metadata.MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mesh, err := ParseObj(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

func ParseObj(r io.Reader) (*metadata.MeshData, error) {
	p := &objParser{builder: NewMeshBuilder()}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w: %s", p.line, core.ErrDecodeFailed, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if p.faces == 0 {
		return nil, core.ErrEmptyMesh
	}
	return p.builder.Build()
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		p.texCoords = append(p.texCoords, mgl32.Vec2{v[0], v[1]})
	case "f":
		return p.parseFace(fields[1:])
	default:
		// vn, o, g, s, usemtl, mtllib and friends carry nothing we draw
	}
	return nil
}

func (p *objParser) parseFace(fields []string) error {
	if len(fields) < 3 {
		core.LogWarn("obj line %d: skipping face with %d corners", p.line, len(fields))
		return nil
	}

	corners := make([]metadata.Vertex, 0, len(fields))
	for _, field := range fields {
		c, err := p.parseCorner(field)
		if err != nil {
			return err
		}
		corners = append(corners, p.resolve(c))
	}

	for i := 1; i+1 < len(corners); i++ {
		p.builder.AddTriangle(corners[0], corners[i], corners[i+1])
	}
	p.faces++
	return nil
}

// parseCorner understands v, v/vt, v/vt/vn and v//vn.
func (p *objParser) parseCorner(field string) (objCorner, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("malformed face corner %q", field)
	}

	pos, err := resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return objCorner{}, err
	}
	c := objCorner{pos: pos}

	if len(parts) > 1 && parts[1] != "" {
		uv, err := resolveIndex(parts[1], len(p.texCoords))
		if err != nil {
			return objCorner{}, err
		}
		c.uv = uv
	}
	return c, nil
}

func (p *objParser) resolve(c objCorner) metadata.Vertex {
	v := metadata.Vertex{
		Pos:   p.positions[c.pos-1],
		Color: metadata.NeutralColor,
	}
	if c.uv > 0 {
		uv := p.texCoords[c.uv-1]
		v.TexCoord = mgl32.Vec2{uv[0], 1 - uv[1]}
	}
	return v
}

// resolveIndex turns a 1-based (or negative, relative) OBJ index into a
// 1-based absolute one and checks it against count.
func resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if idx < 0 {
		idx = count + idx + 1
	}
	if idx < 1 || idx > count {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, count)
	}
	return idx, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
