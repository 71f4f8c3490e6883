package exporter

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/qmuntal/gltf"

	"floorplan3d/internal/generator/geometry"
	"floorplan3d/internal/generator/models"
)

func buildSample(t *testing.T) *models.MeshBuffer {
	t.Helper()

	sx, sy, err := geometry.Scale(500, 500)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}

	b := geometry.NewBuilder(models.DefaultParams())
	walls := []models.Rectangle{{X1: 0, Y1: 0, X2: 500, Y2: 10}}
	doors := []models.Rectangle{{X1: 200, Y1: 0, X2: 280, Y2: 10}}
	b.AddFloor(500, 500, sx, sy)
	b.AddWalls(walls, doors, nil, sx, sy)
	b.AddDoors(doors, sx, sy)
	b.AddCeiling(500, 500, sx, sy)
	return b.Buffer()
}

func TestExportLayout(t *testing.T) {
	buf := buildSample(t)
	doc, bin, meta, err := Export(buf, models.DefaultParams(), 1, 1, 0)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	nv := uint32(len(buf.Vertices))
	ni := uint32(len(buf.Faces) * 3)

	if len(doc.BufferViews) != 4 {
		t.Fatalf("expected 4 bufferViews, got %d", len(doc.BufferViews))
	}

	// Смещения накапливаются в фиксированном порядке секций
	var offset, sum uint32
	for i, view := range doc.BufferViews {
		if view.Buffer != 0 {
			t.Fatalf("view %d references buffer %d", i, view.Buffer)
		}
		if view.ByteOffset != offset {
			t.Fatalf("view %d offset %d, want %d", i, view.ByteOffset, offset)
		}
		offset += view.ByteLength
		sum += view.ByteLength
	}
	if sum != doc.Buffers[0].ByteLength {
		t.Fatalf("views sum %d != buffer length %d", sum, doc.Buffers[0].ByteLength)
	}
	if uint32(len(bin)) != doc.Buffers[0].ByteLength {
		t.Fatalf("binary length %d != declared %d", len(bin), doc.Buffers[0].ByteLength)
	}

	for i := 0; i < 3; i++ {
		if doc.BufferViews[i].ByteLength != nv*3*4 {
			t.Fatalf("view %d length %d, want %d", i, doc.BufferViews[i].ByteLength, nv*3*4)
		}
	}
	if doc.BufferViews[3].ByteLength != ni*4 {
		t.Fatalf("index view length %d, want %d", doc.BufferViews[3].ByteLength, ni*4)
	}

	if meta.NumVertices != int(nv) || meta.NumFaces != len(buf.Faces) {
		t.Fatalf("metadata counts mismatch: %+v", meta)
	}
	if meta.NumWalls != 1 || meta.NumDoors != 1 || meta.NumWindows != 0 {
		t.Fatalf("element counts mismatch: %+v", meta)
	}
}

// Декодирование буфера по заявленным смещениям воспроизводит исходные массивы.
func TestExportRoundTrip(t *testing.T) {
	buf := buildSample(t)
	doc, bin, _, err := Export(buf, models.DefaultParams(), 1, 1, 0)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	readFloats := func(view *gltf.BufferView) []float32 {
		out := make([]float32, view.ByteLength/4)
		r := bytes.NewReader(bin[view.ByteOffset : view.ByteOffset+view.ByteLength])
		if err := binary.Read(r, binary.LittleEndian, out); err != nil {
			t.Fatalf("read floats: %v", err)
		}
		return out
	}

	positions := readFloats(doc.BufferViews[0])
	normals := readFloats(doc.BufferViews[1])
	colors := readFloats(doc.BufferViews[2])

	for i, v := range buf.Vertices {
		for c := 0; c < 3; c++ {
			if positions[i*3+c] != float32(v[c]) {
				t.Fatalf("position %d.%d: %v != %v", i, c, positions[i*3+c], float32(v[c]))
			}
		}
	}
	for i, n := range buf.Normals {
		for c := 0; c < 3; c++ {
			if normals[i*3+c] != float32(n[c]) {
				t.Fatalf("normal %d.%d mismatch", i, c)
			}
		}
	}
	for i, col := range buf.Colors {
		for c := 0; c < 3; c++ {
			if colors[i*3+c] != float32(col[c]) {
				t.Fatalf("color %d.%d mismatch", i, c)
			}
		}
	}

	view := doc.BufferViews[3]
	indices := make([]uint32, view.ByteLength/4)
	r := bytes.NewReader(bin[view.ByteOffset:])
	if err := binary.Read(r, binary.LittleEndian, indices); err != nil {
		t.Fatalf("read indices: %v", err)
	}
	for i, f := range buf.Faces {
		for c := 0; c < 3; c++ {
			if indices[i*3+c] != f[c] {
				t.Fatalf("index %d.%d: %d != %d", i, c, indices[i*3+c], f[c])
			}
		}
	}
}

func TestExportDocument(t *testing.T) {
	buf := buildSample(t)
	doc, _, _, err := Export(buf, models.DefaultParams(), 1, 1, 0)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if doc.Asset.Version != "2.0" {
		t.Fatalf("asset version %q", doc.Asset.Version)
	}
	if len(doc.Scenes) != 1 || len(doc.Nodes) != 1 || len(doc.Meshes) != 1 {
		t.Fatal("expected single scene/node/mesh")
	}
	if *doc.Nodes[0].Mesh != 0 {
		t.Fatalf("node references mesh %d", *doc.Nodes[0].Mesh)
	}

	prim := doc.Meshes[0].Primitives[0]
	if prim.Attributes["POSITION"] != 0 || prim.Attributes["NORMAL"] != 1 || prim.Attributes["COLOR_0"] != 2 {
		t.Fatalf("attribute bindings: %v", prim.Attributes)
	}
	if *prim.Indices != 3 || prim.Mode != gltf.PrimitiveTriangles {
		t.Fatal("primitive indices/mode mismatch")
	}

	mat := doc.Materials[0]
	if !mat.DoubleSided {
		t.Fatal("material must be double sided")
	}
	if *mat.PBRMetallicRoughness.MetallicFactor != 0 || *mat.PBRMetallicRoughness.RoughnessFactor != 1 {
		t.Fatal("material factors mismatch")
	}

	pos := doc.Accessors[0]
	if pos.ComponentType != gltf.ComponentFloat || pos.Type != gltf.AccessorVec3 {
		t.Fatal("position accessor type mismatch")
	}
	if len(pos.Min) != 3 || len(pos.Max) != 3 {
		t.Fatalf("position bounds: min %v max %v", pos.Min, pos.Max)
	}
	if pos.Min[1] != 0 || pos.Max[1] != 3.0 {
		t.Fatalf("Y bounds [%v, %v], want [0, 3]", pos.Min[1], pos.Max[1])
	}

	idx := doc.Accessors[3]
	if idx.ComponentType != gltf.ComponentUint || idx.Type != gltf.AccessorScalar {
		t.Fatal("index accessor type mismatch")
	}
	if idx.Count != uint32(len(buf.Faces)*3) {
		t.Fatalf("index count %d, want %d", idx.Count, len(buf.Faces)*3)
	}
}

func TestExportRejectsEmptyAndMisaligned(t *testing.T) {
	var vErr *models.ValidationError

	if _, bin, _, err := Export(models.NewMeshBuffer(), models.DefaultParams(), 0, 0, 0); !errors.As(err, &vErr) || bin != nil {
		t.Fatalf("expected ValidationError without bytes, got %v", err)
	}

	buf := buildSample(t)
	buf.Normals = buf.Normals[:len(buf.Normals)-1]
	if _, bin, _, err := Export(buf, models.DefaultParams(), 1, 1, 0); !errors.As(err, &vErr) || bin != nil {
		t.Fatalf("expected ValidationError on misaligned arrays, got %v", err)
	}
}
