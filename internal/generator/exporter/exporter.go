package exporter

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"floorplan3d/internal/generator/models"
)

// ============================================================
// Binary Exporter
// ============================================================

const generatorName = "FloorPlanTo3D-API"

// Порядок секций в бинарном буфере фиксирован, от него считаются смещения:
// позиции → нормали → цвета → индексы. Все элементы по 4 байта,
// поэтому границы секций всегда выровнены и padding не нужен.

// Export упаковывает MeshBuffer в glTF 2.0 документ и один бинарный буфер.
// Либо возвращает полный результат, либо ошибку до единого байта наружу.
func Export(buf *models.MeshBuffer, params models.Params, numWalls, numDoors, numWindows int) (*gltf.Document, []byte, models.Metadata, error) {
	var meta models.Metadata

	if buf == nil || len(buf.Vertices) == 0 {
		return nil, nil, meta, &models.ValidationError{Reason: "empty mesh buffer"}
	}
	if len(buf.Vertices) != len(buf.Normals) || len(buf.Vertices) != len(buf.Colors) {
		return nil, nil, meta, &models.ValidationError{
			Reason: fmt.Sprintf("mesh arrays misaligned: %d vertices, %d normals, %d colors",
				len(buf.Vertices), len(buf.Normals), len(buf.Colors)),
		}
	}

	positions := flatten(buf.Vertices)
	normals := flatten(buf.Normals)
	colors := flatten(buf.Colors)

	indices := make([]uint32, 0, len(buf.Faces)*3)
	for _, f := range buf.Faces {
		indices = append(indices, f[0], f[1], f[2])
	}

	// Проверка переполнения до записи: все длины и смещения должны
	// помещаться в uint32 glTF-схемы.
	total := 4 * (uint64(len(positions)) + uint64(len(normals)) + uint64(len(colors)) + uint64(len(indices)))
	if total > math.MaxUint32 {
		return nil, nil, meta, &models.SerializationError{
			Reason: fmt.Sprintf("buffer of %d bytes exceeds uint32 range", total),
		}
	}

	posLen := uint32(len(positions)) * 4
	nrmLen := uint32(len(normals)) * 4
	colLen := uint32(len(colors)) * 4
	idxLen := uint32(len(indices)) * 4

	minVals, maxVals := bounds(positions)

	bin := &bytes.Buffer{}
	for _, section := range [][]float32{positions, normals, colors} {
		if err := binary.Write(bin, binary.LittleEndian, section); err != nil {
			return nil, nil, meta, &models.SerializationError{Reason: fmt.Sprintf("pack floats: %v", err)}
		}
	}
	if err := binary.Write(bin, binary.LittleEndian, indices); err != nil {
		return nil, nil, meta, &models.SerializationError{Reason: fmt.Sprintf("pack indices: %v", err)}
	}

	doc := &gltf.Document{
		Asset: gltf.Asset{
			Version:   "2.0",
			Generator: generatorName,
		},
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Nodes: []uint32{0}}},
		Nodes:  []*gltf.Node{{Mesh: gltf.Index(0)}},
		Materials: []*gltf.Material{{
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float32{1, 1, 1, 1},
				MetallicFactor:  float32ptr(0),
				RoughnessFactor: float32ptr(1),
			},
			DoubleSided: true,
		}},
		Meshes: []*gltf.Mesh{{
			Primitives: []*gltf.Primitive{{
				Attributes: gltf.Attribute{
					"POSITION": 0,
					"NORMAL":   1,
					"COLOR_0":  2,
				},
				Indices:  gltf.Index(3),
				Material: gltf.Index(0),
				Mode:     gltf.PrimitiveTriangles,
			}},
		}},
		Accessors: []*gltf.Accessor{
			{
				BufferView:    gltf.Index(0),
				ComponentType: gltf.ComponentFloat,
				Count:         uint32(len(buf.Vertices)),
				Type:          gltf.AccessorVec3,
				Max:           maxVals,
				Min:           minVals,
			},
			{
				BufferView:    gltf.Index(1),
				ComponentType: gltf.ComponentFloat,
				Count:         uint32(len(buf.Normals)),
				Type:          gltf.AccessorVec3,
			},
			{
				BufferView:    gltf.Index(2),
				ComponentType: gltf.ComponentFloat,
				Count:         uint32(len(buf.Colors)),
				Type:          gltf.AccessorVec3,
			},
			{
				BufferView:    gltf.Index(3),
				ComponentType: gltf.ComponentUint,
				Count:         uint32(len(indices)),
				Type:          gltf.AccessorScalar,
			},
		},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posLen},
			{Buffer: 0, ByteOffset: posLen, ByteLength: nrmLen},
			{Buffer: 0, ByteOffset: posLen + nrmLen, ByteLength: colLen},
			{Buffer: 0, ByteOffset: posLen + nrmLen + colLen, ByteLength: idxLen},
		},
		Buffers: []*gltf.Buffer{{ByteLength: uint32(total)}},
	}

	meta = models.Metadata{
		WallHeight:    params.WallHeight,
		WallThickness: params.WallThickness,
		NumVertices:   len(buf.Vertices),
		NumFaces:      len(buf.Faces),
		NumWalls:      numWalls,
		NumDoors:      numDoors,
		NumWindows:    numWindows,
	}

	return doc, bin.Bytes(), meta, nil
}

// flatten переводит тройки float64 в плоский float32-массив секции.
func flatten(vecs []models.Vec3) []float32 {
	out := make([]float32, 0, len(vecs)*3)
	for _, v := range vecs {
		out = append(out, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	return out
}

// bounds — покомпонентный min/max по уже сконвертированным float32 позициям,
// чтобы границы аксессора точно накрывали записанные данные.
func bounds(positions []float32) ([]float32, []float32) {
	minVals := []float32{positions[0], positions[1], positions[2]}
	maxVals := []float32{positions[0], positions[1], positions[2]}

	for i := 3; i < len(positions); i += 3 {
		for c := 0; c < 3; c++ {
			v := positions[i+c]
			if v < minVals[c] {
				minVals[c] = v
			}
			if v > maxVals[c] {
				maxVals[c] = v
			}
		}
	}
	return minVals, maxVals
}

func float32ptr(v float32) *float32 {
	return &v
}
