package service

import (
	"fmt"

	"github.com/qmuntal/gltf"

	"floorplan3d/internal/generator/exporter"
	"floorplan3d/internal/generator/geometry"
	"floorplan3d/internal/generator/models"
	"floorplan3d/internal/generator/parser"
)

// ============================================================
// Generator Service
// ============================================================

// Generator выполняет полный конвейер: разбор детекции → масштаб →
// построение геометрии → бинарный экспорт. Вызов синхронный, линейный
// по числу прямоугольников; каждый вызов строит свой MeshBuffer.
type Generator struct {
	params models.Params
}

func New(params models.Params) *Generator {
	return &Generator{params: params}
}

// Result — тройка из контракта экспортера: структурное описание,
// бинарный буфер и сводные метаданные.
type Result struct {
	Document *gltf.Document
	Buffer   []byte
	Metadata models.Metadata
}

// Generate строит 3D-модель из результата детекции.
func (g *Generator) Generate(det *models.DetectionResult) (*Result, error) {
	part, err := parser.Parse(det)
	if err != nil {
		return nil, fmt.Errorf("parse detection: %w", err)
	}

	sx, sy, err := geometry.Scale(part.Width, part.Height)
	if err != nil {
		return nil, fmt.Errorf("resolve scale: %w", err)
	}

	// Порядок эмиссии фиксирован: пол, стены, двери, окна, потолок.
	b := geometry.NewBuilder(g.params)
	b.AddFloor(part.Width, part.Height, sx, sy)
	b.AddWalls(part.Walls, part.Doors, part.Windows, sx, sy)
	b.AddDoors(part.Doors, sx, sy)
	b.AddWindows(part.Windows, sx, sy)
	b.AddCeiling(part.Width, part.Height, sx, sy)

	doc, bin, meta, err := exporter.Export(b.Buffer(), g.params,
		len(part.Walls), len(part.Doors), len(part.Windows))
	if err != nil {
		return nil, fmt.Errorf("export gltf: %w", err)
	}

	return &Result{
		Document: doc,
		Buffer:   bin,
		Metadata: meta,
	}, nil
}
