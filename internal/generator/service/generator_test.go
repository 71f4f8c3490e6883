package service

import (
	"bytes"
	"errors"
	"testing"

	"floorplan3d/internal/generator/models"
)

func sampleDetection() *models.DetectionResult {
	return &models.DetectionResult{
		Width:  500,
		Height: 500,
		Points: []models.Rectangle{
			{X1: 0, Y1: 0, X2: 500, Y2: 10},
			{X1: 0, Y1: 490, X2: 500, Y2: 500},
			{X1: 0, Y1: 0, X2: 10, Y2: 500},
			{X1: 490, Y1: 0, X2: 500, Y2: 500},
			{X1: 200, Y1: 490, X2: 280, Y2: 500},
			{X1: 490, Y1: 150, X2: 500, Y2: 250},
		},
		Classes: []models.ClassInfo{
			{Name: "wall"}, {Name: "wall"}, {Name: "wall"}, {Name: "wall"},
			{Name: "door"}, {Name: "window"},
		},
	}
}

func TestGenerate(t *testing.T) {
	g := New(models.DefaultParams())
	result, err := g.Generate(sampleDetection())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	meta := result.Metadata
	if meta.NumWalls != 4 || meta.NumDoors != 1 || meta.NumWindows != 1 {
		t.Fatalf("element counts mismatch: %+v", meta)
	}

	// пол+потолок 8, 4 стены по 8, дверь и окно по 4
	if meta.NumVertices != 8+4*8+4+4 {
		t.Fatalf("vertex count %d", meta.NumVertices)
	}
	// пол+потолок 4, 4 стены по 10, дверь и окно по 4
	if meta.NumFaces != 4+4*10+4+4 {
		t.Fatalf("face count %d", meta.NumFaces)
	}

	if meta.WallHeight != 3.0 || meta.WallThickness != 0.15 {
		t.Fatalf("params not carried: %+v", meta)
	}
	if len(result.Buffer) == 0 || result.Document == nil {
		t.Fatal("incomplete result")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := New(models.DefaultParams())

	first, err := g.Generate(sampleDetection())
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := g.Generate(sampleDetection())
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	if !bytes.Equal(first.Buffer, second.Buffer) {
		t.Fatal("identical input produced different binary buffers")
	}
}

func TestGenerateValidation(t *testing.T) {
	g := New(models.DefaultParams())

	det := sampleDetection()
	det.Classes = det.Classes[:2]

	result, err := g.Generate(det)
	if result != nil {
		t.Fatal("expected no result on invalid input")
	}

	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestGenerateCustomParams(t *testing.T) {
	params := models.DefaultParams()
	params.WallHeight = 2.5
	params.WallThickness = 0.2

	g := New(params)
	result, err := g.Generate(sampleDetection())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Metadata.WallHeight != 2.5 || result.Metadata.WallThickness != 0.2 {
		t.Fatalf("custom params not applied: %+v", result.Metadata)
	}
}
