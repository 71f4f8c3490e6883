package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"floorplan3d/internal/generator/models"
)

const detectionPayload = `{
  "Width": 500,
  "Height": 500,
  "points": [
    {"x1": 0, "y1": 0, "x2": 500, "y2": 10},
    {"x1": 200, "y1": 0, "x2": 280, "y2": 10}
  ],
  "classes": [{"name": "wall"}, {"name": "door"}]
}`

func newTestApp() *fiber.App {
	h := NewHandler(nil, nil, models.DefaultParams())
	app := fiber.New()
	app.Post("/generate3d/detection", h.GenerateFromDetection)
	return app
}

func TestGenerateFromDetection(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/generate3d/detection", strings.NewReader(detectionPayload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		ID       string `json:"id"`
		Metadata struct {
			NumWalls    int `json:"num_walls"`
			NumDoors    int `json:"num_doors"`
			NumVertices int `json:"num_vertices"`
		} `json:"metadata"`
		GLTF struct {
			Buffers []struct {
				URI string `json:"uri"`
			} `json:"buffers"`
		} `json:"gltf"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if out.ID == "" {
		t.Fatal("missing generation id")
	}
	if out.Metadata.NumWalls != 1 || out.Metadata.NumDoors != 1 {
		t.Fatalf("metadata mismatch: %+v", out.Metadata)
	}
	if len(out.GLTF.Buffers) != 1 || !strings.HasPrefix(out.GLTF.Buffers[0].URI, "data:application/octet-stream;base64,") {
		t.Fatal("buffer is not embedded as data URI")
	}
}

func TestGenerateFromDetectionParamsOverride(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/generate3d/detection?wall_height=2.5", strings.NewReader(detectionPayload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Metadata struct {
			WallHeight float64 `json:"wall_height"`
		} `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Metadata.WallHeight != 2.5 {
		t.Fatalf("wall_height override not applied: %v", out.Metadata.WallHeight)
	}
}

func TestGenerateFromDetectionMismatch(t *testing.T) {
	app := newTestApp()

	payload := `{"Width": 500, "Height": 500, "points": [{"x1":0,"y1":0,"x2":10,"y2":10}], "classes": []}`
	req := httptest.NewRequest("POST", "/generate3d/detection", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 on mismatched lists, got %d", resp.StatusCode)
	}
}

func TestGenerateFromDetectionEmptyBody(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/generate3d/detection", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 on empty body, got %d", resp.StatusCode)
	}
}
