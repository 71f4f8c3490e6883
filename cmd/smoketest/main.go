package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================
// Smoke Test CLI
// ============================================================

// Ручная проверка работающего сервиса: отправляет план (изображение или
// готовый detection JSON), валидирует glTF-ответ и сохраняет его в файл.

const dataURIPrefix = "data:application/octet-stream;base64,"

type gltfEnvelope struct {
	Buffers []struct {
		ByteLength uint32 `json:"byteLength"`
		URI        string `json:"uri"`
	} `json:"buffers"`
	BufferViews []struct {
		ByteOffset uint32 `json:"byteOffset"`
		ByteLength uint32 `json:"byteLength"`
	} `json:"bufferViews"`
}

type response struct {
	ID       string          `json:"id"`
	GLTF     json.RawMessage `json:"gltf"`
	Metadata struct {
		WallHeight    float64 `json:"wall_height"`
		WallThickness float64 `json:"wall_thickness"`
		NumVertices   int     `json:"num_vertices"`
		NumFaces      int     `json:"num_faces"`
		NumWalls      int     `json:"num_walls"`
		NumDoors      int     `json:"num_doors"`
		NumWindows    int     `json:"num_windows"`
	} `json:"metadata"`
	Error string `json:"error"`
}

func main() {
	addr := flag.String("addr", "http://localhost:3000", "адрес сервиса")
	image := flag.String("image", "", "путь к изображению плана (multipart → /generate3d)")
	detection := flag.String("detection", "", "путь к detection JSON (→ /generate3d/detection)")
	out := flag.String("out", "test_output.gltf", "куда сохранить glTF")
	flag.Parse()

	var resp *http.Response
	var err error

	switch {
	case *image != "":
		resp, err = postImage(*addr+"/generate3d", *image)
	case *detection != "":
		resp, err = postDetection(*addr+"/generate3d/detection", *detection)
	default:
		resp, err = postDetection(*addr+"/generate3d/detection", "")
	}
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		log.Fatalf("decode response: %v", err)
	}

	if err := validateGLTF(r.GLTF); err != nil {
		log.Fatalf("gltf validation failed: %v", err)
	}

	if err := os.WriteFile(*out, r.GLTF, 0o644); err != nil {
		log.Fatalf("save gltf: %v", err)
	}

	fmt.Println("generation:", r.ID)
	fmt.Printf("wall height: %.2fm, thickness: %.2fm\n", r.Metadata.WallHeight, r.Metadata.WallThickness)
	fmt.Printf("vertices: %d, faces: %d\n", r.Metadata.NumVertices, r.Metadata.NumFaces)
	fmt.Printf("walls: %d, doors: %d, windows: %d\n", r.Metadata.NumWalls, r.Metadata.NumDoors, r.Metadata.NumWindows)
	fmt.Println("gltf saved to:", *out)
}

func postImage(url, path string) (*http.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return http.DefaultClient.Do(req)
}

func postDetection(url, path string) (*http.Response, error) {
	payload := []byte(cannedDetection)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read detection: %w", err)
		}
		payload = data
	}
	return http.Post(url, "application/json", bytes.NewReader(payload))
}

// validateGLTF проверяет самосогласованность бинарного контейнера:
// сумма длин bufferViews равна длине буфера, data URI декодируется ровно в нее.
func validateGLTF(raw json.RawMessage) error {
	var env gltfEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	if len(env.Buffers) != 1 {
		return fmt.Errorf("expected 1 buffer, got %d", len(env.Buffers))
	}
	if len(env.BufferViews) != 4 {
		return fmt.Errorf("expected 4 bufferViews, got %d", len(env.BufferViews))
	}

	var sum uint32
	var offset uint32
	for i, view := range env.BufferViews {
		if view.ByteOffset != offset {
			return fmt.Errorf("bufferView %d offset %d, expected %d", i, view.ByteOffset, offset)
		}
		offset += view.ByteLength
		sum += view.ByteLength
	}
	if sum != env.Buffers[0].ByteLength {
		return fmt.Errorf("views sum %d != buffer byteLength %d", sum, env.Buffers[0].ByteLength)
	}

	uri := env.Buffers[0].URI
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return fmt.Errorf("buffer uri is not an embedded data URI")
	}
	bin, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, dataURIPrefix))
	if err != nil {
		return fmt.Errorf("decode buffer: %w", err)
	}
	if uint32(len(bin)) != env.Buffers[0].ByteLength {
		return fmt.Errorf("decoded %d bytes, declared %d", len(bin), env.Buffers[0].ByteLength)
	}
	return nil
}

// Простейший план: четыре стены по периметру, дверь снизу, окно справа.
const cannedDetection = `{
  "Width": 500,
  "Height": 500,
  "points": [
    {"x1": 0, "y1": 0, "x2": 500, "y2": 10},
    {"x1": 0, "y1": 490, "x2": 500, "y2": 500},
    {"x1": 0, "y1": 0, "x2": 10, "y2": 500},
    {"x1": 490, "y1": 0, "x2": 500, "y2": 500},
    {"x1": 200, "y1": 490, "x2": 280, "y2": 500},
    {"x1": 490, "y1": 150, "x2": 500, "y2": 250}
  ],
  "classes": [
    {"name": "wall"},
    {"name": "wall"},
    {"name": "wall"},
    {"name": "wall"},
    {"name": "door"},
    {"name": "window"}
  ]
}`
