package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"floorplan3d/internal/generator/imaging"
	"floorplan3d/internal/generator/ml"
	"floorplan3d/internal/generator/models"
	"floorplan3d/internal/generator/repository"
	"floorplan3d/internal/generator/service"
)

// ============================================================
// Generator Handlers
// ============================================================

type Handler struct {
	model    *ml.ModelAdapter
	repo     *repository.Repository
	defaults models.Params
}

func NewHandler(model *ml.ModelAdapter, repo *repository.Repository, defaults models.Params) *Handler {
	return &Handler{
		model:    model,
		repo:     repo,
		defaults: defaults,
	}
}

// Generate3D обрабатывает POST /generate3d: изображение плана → детекция →
// 3D-модель в glTF 2.0 с бинарным буфером, встроенным как base64 data URI.
func (h *Handler) Generate3D(c fiber.Ctx) error {
	log.Printf("[GENERATE] Received request, Content-Length: %d", len(c.Body()))

	params, err := h.paramsFromForm(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	imageData, filename, err := readImageFile(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	width, height, err := imaging.Probe(imageData)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[GENERATE] Image %s: %dx%d", filename, width, height)

	det, err := h.model.Detect(imageData, filename, width, height)
	if err != nil {
		log.Printf("[GENERATE] Detection error: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": fmt.Sprintf("detection failed: %v", err)})
	}

	return h.respondGenerated(c, det, params, true)
}

// GenerateFromDetection обрабатывает POST /generate3d/detection:
// готовый detection JSON в теле, без обращения к модели.
func (h *Handler) GenerateFromDetection(c fiber.Ctx) error {
	log.Printf("[GENERATE] Received detection payload, Content-Length: %d", len(c.Body()))

	if len(c.Body()) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "body required"})
	}

	var det models.DetectionResult
	if err := json.Unmarshal(c.Body(), &det); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON payload"})
	}

	params, err := h.paramsFromQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return h.respondGenerated(c, &det, params, false)
}

// Detect обрабатывает POST /detect: только детекция, без геометрии.
func (h *Handler) Detect(c fiber.Ctx) error {
	log.Printf("[DETECT] Received request, Content-Length: %d", len(c.Body()))

	imageData, filename, err := readImageFile(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	width, height, err := imaging.Probe(imageData)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	det, err := h.model.Detect(imageData, filename, width, height)
	if err != nil {
		log.Printf("[DETECT] Detection error: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": fmt.Sprintf("detection failed: %v", err)})
	}

	return c.JSON(det)
}

// respondGenerated запускает конвейер и собирает ответ.
// Встраивание буфера в data URI — решение этого слоя, не экспортера.
func (h *Handler) respondGenerated(c fiber.Ctx, det *models.DetectionResult, params models.Params, echoDetection bool) error {
	generator := service.New(params)
	result, err := generator.Generate(det)
	if err != nil {
		log.Printf("[GENERATE] Pipeline error: %v", err)
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	result.Document.Buffers[0].URI = "data:application/octet-stream;base64," +
		base64.StdEncoding.EncodeToString(result.Buffer)

	id := uuid.NewString()
	if h.repo != nil {
		if err := h.repo.Save(context.Background(), id, result.Metadata); err != nil {
			log.Printf("[GENERATE] History save error: %v", err)
		}
	}

	log.Printf("[GENERATE] %s: %d vertices, %d faces", id, result.Metadata.NumVertices, result.Metadata.NumFaces)

	response := fiber.Map{
		"id":       id,
		"gltf":     result.Document,
		"metadata": result.Metadata,
	}
	if echoDetection {
		response["detection"] = det
	}
	return c.JSON(response)
}

// ============================================================
// Parameter parsing
// ============================================================

func (h *Handler) paramsFromForm(c fiber.Ctx) (models.Params, error) {
	return h.overrideParams(func(key string) string { return c.FormValue(key) })
}

func (h *Handler) paramsFromQuery(c fiber.Ctx) (models.Params, error) {
	return h.overrideParams(func(key string) string { return c.Query(key) })
}

func (h *Handler) overrideParams(get func(string) string) (models.Params, error) {
	params := h.defaults

	fields := []struct {
		key string
		dst *float64
	}{
		{"wall_height", &params.WallHeight},
		{"wall_thickness", &params.WallThickness},
		{"door_height", &params.DoorHeight},
		{"window_height", &params.WindowHeight},
		{"window_sill_height", &params.WindowSillHeight},
	}

	for _, f := range fields {
		raw := get(f.key)
		if raw == "" {
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, fmt.Errorf("invalid %s: %q", f.key, raw)
		}
		*f.dst = val
	}

	return params, nil
}

func readImageFile(c fiber.Ctx) ([]byte, string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, "", fmt.Errorf("image required in multipart/form-data")
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file")
	}
	return data, file.Filename, nil
}

func statusFromErr(err error) int {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return 400
	}
	return 500
}
