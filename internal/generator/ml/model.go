package ml

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"floorplan3d/internal/generator/models"
	"floorplan3d/internal/generator/parser"
)

// ============================================================
// Model Adapter
// ============================================================

// ModelAdapter — клиент внешнего сервиса детекции (Mask R-CNN за HTTP).
// Модель для нас черный ящик, возвращающий классифицированные прямоугольники.
type ModelAdapter struct {
	inferenceURL string
	client       *http.Client
}

func NewModelAdapter(inferenceURL string) *ModelAdapter {
	return &ModelAdapter{
		inferenceURL: inferenceURL,
		client:       &http.Client{},
	}
}

// Detect отправляет изображение плана на inference и собирает DetectionResult.
// width/height — пиксельные размеры исходного изображения.
func (m *ModelAdapter) Detect(imageData []byte, filename string, width, height int) (*models.DetectionResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(imageData)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, m.inferenceURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Points  []models.Rectangle `json:"points"`
		Classes []models.ClassInfo `json:"classes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &models.DetectionResult{
		Points:      result.Points,
		Classes:     result.Classes,
		Width:       width,
		Height:      height,
		AverageDoor: parser.AverageDoorSpan(result.Points, result.Classes),
	}, nil
}

// CheckHealth проверяет доступность сервиса детекции.
func (m *ModelAdapter) CheckHealth() error {
	resp, err := m.client.Get(m.inferenceURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
