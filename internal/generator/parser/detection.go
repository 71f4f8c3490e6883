package parser

import (
	"fmt"
	"log"

	"floorplan3d/internal/generator/models"
)

// ============================================================
// Detection Parser
// ============================================================

// Partition — результат разбора детекции: элементы, разложенные по классам.
type Partition struct {
	Walls   []models.Rectangle
	Doors   []models.Rectangle
	Windows []models.Rectangle
	Width   int
	Height  int
	Dropped int // элементы с нераспознанной меткой
}

// Parse валидирует DetectionResult и раскладывает элементы по классам.
// Нераспознанные метки отбрасываются и считаются (политика drop-and-count).
func Parse(det *models.DetectionResult) (*Partition, error) {
	if det == nil {
		return nil, &models.ValidationError{Reason: "detection result is nil"}
	}
	if len(det.Points) != len(det.Classes) {
		return nil, &models.ValidationError{
			Reason: fmt.Sprintf("points/classes length mismatch: %d != %d", len(det.Points), len(det.Classes)),
		}
	}
	if det.Width <= 0 || det.Height <= 0 {
		return nil, &models.ValidationError{
			Reason: fmt.Sprintf("image dimensions must be positive, got %dx%d", det.Width, det.Height),
		}
	}

	part := &Partition{
		Width:  det.Width,
		Height: det.Height,
	}

	for i, rect := range det.Points {
		class, ok := models.ParseClass(det.Classes[i].Name)
		if !ok {
			part.Dropped++
			continue
		}
		switch class {
		case models.ClassWall:
			part.Walls = append(part.Walls, rect)
		case models.ClassDoor:
			part.Doors = append(part.Doors, rect)
		case models.ClassWindow:
			part.Windows = append(part.Windows, rect)
		}
	}

	if part.Dropped > 0 {
		log.Printf("[PARSER] dropped %d elements with unrecognized class labels", part.Dropped)
	}

	return part, nil
}

// AverageDoorSpan — средняя длина двери по длинной стороне (в пикселях).
// Возвращает 0, если дверей нет.
func AverageDoorSpan(points []models.Rectangle, classes []models.ClassInfo) float64 {
	var total float64
	var count int

	for i, rect := range points {
		if i >= len(classes) {
			break
		}
		if class, ok := models.ParseClass(classes[i].Name); !ok || class != models.ClassDoor {
			continue
		}
		count++
		if rect.Height() > rect.Width() {
			total += rect.Height()
		} else {
			total += rect.Width()
		}
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}
