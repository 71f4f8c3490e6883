package geometry

import (
	"fmt"

	"floorplan3d/internal/generator/models"
)

// ============================================================
// Scale Resolver
// ============================================================

// footprintSize — сторона мирового footprint: любой план нормализуется
// в квадрат 10x10 мировых единиц, это не физический масштаб.
const footprintSize = 10.0

// Scale возвращает пиксельно-мировые коэффициенты (10/width, 10/height).
func Scale(width, height int) (float64, float64, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, &models.ValidationError{
			Reason: fmt.Sprintf("scale denominators must be positive, got %dx%d", width, height),
		}
	}
	return footprintSize / float64(width), footprintSize / float64(height), nil
}
