package models

// ============================================================
// Detection elements
// ============================================================

// ElementClass — закрытый набор классов, которые понимает генератор.
type ElementClass int

const (
	ClassUnknown ElementClass = iota
	ClassWall
	ClassDoor
	ClassWindow
)

// ParseClass переводит метку детектора в ElementClass.
// Неизвестные метки возвращают (ClassUnknown, false) — caller решает, что с ними делать.
func ParseClass(name string) (ElementClass, bool) {
	switch name {
	case "wall":
		return ClassWall, true
	case "door":
		return ClassDoor, true
	case "window":
		return ClassWindow, true
	}
	return ClassUnknown, false
}

func (c ElementClass) String() string {
	switch c {
	case ClassWall:
		return "wall"
	case ClassDoor:
		return "door"
	case ClassWindow:
		return "window"
	}
	return "unknown"
}

// Rectangle — axis-aligned bounding box в пиксельных координатах исходного плана.
type Rectangle struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (r Rectangle) Width() float64 {
	if r.X2 > r.X1 {
		return r.X2 - r.X1
	}
	return r.X1 - r.X2
}

func (r Rectangle) Height() float64 {
	if r.Y2 > r.Y1 {
		return r.Y2 - r.Y1
	}
	return r.Y1 - r.Y2
}

func (r Rectangle) Center() (float64, float64) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Horizontal — элемент горизонтальный, если ширина строго больше высоты.
// Это правило ориентации используется всей геометрией.
func (r Rectangle) Horizontal() bool {
	return r.Width() > r.Height()
}

type ClassInfo struct {
	Name string `json:"name"`
}

// DetectionResult — ответ детектора: points и classes позиционно выровнены.
// Имена полей повторяют wire-формат detection API (Width/Height с большой буквы).
type DetectionResult struct {
	Points      []Rectangle `json:"points"`
	Classes     []ClassInfo `json:"classes"`
	Width       int         `json:"Width"`
	Height      int         `json:"Height"`
	AverageDoor float64     `json:"averageDoor"`
}

// ============================================================
// Mesh accumulator
// ============================================================

type Vec3 [3]float64

// MeshBuffer — четыре параллельных массива геометрии.
// Инвариант: len(Vertices) == len(Normals) == len(Colors),
// каждый индекс в Faces < len(Vertices). Вершины никогда не переиспользуются
// между примитивами: каждый элемент добавляет свой блок.
// Буфер создается заново на каждый вызов генерации и не разделяется между ними.
type MeshBuffer struct {
	Vertices []Vec3
	Normals  []Vec3
	Colors   []Vec3
	Faces    [][3]uint32
}

func NewMeshBuffer() *MeshBuffer {
	return &MeshBuffer{}
}

// ============================================================
// Generation parameters & metadata
// ============================================================

// Params — архитектурные параметры одного вызова генерации (в метрах).
// Read-only на время вызова.
type Params struct {
	WallHeight       float64
	WallThickness    float64
	DoorHeight       float64
	WindowHeight     float64
	WindowSillHeight float64
}

func DefaultParams() Params {
	return Params{
		WallHeight:       3.0,
		WallThickness:    0.15,
		DoorHeight:       2.1,
		WindowHeight:     1.2,
		WindowSillHeight: 0.9,
	}
}

type Metadata struct {
	WallHeight    float64 `json:"wall_height"`
	WallThickness float64 `json:"wall_thickness"`
	NumVertices   int     `json:"num_vertices"`
	NumFaces      int     `json:"num_faces"`
	NumWalls      int     `json:"num_walls"`
	NumDoors      int     `json:"num_doors"`
	NumWindows    int     `json:"num_windows"`
}
