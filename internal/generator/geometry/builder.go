package geometry

import (
	"log"

	"floorplan3d/internal/generator/models"
)

// ============================================================
// Mesh Builder
// ============================================================

var (
	floorColor   = models.Vec3{0.6, 0.6, 0.6}
	ceilingColor = models.Vec3{0.95, 0.95, 0.95}
	wallColor    = models.Vec3{0.95, 0.95, 0.95}
	doorColor    = models.Vec3{0.4, 0.25, 0.1}
	windowColor  = models.Vec3{0.3, 0.6, 0.9}
)

// Индексные таблицы призмы стены: передняя грань 0..3, задняя 4..7.
// Нижней грани нет — пол считается совпадающим.
var prismFaces = [10][3]uint32{
	{0, 1, 2}, {0, 2, 3}, // front
	{5, 4, 7}, {5, 7, 6}, // back
	{4, 0, 3}, {4, 3, 7}, // left
	{1, 5, 6}, {1, 6, 2}, // right
	{3, 2, 6}, {3, 6, 7}, // top
}

// Панель двери/окна: две лицевых грани + две с обратным порядком обхода,
// чтобы панель была видна с обеих сторон.
var panelFaces = [4][3]uint32{
	{0, 1, 2}, {0, 2, 3},
	{1, 0, 3}, {1, 3, 2},
}

// Builder аккумулирует геометрию одного вызова генерации в свой MeshBuffer.
// Не потокобезопасен: каждый вызов генерации строит свой Builder.
type Builder struct {
	params  models.Params
	buf     *models.MeshBuffer
	skipped int
}

func NewBuilder(params models.Params) *Builder {
	return &Builder{
		params: params,
		buf:    models.NewMeshBuffer(),
	}
}

// Buffer возвращает накопленный буфер. После завершения генерации
// он считается неизменяемым.
func (b *Builder) Buffer() *models.MeshBuffer {
	return b.buf
}

// Skipped — сколько вырожденных элементов было пропущено.
func (b *Builder) Skipped() int {
	return b.skipped
}

// ============================================================
// Floor & ceiling
// ============================================================

// AddFloor добавляет квад пола на y=0, нормаль (0,1,0), обход CCW.
func (b *Builder) AddFloor(width, height int, sx, sy float64) {
	base := uint32(len(b.buf.Vertices))
	w := float64(width) * sx
	h := float64(height) * sy

	b.buf.Vertices = append(b.buf.Vertices,
		models.Vec3{0, 0, 0},
		models.Vec3{w, 0, 0},
		models.Vec3{w, 0, h},
		models.Vec3{0, 0, h},
	)
	b.buf.Faces = append(b.buf.Faces,
		[3]uint32{base, base + 1, base + 2},
		[3]uint32{base, base + 2, base + 3},
	)
	for i := 0; i < 4; i++ {
		b.buf.Colors = append(b.buf.Colors, floorColor)
		b.buf.Normals = append(b.buf.Normals, models.Vec3{0, 1, 0})
	}
}

// AddCeiling добавляет квад потолка на y=WallHeight с обратным обходом.
func (b *Builder) AddCeiling(width, height int, sx, sy float64) {
	base := uint32(len(b.buf.Vertices))
	w := float64(width) * sx
	h := float64(height) * sy
	y := b.params.WallHeight

	b.buf.Vertices = append(b.buf.Vertices,
		models.Vec3{0, y, 0},
		models.Vec3{w, y, 0},
		models.Vec3{w, y, h},
		models.Vec3{0, y, h},
	)
	b.buf.Faces = append(b.buf.Faces,
		[3]uint32{base, base + 2, base + 1},
		[3]uint32{base, base + 3, base + 2},
	)
	for i := 0; i < 4; i++ {
		b.buf.Colors = append(b.buf.Colors, ceilingColor)
		b.buf.Normals = append(b.buf.Normals, models.Vec3{0, -1, 0})
	}
}

// ============================================================
// Walls
// ============================================================

// AddWalls строит призму для каждой стены. Пересечения с проемами считаются
// только для информации: вырезание (boolean subtraction) не выполняется,
// сплошная стена и панель проема сосуществуют.
func (b *Builder) AddWalls(walls, doors, windows []models.Rectangle, sx, sy float64) {
	for i, wall := range walls {
		if degenerate(wall) {
			b.skip(i, "wall")
			continue
		}

		overlapping := 0
		for _, door := range doors {
			if Overlaps(wall, door) {
				overlapping++
			}
		}
		for _, window := range windows {
			if Overlaps(wall, window) {
				overlapping++
			}
		}
		if overlapping > 0 {
			log.Printf("[GEOMETRY] wall %d overlaps %d openings (kept solid)", i, overlapping)
		}

		x1 := wall.X1 * sx
		z1 := wall.Y1 * sy
		x2 := wall.X2 * sx
		z2 := wall.Y2 * sy

		if wall.Horizontal() {
			b.wallAlongX(x1, z1, x2, z2)
		} else {
			b.wallAlongZ(x1, z1, x2, z2)
		}
	}
}

// wallAlongX — стена вдоль X, толщина по Z.
func (b *Builder) wallAlongX(x1, z1, x2, z2 float64) {
	h := b.params.WallHeight
	zc := (z1 + z2) / 2
	zf := zc - b.params.WallThickness/2
	zb := zc + b.params.WallThickness/2

	verts := [8]models.Vec3{
		{x1, 0, zf}, {x2, 0, zf}, {x2, h, zf}, {x1, h, zf},
		{x1, 0, zb}, {x2, 0, zb}, {x2, h, zb}, {x1, h, zb},
	}
	normals := [8]models.Vec3{
		{0, 0, -1}, {0, 0, -1}, {0, 0, -1}, {0, 0, -1},
		{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
	}
	b.appendPrism(verts, normals)
}

// wallAlongZ — стена вдоль Z, толщина по X.
func (b *Builder) wallAlongZ(x1, z1, x2, z2 float64) {
	h := b.params.WallHeight
	xc := (x1 + x2) / 2
	xf := xc - b.params.WallThickness/2
	xb := xc + b.params.WallThickness/2

	verts := [8]models.Vec3{
		{xf, 0, z1}, {xf, 0, z2}, {xf, h, z2}, {xf, h, z1},
		{xb, 0, z1}, {xb, 0, z2}, {xb, h, z2}, {xb, h, z1},
	}
	normals := [8]models.Vec3{
		{-1, 0, 0}, {-1, 0, 0}, {-1, 0, 0}, {-1, 0, 0},
		{1, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 0, 0},
	}
	b.appendPrism(verts, normals)
}

func (b *Builder) appendPrism(verts, normals [8]models.Vec3) {
	base := uint32(len(b.buf.Vertices))

	b.buf.Vertices = append(b.buf.Vertices, verts[:]...)
	b.buf.Normals = append(b.buf.Normals, normals[:]...)
	for i := 0; i < 8; i++ {
		b.buf.Colors = append(b.buf.Colors, wallColor)
	}
	for _, f := range prismFaces {
		b.buf.Faces = append(b.buf.Faces, [3]uint32{base + f[0], base + f[1], base + f[2]})
	}
}

// ============================================================
// Doors & windows
// ============================================================

// AddDoors добавляет двустороннюю панель на каждую дверь: y от 0 до DoorHeight.
func (b *Builder) AddDoors(doors []models.Rectangle, sx, sy float64) {
	for i, door := range doors {
		if degenerate(door) {
			b.skip(i, "door")
			continue
		}
		b.addPanel(door, 0, b.params.DoorHeight, doorColor, sx, sy)
	}
}

// AddWindows добавляет панель окна: y от подоконника до подоконник+высота.
func (b *Builder) AddWindows(windows []models.Rectangle, sx, sy float64) {
	yBottom := b.params.WindowSillHeight
	yTop := b.params.WindowSillHeight + b.params.WindowHeight
	for i, window := range windows {
		if degenerate(window) {
			b.skip(i, "window")
			continue
		}
		b.addPanel(window, yBottom, yTop, windowColor, sx, sy)
	}
}

func (b *Builder) addPanel(r models.Rectangle, yBottom, yTop float64, color models.Vec3, sx, sy float64) {
	base := uint32(len(b.buf.Vertices))

	x1 := r.X1 * sx
	z1 := r.Y1 * sy
	x2 := r.X2 * sx
	z2 := r.Y2 * sy

	var verts [4]models.Vec3
	var normal models.Vec3

	if r.Horizontal() {
		// Панель вдоль X на горизонтальной осевой линии проема
		zp := (z1 + z2) / 2
		verts = [4]models.Vec3{
			{x1, yBottom, zp}, {x2, yBottom, zp},
			{x2, yTop, zp}, {x1, yTop, zp},
		}
		normal = models.Vec3{0, 0, 1}
	} else {
		xp := (x1 + x2) / 2
		verts = [4]models.Vec3{
			{xp, yBottom, z1}, {xp, yBottom, z2},
			{xp, yTop, z2}, {xp, yTop, z1},
		}
		normal = models.Vec3{1, 0, 0}
	}

	b.buf.Vertices = append(b.buf.Vertices, verts[:]...)
	for i := 0; i < 4; i++ {
		b.buf.Colors = append(b.buf.Colors, color)
		b.buf.Normals = append(b.buf.Normals, normal)
	}
	for _, f := range panelFaces {
		b.buf.Faces = append(b.buf.Faces, [3]uint32{base + f[0], base + f[1], base + f[2]})
	}
}

// ============================================================
// Opening classifier
// ============================================================

// Overlaps — пересечение двух AABB в пиксельном пространстве плана.
func Overlaps(a, o models.Rectangle) bool {
	return !(o.X2 < a.X1 || o.X1 > a.X2 || o.Y2 < a.Y1 || o.Y1 > a.Y2)
}

// ============================================================
// Degenerate elements
// ============================================================

// degenerate — прямоугольник, который дал бы примитив нулевой площади.
// Выбранная ось всегда длинная, поэтому площадь нулевая только когда
// оба измерения нулевые.
func degenerate(r models.Rectangle) bool {
	return r.Width() == 0 && r.Height() == 0
}

func (b *Builder) skip(index int, kind string) {
	b.skipped++
	err := &models.GeometryError{Index: index, Reason: "degenerate " + kind + " rectangle, skipped"}
	log.Printf("[GEOMETRY] %v", err)
}
