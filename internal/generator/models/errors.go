package models

// ============================================================
// Error taxonomy
// ============================================================

// ValidationError — некорректный вход: рассинхрон points/classes,
// неположительные размеры изображения, нулевой знаменатель масштаба.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// GeometryError — вырожденный прямоугольник, который дал бы примитив
// нулевой площади. Политика генератора: элемент пропускается, ошибка
// остается информационной и наружу не уходит.
type GeometryError struct {
	Index  int
	Reason string
}

func (e *GeometryError) Error() string {
	return "geometry: " + e.Reason
}

// SerializationError — переполнение при расчете смещений/длин буфера.
// Экспорт либо успешен целиком, либо не возвращает ни байта.
type SerializationError struct {
	Reason string
}

func (e *SerializationError) Error() string {
	return "serialization: " + e.Reason
}
