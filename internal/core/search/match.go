// Package search - фильтрация, пагинация и подсказки над набором объявлений.
// Хранилища, которые не умеют фильтровать сами, прогоняют через него весь набор.
package search

import "strings"

// folder приводит строки к нижнему регистру посимвольно, как lower() в Postgres:
// без раскрытия в несколько символов (ß остается ß), иначе ILIKE в SQL и
// проверка в Go разошлись бы на одних и тех же данных.
type folder struct{}

func newFolder() *folder {
	return &folder{}
}

func (f *folder) fold(s string) string {
	return strings.ToLower(s)
}

// contains - регистронезависимое вхождение подстроки
func (f *folder) contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(f.fold(haystack), f.fold(needle))
}

// ContainsFold - то же для разовых проверок снаружи пакета
func ContainsFold(haystack, needle string) bool {
	return newFolder().contains(haystack, needle)
}
