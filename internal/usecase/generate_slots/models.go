package generate_slots

import "time"

// Request модель запроса на генерацию слотов
type Request struct {
	WeekStart time.Time // Первый день окна; нулевое значение - следующий понедельник
}

// Response итог генерации
type Response struct {
	From     time.Time // Первый день окна
	To       time.Time // Последний день окна (включительно)
	Services int       // Сколько активных услуг обработано
	Created  int       // Создано новых слотов
	Existing int       // Слотов уже было
	Failed   int       // Ошибок на отдельных элементах
}

// Total количество обработанных элементов (услуга, дата, смена)
func (r *Response) Total() int {
	return r.Created + r.Existing + r.Failed
}
