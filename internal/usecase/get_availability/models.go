package get_availability

// Request модель запроса доступности на одну дату
type Request struct {
	Department string // Название отделения
	Date       string // Дата YYYY-MM-DD
	UserID     string // Пользователь (опционально): его собственные записи скрывают слоты
}

// BatchRequest модель запроса доступности на несколько дат
type BatchRequest struct {
	Department string
	Dates      []string // Не больше domain.MaxBatchDates
	UserID     string
}

// Config настройки расчета доступности
type Config struct {
	DemoSlots bool // Демо-правило для отделений без врачей
}
