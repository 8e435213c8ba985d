package reconcile_claims

import "time"

// Request параметры сверки
type Request struct {
	DryRun bool // Только посчитать, ничего не менять
}

// Config настройки сверки
type Config struct {
	// Заявка без обратной ссылки моложе этого срока считается записью в процессе создания
	OrphanGrace time.Duration
}

// Report итог сверки
type Report struct {
	Created  int // Восстановлено заявок для записей без заявки
	Attached int // Проставлено обратных ссылок
	Skipped  int // Записи, чей слот уже занят другой заявкой, и демо-записи
	Released int // Освобождено заявок без записи
	Errors   int // Операции, завершившиеся ошибкой
}
