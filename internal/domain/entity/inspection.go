package entity

import "time"

// InspectionRecord — запись об инспекции для журнала проверок.
type InspectionRecord struct {
	ID          string    // идентификатор инспекции (uuid)
	CreatedAt   time.Time // момент инспекции
	Inspector   string    // имя контролёра
	Batch       string    // идентификатор партии
	Status      Status    // итоговый статус
	HealthScore float64   // оценка здоровья поверхности
	DefectCount int       // число значимых областей-дефектов
}
