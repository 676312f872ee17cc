package service

// Outcome итог решения публикатора по одному посту
type Outcome int

const (
	// OutcomeFailed публикация не состоялась из-за ошибки конфигурации, хранилища или транспорта
	OutcomeFailed Outcome = iota
	// OutcomeBootstrapped метки не было: она записана, ничего не опубликовано
	OutcomeBootstrapped
	// OutcomeSkipped пост не новее метки
	OutcomeSkipped
	// OutcomePublished инстанс ответил 200
	OutcomePublished
	// OutcomeRejected инстанс ответил не 200
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBootstrapped:
		return "bootstrapped"
	case OutcomeSkipped:
		return "skipped"
	case OutcomePublished:
		return "published"
	case OutcomeRejected:
		return "rejected"
	default:
		return "failed"
	}
}

// Succeeded истинно только для опубликованного поста
func (o Outcome) Succeeded() bool {
	return o == OutcomePublished
}

// Neutral истинно, когда нового поста не было
func (o Outcome) Neutral() bool {
	return o == OutcomeSkipped
}
