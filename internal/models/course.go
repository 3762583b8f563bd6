package models

// Course представляет курс каталога.
type Course struct {
	Code        string // Уникальный код курса, например "astro-camp"
	Title       string // Название курса
	Description string // Краткое описание для каталога
	Price       int    // Цена курса в центах
	IsPublished bool   // Опубликован ли курс в каталоге
}

// Section представляет упорядоченный раздел курса.
type Section struct {
	ID         int    // Идентификатор раздела
	CourseCode string // Код курса, к которому относится раздел
	Title      string // Название раздела
	OrderIndex int    // Позиция раздела внутри курса
}

// Unit представляет единицу контента (урок) внутри раздела курса.
// Поле IsFreePreview открывает урок без покупки курса.
type Unit struct {
	ID            int    // Идентификатор урока
	CourseCode    string // Код курса
	SectionID     int    // Раздел, к которому относится урок
	Title         string // Название урока
	IsFreePreview bool   // Доступен ли урок без владения курсом
	XPReward      int    // Опыт, начисляемый за завершение урока
	OrderIndex    int    // Позиция урока внутри раздела
}
