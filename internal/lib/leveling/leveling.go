// Package leveling вычисляет уровень пользователя по накопленному опыту.
//
// Таблица порогов определена ровно один раз и используется всеми
// потребителями: профилем, ответом о завершении урока и рейтингом.
// Повторно встраивать таблицу в других местах запрещено.
package leveling

// thresholds — возрастающая таблица суммарного опыта, необходимого
// для каждого уровня. Индекс i хранит порог уровня i+1; thresholds[0] = 0,
// поэтому любой пользователь имеет как минимум уровень 1.
var thresholds = [...]int{
	0, 200, 500, 900, 1400,
	2000, 2700, 3500, 4400, 5400,
	6500, 7700, 9000, 10400, 11900,
	13500, 15200, 17000, 18900, 20900,
	23000, 25200, 27500, 29900, 32400,
	35000, 37700, 40500, 43400, 46400,
	49500, 52700, 56000, 59400, 62900,
	66500,
}

// MaxLevel — максимальный достижимый уровень, равен длине таблицы порогов.
const MaxLevel = len(thresholds)

// Progress описывает положение пользователя внутри шкалы уровней.
type Progress struct {
	Level          int // Текущий уровень, от 1 до MaxLevel
	XPIntoLevel    int // Опыт, набранный сверх порога текущего уровня
	XPForNextLevel int // Ширина текущего уровня, 0 на максимальном уровне
	XPToNext       int // Остаток до следующего уровня, 0 на максимальном уровне
}

// Level возвращает уровень и прогресс внутри него для заданного
// суммарного опыта. Функция тотальна: отрицательный опыт трактуется
// как ноль, уровень никогда не выходит за пределы [1, MaxLevel].
func Level(totalXP int) Progress {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] > totalXP {
			break
		}
		level = i + 1
	}

	p := Progress{
		Level:       level,
		XPIntoLevel: totalXP - thresholds[level-1],
	}
	if level < MaxLevel {
		p.XPForNextLevel = thresholds[level] - thresholds[level-1]
		p.XPToNext = thresholds[level] - totalXP
	}
	return p
}

// Threshold возвращает порог суммарного опыта для уровня level.
// Значения вне диапазона прижимаются к границам таблицы.
func Threshold(level int) int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return thresholds[level-1]
}
