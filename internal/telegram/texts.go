package telegram

const (
	helpText = `🔞 <b>Мои команды:</b>

/random [число_1] [число_2] - <code>вывожу рандомное число</code>.
/daily - <code>пары сегодня</code>.
/vote - <code>голосование на пары</code>.
/week - <code>пары на текущей неделе</code>.
/notes - <code>все напоминания</code>.
/add_note - <code>новое напоминание</code>.`

	oopsText = "📛 <b>Упс :(</b>\n\nЧто-то пошло не по плану..."

	registeredText        = "✅ <b>Чат зарегистрирован!</b>"
	alreadyRegisteredText = "♿️ <b>Чат уже зарегистрирован.</b>"

	noNotesText       = "🕐 <b>Напоминаний пока что нет!</b>"
	notesMenuText     = "💬 <b>Все напоминания</b>:"
	noteNotFoundText  = "📛 <b>Запрашиваемая Вами заметка не найдена!</b>"
	askNoteTextText   = "💬 <b>Введите текст напоминания</b>:"
	askNoteLessonText = "🔻 <b>Теперь выберите пару, по которой хотите создать заметку:</b>"
	askNoteDateText   = "🕓 <b>А теперь напишите дату, до которой будет действовать напоминание:</b>\n\n" +
		"👁‍🗨 Пример: <code>01/12/2022 10:30</code>"
	badNoteDateText = "‼️ <b>Неверный формат даты!</b>\n\n" +
		"👁‍🗨 Пример: <code>01/12/2022 10:30</code>"
	noteCanceledText = "💤 <b>Добавление заметки отменено!</b>"
	noSuchLessonText = "‼️ <b>Такого урока не существует!</b>\n\nВыбирай заново:"

	noLessonsTodayText = "💤 <b>Сегодня нет пар...</b>"
	badRandomText      = "❤️ <b>Нужны два числа.</b>\n\nНапример: /random 1 100"

	votePollQuestion = "♿️ На какие пары идем?"
	voteAllOption    = "На все пары"
	voteNoneOption   = "Ни на какие"
)
