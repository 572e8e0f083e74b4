package ai

// targetQueryCount is how many search queries the generation prompt asks for.
const targetQueryCount = 20

const chatSystemPrompt = "Ты — полезный ассистент бота для генерации документов. " +
	"Ты помогаешь фрилансерам и малому бизнесу создавать договоры, " +
	"счета и акты. Отвечай на русском языке. Будь кратким и профессиональным. " +
	"Если пользователь спрашивает о создании документа, предложи использовать " +
	"команду /newdoc."

const requisitePrompt = "Ты — эксперт по анализу карточек предприятий и реквизитов организаций.\n" +
	"Тебе дан текст документа с реквизитами. Извлеки следующие поля:\n\n" +
	"- company_name: Полное наименование организации\n" +
	"- legal_address: Юридический адрес\n" +
	"- phone_email: Телефон / электронная почта / сайт (всё что есть)\n" +
	"- ogrn: ОГРН\n" +
	"- inn: ИНН\n" +
	"- kpp: КПП\n" +
	"- bank_account: Расчётный счёт\n" +
	"- corr_account: Корреспондентский счёт\n" +
	"- bik: БИК\n" +
	"- bank_name: Название банка\n" +
	"- bank_inn: ИНН банка\n" +
	"- bank_address: Юридический адрес банка\n" +
	"- director: ФИО генерального директора (только ФИО, без должности)\n\n" +
	"Верни СТРОГО JSON без markdown и без ```json, только найденные поля:\n" +
	`{"company_name": "...", "inn": "...", ...}` + "\n" +
	"Если поле не найдено в тексте — не включай его.\n"

// targetQueriesPrompt takes the query count and the business type.
const targetQueriesPrompt = "Ты — SEO-специалист по продвижению организаций в Яндекс Картах и 2ГИС.\n" +
	"Составь %d целевых поисковых запросов для продвижения " +
	"карточки организации типа «%s».\n\n" +
	"ВАЖНО — это запросы, по которым клиенты ИЩУТ ОРГАНИЗАЦИЮ в картах, " +
	"а не гуглят информацию.\n\n" +
	"СТРУКТУРА СПИСКА (по приоритету):\n" +
	"1. Название сферы и синонимы (2-3 шт.)\n" +
	"2. Конкретные коммерческие услуги этого бизнеса (10-12 шт.) — главная часть списка\n" +
	"3. Запросы с «рядом» (1-2 шт.)\n" +
	"4. Запросы с намерением: записаться, срочный (2-3 шт.)\n\n" +
	"ЗАПРЕЩЕНО:\n" +
	"- Симптомы и диагнозы (зубная боль, кариес, периодонтит — люди это гуглят, а не ищут в картах)\n" +
	"- Общие понятия (гигиена полости рта)\n" +
	"- Маркетинговые слова (лучший, качественный, профессиональный)\n" +
	"- Названия городов, «[ваш город]» — геосервис привязывает к локации сам\n\n" +
	"ПРИМЕР для стоматологии:\n" +
	"1. стоматология\n2. стоматолог\n3. стоматологическая клиника\n" +
	"4. лечение зубов\n5. лечение кариеса\n6. пломбирование зубов\n" +
	"7. профессиональная чистка зубов\n8. отбеливание зубов\n" +
	"9. лечение каналов\n10. удаление зуба\n...\n\n" +
	"Верни ТОЛЬКО пронумерованный список, без заголовков и пояснений."

const genitivePrompt = "Преобразуй тип бизнеса в родительный падеж для фразы " +
	"'карточка [ТИП] Заказчика'. " +
	"Верни ТОЛЬКО результат, без кавычек и пояснений.\n\n" +
	"Примеры:\n" +
	"стоматология → стоматологической клиники\n" +
	"автосервис → автосервиса\n" +
	"салон красоты → салона красоты\n" +
	"ресторан → ресторана\n" +
	"фитнес-клуб → фитнес-клуба"

const fieldLabelsPrompt = "Тебе дан список имён переменных из шаблона документа (snake_case).\n" +
	"Для каждой переменной придумай:\n" +
	"- label: короткое название на русском (2-4 слова)\n" +
	"- prompt_ru: вопрос для пользователя на русском\n" +
	"- type: string | text | date\n" +
	"Верни СТРОГО JSON без markdown: " +
	`{"var_name": {"label": "...", "prompt_ru": "...", "type": "..."}, ...}` + "\n"
