package conversation

import (
	"fmt"
	"html"
	"math/rand"
	"strings"

	"github.com/hammamikhairi/chefbot/internal/domain"
)

// User-facing texts. Telegram renders them with HTML parse mode, so any
// user-supplied value is escaped before insertion.
const (
	msgGreeting      = "Привет, шеф! 👋 Выбирай действие на клавиатуре:"
	msgPong          = "pong ✅"
	msgHelp          = "Я храню рецепты и учу готовить по шагам.\nОткрой рецепт по номеру, жми «🍳 Хочу готовить» — и я поведу тебя шаг за шагом.\nВсё остальное — на клавиатуре 👇"
	msgEmptyList     = "Пока пусто."
	msgNoQuick       = "Нет быстрых блюд."
	msgSearchPrompt  = "Введи слово/фразу для поиска (название/ингредиенты):"
	msgNothingFound  = "Ничего не найдено 😕"
	msgNotFound      = "Рецепт не найден."
	msgNoRecipes     = "Рецептов пока нет 🤷"
	msgIngredPrompt  = "Введи список через запятую (например: курица, рис, помидор)"
	msgNoIngredMatch = "Ничего не подобрал 😕"
	msgPlanPrompt    = "Выбери цель: Похудение / Набор массы"
	msgLearnHint     = "Открой рецепт по номеру и нажми «🍳 Хочу готовить» — начнётся пошаговая инструкция."
	msgDeletePrompt  = "Отправь ID рецепта, который ты хочешь удалить (только свои)."
	msgDeleted       = "🗑️ Удалено."
	msgDeleteDenied  = "Можно удалять только <b>свои</b> рецепты."
	msgCookDone      = "✅ Готово! Приятного аппетита 😋"
	msgFavorites     = "⭐ Избранное: пока простая заглушка. Скоро здесь появятся сохранённые рецепты."
	msgShopping      = "🧾 Список покупок: скопируй ингредиенты сюда — я соберу список."
	msgFallback      = "Выбери действие на клавиатуре 👇"
	msgStorageFail   = "Что-то пошло не так 😔 Попробуй ещё раз."

	msgAskTitle       = "Название рецепта?"
	msgAskDescription = "Краткое описание:"
	msgAskIngredients = "Вводи ингредиенты по одному в формате:\nНазвание; граммы; ккал\nКогда закончишь — напиши: ГОТОВО"
	msgIngredAdded    = "Добавлено ✅. Следующий или «ГОТОВО»."
	msgBadIngredient  = "Формат не распознан. Пример: Курица; 150; 240"
	msgNeedIngredient = "Нужно добавить хотя бы один ингредиент."
	msgAskSteps       = "Введи шаги приготовления (каждый с новой строки). Когда закончишь — отправь: ГОТОВО"
	msgStepsAdded     = "Шаг(и) добавлен(ы). Добавь ещё или «ГОТОВО»."
	msgNeedStep       = "Добавь хотя бы один шаг."
	msgAskCookTime    = "Сколько минут готовить (целое число)?"
	msgBadCookTime    = "Нужно целое число минут."
	msgRecipeSaved    = "✅ Рецепт сохранён! Найти его можно через поиск или список."
)

// Calorie targets shown in the 3-day plan headers.
const (
	cutCalTarget  = "≈1500–1700 ккал/день"
	bulkCalTarget = "≈2800–3000 ккал/день"
)

// chefTips is the fixed pool behind the "совет от шефа" button.
var chefTips = []string{
	"Пробуйте на кислотность: капля лимона часто «собирает» вкус блюда.",
	"Пасту варите на минуту меньше — доготовится в соусе (аль денте).",
	"Дайте мясу «отдохнуть» 5–10 минут — соки распределятся равномерно.",
	"Соль добавляйте постепенно — легче довести вкус, чем исправлять пересол.",
	"Овощи обжаривайте партиями — так они не тушатся в собственном соку.",
}

func chefTip() string {
	return "🧠 Совет от шефа:\n" + chefTips[rand.Intn(len(chefTips))]
}

// recipeCard renders the full recipe card shown before cooking.
func recipeCard(r *domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n%s\n\n", html.EscapeString(r.Title), html.EscapeString(r.Description))
	fmt.Fprintf(&b, "⏱️ Время: <b>%d мин</b>\n", r.CookTimeMin)
	fmt.Fprintf(&b, "⚖️ Выход: <b>%d г</b>\n", r.TotalGrams)
	fmt.Fprintf(&b, "🔥 Калории: <b>%d ккал</b>\n\n", r.TotalKcal)
	b.WriteString("<u>Ингредиенты (с граммовками и ккал):</u>\n")
	for _, i := range r.Ingredients {
		fmt.Fprintf(&b, "• %s — %d г (%d ккал)\n", html.EscapeString(i.Name), int(i.Grams), int(i.Kcal))
	}
	b.WriteString("\nНажми кнопку снизу, если хочешь готовить пошагово ⤵️")
	return b.String()
}

// stepText renders one cooking step, 1-based for the user.
func stepText(r *domain.Recipe, idx int) string {
	return fmt.Sprintf("<b>%s</b>\nШаг %d/%d:\n\n%s",
		html.EscapeString(r.Title), idx+1, len(r.Steps), html.EscapeString(r.Steps[idx]))
}

// listAllText renders the full recipe list with time and calories.
func listAllText(rs []domain.Recipe) string {
	lines := []string{"<b>Все доступные рецепты:</b>"}
	for _, r := range rs {
		lines = append(lines, fmt.Sprintf("#%d — %s (⏱️ %d мин, 🔥 %d ккал)",
			r.ID, html.EscapeString(r.Title), r.CookTimeMin, r.TotalKcal))
	}
	return strings.Join(lines, "\n")
}

// quickListText renders the quick-dish list.
func quickListText(rs []domain.Recipe) string {
	lines := []string{"<b>До 15 минут:</b>"}
	for _, r := range rs {
		lines = append(lines, fmt.Sprintf("#%d — %s (⏱️ %d мин)", r.ID, html.EscapeString(r.Title), r.CookTimeMin))
	}
	return strings.Join(lines, "\n")
}

// resultsText renders a search result list under the given header.
func resultsText(header string, rs []domain.Recipe, withHint bool) string {
	lines := []string{header}
	for _, r := range rs {
		lines = append(lines, fmt.Sprintf("#%d — %s", r.ID, html.EscapeString(r.Title)))
	}
	if withHint {
		lines = append(lines, "\nОтправь номер рецепта, чтобы открыть карточку.")
	}
	return strings.Join(lines, "\n")
}

// statsText renders the statistics card.
func statsText(st domain.Stats) string {
	return fmt.Sprintf("📊 <b>Статистика</b>\nОбщих рецептов: <b>%d</b>\nТвоих рецептов: <b>%d</b>\nЗапусков готовки: <b>%d</b>",
		st.Shared, st.Owned, st.Cooked)
}

// planThreeDays renders the hardcoded 3-day meal plan for a goal.
func planThreeDays(bulk bool) string {
	goal, target := "Похудение", cutCalTarget
	days := [][3]string{
		{"Овсяная каша с бананом 🍌", "Огуречный салат с йогуртом 🥒", "Курица с рисом 🍗🍚"},
		{"Сырники классические 🧀", "Салат «Цезарь» 🥗", "Тушёная рыба с рисом 🐟🍚"},
		{"Омлет с томатами 🍳", "Паста с томатами 🍝", "Греческий салат 🧀🥗"},
	}
	if bulk {
		goal, target = "Набор массы", bulkCalTarget
		days = [][3]string{
			{"Панкейки 🥞 + мёд", "Плов узбекский 🍚🥩", "Карбонара 🍝"},
			{"Борщ украинский 🍲 + хлеб", "Котлеты с пюре 🥔", "Пицца «Маргарита» 🍕"},
			{"Сырники 🧀 + сметана", "Паста болоньезе 🍝", "Курица с гречкой 🍗🍚"},
		}
	}

	out := []string{fmt.Sprintf("📅 <b>Рацион на 3 дня — %s</b>\nЦель по калорийности: %s\n", goal, target)}
	for d, m := range days {
		out = append(out, fmt.Sprintf("<u>День %d</u>:\n• Завтрак: %s\n• Обед: %s\n• Ужин: %s", d+1, m[0], m[1], m[2]))
	}
	return strings.Join(out, "\n")
}
