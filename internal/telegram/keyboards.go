package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hammamikhairi/chefbot/internal/domain"
)

// Keyboard labels. These are the only place display strings exist; the
// router works on domain.Action values.
const (
	labelSearch      = "🔍 Поиск рецептов"
	labelAdd         = "➕ Добавить рецепт"
	labelLearn       = "👣 Учение рецептов"
	labelListAll     = "📖 Все рецепты"
	labelDelete      = "🗑️ Удалить рецепты"
	labelStats       = "📊 Статистика"
	labelRandom      = "🎲 Случайный рецепт"
	labelTip         = "🧠 Совет от шефа"
	labelIngredients = "🥗 Из ингредиентов?"
	labelQuick       = "⏱️ Быстрое блюдо"
	labelMealPlan    = "📅 Рацион на 3 дня"
	labelGoalCut     = "Похудение"
	labelGoalBulk    = "Набор массы"
	labelFavorites   = "⭐ Избранное"
	labelShopping    = "🧾 Список покупок"

	labelCook     = "🍳 Хочу готовить"
	labelNextStep = "➡️ Далее"
)

var labelActions = map[string]domain.Action{
	labelSearch:      domain.ActionSearchPrompt,
	labelAdd:         domain.ActionAdd,
	labelLearn:       domain.ActionLearn,
	labelListAll:     domain.ActionListAll,
	labelDelete:      domain.ActionDeletePrompt,
	labelStats:       domain.ActionStats,
	labelRandom:      domain.ActionRandom,
	labelTip:         domain.ActionTip,
	labelIngredients: domain.ActionIngredientsPrompt,
	labelQuick:       domain.ActionQuick,
	labelMealPlan:    domain.ActionMealPlan,
	labelGoalCut:     domain.ActionGoalCut,
	labelGoalBulk:    domain.ActionGoalBulk,
	labelFavorites:   domain.ActionFavorites,
	labelShopping:    domain.ActionShopping,
}

// labelAction maps a button press to its action; unknown text maps to
// ActionNone and is treated as free input.
func labelAction(text string) domain.Action {
	return labelActions[strings.TrimSpace(text)]
}

var commandActions = map[string]domain.Action{
	"start":   domain.ActionStart,
	"ping":    domain.ActionPing,
	"help":    domain.ActionHelp,
	"recipes": domain.ActionListAll,
	"random":  domain.ActionRandom,
}

// botCommands is the command list published to the Telegram client menu.
var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Главное меню"},
	{Command: "help", Description: "Как пользоваться ботом"},
	{Command: "recipes", Description: "Все доступные рецепты"},
	{Command: "random", Description: "Случайный рецепт"},
}

// mainKeyboard builds the persistent reply keyboard.
func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelSearch),
			tgbotapi.NewKeyboardButton(labelAdd),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelLearn),
			tgbotapi.NewKeyboardButton(labelListAll),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelDelete),
			tgbotapi.NewKeyboardButton(labelStats),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelRandom),
			tgbotapi.NewKeyboardButton(labelTip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelIngredients),
			tgbotapi.NewKeyboardButton(labelQuick),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelMealPlan),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelFavorites),
			tgbotapi.NewKeyboardButton(labelShopping),
		),
	)
}

// cookMarkup builds the "start cooking" button under a recipe card.
func cookMarkup(recipeID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(labelCook, cookData(recipeID, 0)),
	))
}

// nextStepMarkup builds the "next step" button under a cooking step.
func nextStepMarkup(recipeID int64, nextIndex int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(labelNextStep, cookData(recipeID, nextIndex)),
	))
}

// cookData encodes a cooking button payload as "cook:<recipe>:<step>".
func cookData(recipeID int64, stepIndex int) string {
	return fmt.Sprintf("cook:%d:%d", recipeID, stepIndex)
}

// parseCookData decodes a cooking button payload.
func parseCookData(data string) (recipeID int64, stepIndex int, ok bool) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != "cook" {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	idx, err := strconv.Atoi(parts[2])
	if err != nil || idx < 0 {
		return 0, 0, false
	}
	return id, idx, true
}
