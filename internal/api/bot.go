package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "surface-inspector/internal/application"
	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
	"surface-inspector/internal/infrastructure/vision"
)

const (
	msgStart = `👋 Привет! Я бот для контроля качества металлических поверхностей.

📸 Отправьте мне фото поверхности, и я вынесу вердикт: годна или брак.

📋 Команды:
/check — начать проверку поверхности
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото металлической поверхности
2️⃣ Бот проанализирует изображение
3️⃣ Вы получите вердикт и оценку состояния поверхности

💡 Рекомендации:
• Снимайте при хорошем освещении
• Кадр должен покрывать проверяемый участок целиком
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото поверхности для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото поверхности для проверки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую поверхность..."
	msgBadImage        = "⚠️ Не удалось прочитать изображение. Отправьте фото в формате JPEG или PNG."
	msgUnclearImage    = "🔍 Снимок не получилось проанализировать. Сделайте более контрастное фото."
	msgModelDown       = "⚠️ Сервис анализа временно недоступен. Попробуйте позже."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *app.UserService
	inspections *app.InspectionService
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, inspections *app.InspectionService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:         api,
		users:       users,
		inspections: inspections,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.setState(ctx, msg, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		b.setState(ctx, msg, entity.StateAwaitingPhoto)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		b.setState(ctx, msg, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.setState(ctx, msg, entity.StateProcessing)
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.setState(ctx, msg, entity.StateMainMenu)
		return
	}

	out, err := b.inspections.ProcessPhoto(ctx, imageData)
	if err != nil {
		log.Printf("Error processing photo: %v", err)
		b.sendMessage(msg.Chat.ID, inspectionErrorText(err))
		b.setState(ctx, msg, entity.StateMainMenu)
		return
	}

	b.sendMessage(msg.Chat.ID, verdictText(out))

	if out.Highlighted != nil {
		b.sendPhoto(msg.Chat.ID, out.Highlighted, "Найденные области отмечены зелёным.")
	}

	b.setState(ctx, msg, entity.StateMainMenu)
}

// verdictText собирает текст вердикта для пользователя
func verdictText(out *app.InspectionOutput) string {
	v := out.Verdict

	var head string
	switch v.Status {
	case entity.StatusPass:
		head = "✅ ГОДНА. Существенных дефектов не обнаружено."
	case entity.StatusFail:
		head = "❌ БРАК. Дефекты превышают допустимый уровень."
	case entity.StatusUncertain:
		head = "🤔 Неоднозначный снимок. Переснимите поверхность или передайте на ручную проверку."
	case entity.StatusInvalidInput:
		head = "🚫 На фото не похоже на проверяемую металлическую поверхность."
	}

	text := head
	if v.Status == entity.StatusPass || v.Status == entity.StatusFail {
		text += fmt.Sprintf("\n\n📊 Оценка состояния: %.1f/100", v.Scores.HealthScore)
		if n := out.Regions.Count(); n > 0 {
			text += fmt.Sprintf("\n🔎 Найдено областей: %d", n)
		}
	}
	if v.Scores.HasGatekeeper {
		text += fmt.Sprintf("\n🧲 Уверенность в поверхности: %.0f%%", v.Scores.GatekeeperScore*100)
	}
	if out.InspectionID != "" {
		text += "\n\n🆔 Инспекция: " + out.InspectionID
	}
	return text
}

func inspectionErrorText(err error) string {
	switch {
	case errors.Is(err, vision.ErrDecode):
		return msgBadImage
	case errors.Is(err, vision.ErrFeatureExtraction):
		return msgUnclearImage
	case errors.Is(err, port.ErrClassifier):
		return msgModelDown
	default:
		return msgProcessingError
	}
}

// setState переводит пользователя в заданное состояние
func (b *Bot) setState(ctx context.Context, msg *tgbotapi.Message, state entity.UserState) {
	if _, err := b.users.SetState(ctx, msg.From.ID, msg.Chat.ID, state); err != nil {
		log.Printf("Error saving user state: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// sendPhoto отправляет изображение с подписью
func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "highlighted.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
	}
}
