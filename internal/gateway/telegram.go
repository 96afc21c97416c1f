package gateway

import (
	"context"
	"fmt"
	"log"

	"github.com/arjun/kubera/internal/agent"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramGateway turns incoming messages into analysis runs and sends
// the report back.
type TelegramGateway struct {
	Bot     *tgbotapi.BotAPI
	Runner  agent.Runner
	History RunHistory
}

func NewTelegramGateway(token string, runner agent.Runner, history RunHistory) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:     bot,
		Runner:  runner,
		History: history,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		ctx := context.Background()
		chatID := fmt.Sprintf("%d", update.Message.Chat.ID)

		if isRecentCommand(update.Message.Text) {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, recentReply(tg.History, chatID))
			tg.Bot.Send(msg)
			continue
		}

		report, err := tg.Runner.Analyze(ctx, chatID, update.Message.Text)
		if err != nil {
			log.Printf("Error running analysis: %v", err)
			report = "The analysis failed. Please try again."
		}

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, report)
		tg.Bot.Send(msg)
	}
	return nil
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ParseMode = "Markdown" // Enable markdown for better alerts
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
