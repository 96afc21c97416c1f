package gateway

import (
	"context"
	"log"

	"github.com/arjun/kubera/internal/agent"
	"github.com/bwmarrin/discordgo"
)

// DiscordGateway mirrors the Telegram gateway for Discord channels.
type DiscordGateway struct {
	Session *discordgo.Session
	Runner  agent.Runner
	History RunHistory
	done    chan struct{}
}

func NewDiscordGateway(token string, runner agent.Runner, history RunHistory) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	return &DiscordGateway{
		Session: session,
		Runner:  runner,
		History: history,
		done:    make(chan struct{}),
	}, nil
}

func (dg *DiscordGateway) Start() error {
	dg.Session.AddHandler(dg.onMessage)
	dg.Session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	if err := dg.Session.Open(); err != nil {
		return err
	}

	log.Printf("Discord gateway connected as %s", dg.Session.State.User.Username)

	<-dg.done
	return nil
}

func (dg *DiscordGateway) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore our own messages.
	if m.Author.ID == s.State.User.ID {
		return
	}
	if m.Content == "" {
		return
	}

	log.Printf("[%s] %s", m.Author.Username, m.Content)

	if isRecentCommand(m.Content) {
		if _, err := s.ChannelMessageSend(m.ChannelID, recentReply(dg.History, m.ChannelID)); err != nil {
			log.Printf("Error sending discord message: %v", err)
		}
		return
	}

	report, err := dg.Runner.Analyze(context.Background(), m.ChannelID, m.Content)
	if err != nil {
		log.Printf("Error running analysis: %v", err)
		report = "The analysis failed. Please try again."
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, report); err != nil {
		log.Printf("Error sending discord message: %v", err)
	}
}

func (dg *DiscordGateway) Send(chatID string, text string) error {
	_, err := dg.Session.ChannelMessageSend(chatID, text)
	return err
}

func (dg *DiscordGateway) Stop() error {
	close(dg.done)
	return dg.Session.Close()
}
