package clients

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"GoAdvisorAI/app/runtime"
	"GoAdvisorAI/app/utils"
)

// Discord caps a single message at 2000 characters.
const discordMessageLimit = 2000

var _ Interface = &DiscordClient{}

// DiscordClient drives one interview per channel: plain messages feed the
// controller, !restart resets and !transcript exports the conversation.
type DiscordClient struct {
	Client
	session   *discordgo.Session
	channelID string
}

func NewDiscordClient() *DiscordClient {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil
	}
	return newDiscordClient(token, os.Getenv("DISCORD_CHANNEL_ID"))
}

func NewDiscordClientFromConfig(cfg map[string]string) (*DiscordClient, error) {
	token := cfg["token"]
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("discord client needs a token")
	}
	channelID := cfg["channel_id"]
	if channelID == "" {
		channelID = os.Getenv("DISCORD_CHANNEL_ID")
	}
	return newDiscordClient(token, channelID), nil
}

func newDiscordClient(token, channelID string) *DiscordClient {
	session, _ := discordgo.New("Bot " + token)
	dc := &DiscordClient{
		session:   session,
		channelID: channelID,
	}

	session.AddHandler(dc.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	return dc
}

func (c *DiscordClient) Subscribe(rt *runtime.Runtime) {
	c.runtime = rt
	if err := c.Open(); err != nil {
		log.Printf("❌ Error opening Discord session: %v", err)
	}
}

func (c *DiscordClient) Open() error {
	if err := c.session.Open(); err != nil {
		return err
	}
	log.Println("Discord client started. Listening for messages...")
	return nil
}

func (c *DiscordClient) Close() error {
	return c.session.Close()
}

func (c *DiscordClient) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}
	if c.channelID != "" && m.ChannelID != c.channelID {
		return
	}

	ev := runtime.Event{
		SessionKey: m.ChannelID,
		Reply: func(text string) {
			c.SendMessage(m.ChannelID, text)
		},
	}

	switch {
	case strings.HasPrefix(m.Content, "!restart"):
		ev.Kind = runtime.ResetSession
	case strings.HasPrefix(m.Content, "!transcript"):
		ev.Kind = runtime.ShowTranscript
	case strings.HasPrefix(m.Content, "!"):
		c.SendMessage(m.ChannelID, "Unknown command. Use: !restart | !transcript")
		return
	default:
		ev.Kind = runtime.SubmitMessage
		ev.Text = m.Content
	}

	c.runtime.QueueEvent(ev)
}

func (c *DiscordClient) SendMessage(channelID, content string) error {
	if channelID == "" {
		return fmt.Errorf("channelID is empty")
	}
	content = utils.Truncate(utils.StripHTML(content), discordMessageLimit)
	if _, err := c.session.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("⚠️ Error sending Discord message: %v", err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
