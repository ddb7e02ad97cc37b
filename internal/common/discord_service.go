package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"yrhacks/hackbot/internal/models/dtos"
)

// ErrDMForbidden means the user has direct messages from server members disabled.
var ErrDMForbidden = errors.New("cannot send messages to this user")

// DiscordMessenger is the set of outbound Discord calls the services make.
type DiscordMessenger interface {
	SendDM(ctx context.Context, userID string, embed *dtos.Embed) error
	SendChannelMessage(ctx context.Context, channelID string, embed *dtos.Embed) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	SetNickname(ctx context.Context, guildID, userID, nickname string) error
}

// DiscordService talks to the Discord REST API. It never opens a gateway session.
type DiscordService struct {
	session *discordgo.Session
}

var _ DiscordMessenger = (*DiscordService)(nil)

func NewDiscordService(token string) (*DiscordService, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordService{session: session}, nil
}

func (d *DiscordService) SendDM(ctx context.Context, userID string, embed *dtos.Embed) error {
	channel, err := d.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return translateDiscordError(err)
	}
	return d.SendChannelMessage(ctx, channel.ID, embed)
}

func (d *DiscordService) SendChannelMessage(ctx context.Context, channelID string, embed *dtos.Embed) error {
	_, err := d.session.ChannelMessageSendComplex(channelID, ToMessageSend(embed), discordgo.WithContext(ctx))
	return translateDiscordError(err)
}

func (d *DiscordService) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return translateDiscordError(d.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (d *DiscordService) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return translateDiscordError(d.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (d *DiscordService) SetNickname(ctx context.Context, guildID, userID, nickname string) error {
	return translateDiscordError(d.session.GuildMemberNickname(guildID, userID, nickname, discordgo.WithContext(ctx)))
}

func translateDiscordError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeCannotSendMessagesToThisUser {
			return fmt.Errorf("%w: %v", ErrDMForbidden, err)
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden && restErr.Message == nil {
			return fmt.Errorf("%w: %v", ErrDMForbidden, err)
		}
	}
	return fmt.Errorf("discord request failed: %w", err)
}

// ToMessageSend converts an embed and its buttons into a discordgo message.
func ToMessageSend(embed *dtos.Embed) *discordgo.MessageSend {
	msg := &discordgo.MessageSend{}
	if embed == nil {
		return msg
	}

	me := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	for _, f := range embed.Fields {
		me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if embed.Footer != "" {
		me.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}
	msg.Embeds = []*discordgo.MessageEmbed{me}

	if len(embed.Components) > 0 {
		row := discordgo.ActionsRow{}
		for _, b := range embed.Components {
			row.Components = append(row.Components, discordgo.Button{
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				CustomID: b.CustomID,
				Disabled: b.Disabled,
			})
		}
		msg.Components = []discordgo.MessageComponent{row}
	}
	return msg
}

func buttonStyle(style string) discordgo.ButtonStyle {
	switch style {
	case "success":
		return discordgo.SuccessButton
	case "danger":
		return discordgo.DangerButton
	case "secondary":
		return discordgo.SecondaryButton
	default:
		return discordgo.PrimaryButton
	}
}
