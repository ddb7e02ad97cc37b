package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/db/dbtest"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/models/dtos"
)

type sentDM struct {
	UserID string
	Embed  *dtos.Embed
}

type roleCall struct {
	UserID string
	RoleID string
	Add    bool
}

// mockMessenger records every outbound Discord call.
type mockMessenger struct {
	mu        sync.Mutex
	dms       []sentDM
	channel   []string
	roles     []roleCall
	nicknames map[string]string

	sendDMFunc  func(userID string) error
	addRoleFunc func(roleID string) error
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{nicknames: map[string]string{}}
}

func (m *mockMessenger) SendDM(_ context.Context, userID string, embed *dtos.Embed) error {
	if m.sendDMFunc != nil {
		if err := m.sendDMFunc(userID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dms = append(m.dms, sentDM{UserID: userID, Embed: embed})
	return nil
}

func (m *mockMessenger) SendChannelMessage(_ context.Context, _ string, embed *dtos.Embed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channel = append(m.channel, embed.Description)
	return nil
}

func (m *mockMessenger) AddRole(_ context.Context, _, userID, roleID string) error {
	if m.addRoleFunc != nil {
		if err := m.addRoleFunc(roleID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = append(m.roles, roleCall{UserID: userID, RoleID: roleID, Add: true})
	return nil
}

func (m *mockMessenger) RemoveRole(_ context.Context, _, userID, roleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = append(m.roles, roleCall{UserID: userID, RoleID: roleID})
	return nil
}

func (m *mockMessenger) SetNickname(_ context.Context, _, userID, nickname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nicknames[userID] = nickname
	return nil
}

func (m *mockMessenger) dmsTo(userID string) []sentDM {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentDM
	for _, dm := range m.dms {
		if dm.UserID == userID {
			out = append(out, dm)
		}
	}
	return out
}

var testBot = config.BotConfig{
	GuildID:          "guild-1",
	LogChannelID:     "log-1",
	UnverifiedRoleID: "role-unverified",
	HackerRoleID:     "role-hacker",
}

// Registrants in the test directory. The id doubles as the Discord user id.
var (
	alice = Actor{DiscordID: "1", Username: "alice"}
	bob   = Actor{DiscordID: "2", Username: "bob"}
	carol = Actor{DiscordID: "3", Username: "carol"}
	dave  = Actor{DiscordID: "4", Username: "dave"}
	erin  = Actor{DiscordID: "5", Username: "erin"}
	frank = Actor{DiscordID: "6", Username: "frank"}
	mal   = Actor{DiscordID: "99", Username: "mallory"}
)

type testEnv struct {
	db        *gorm.DB
	stores    Stores
	queue     *common.ChannelQueue
	messenger *mockMessenger
	embeds    *common.EmbedBuilder
	reg       *RegistrationService
	teams     *TeamService
	prompts   *InvitePromptService
}

func newTestEnv(t *testing.T, teamsCfg config.TeamsConfig) *testEnv {
	t.Helper()
	logging.SetLogger(zap.NewNop().Sugar())

	gdb, sdb := dbtest.Open(t)
	stores := Stores{
		Users:   repositories.NewUserRepositoryGORM(gdb),
		Teams:   repositories.NewTeamRepositoryGORM(gdb),
		Invites: repositories.NewInviteRepositoryGORM(gdb),
		Views:   repositories.NewTeamViewRepository(sdb),
	}

	directory := common.NewRegistrationDirectory([]common.Registration{
		{DiscordUsername: "Alice", FullName: "Alice Adams", School: "Bayview SS", Grade: "11", SHSMSector: "ICT"},
		{DiscordUsername: "bob", FullName: "Bob Brown", School: "Markville", Grade: "12"},
		{DiscordUsername: "carol", FullName: "Carol Chen", School: "Unionville", Grade: "10"},
		{DiscordUsername: "dave", FullName: "Dave Diaz", School: "Bayview SS", Grade: "9"},
		{DiscordUsername: "erin", FullName: "Erin Evans", School: "Markville", Grade: "11"},
		{DiscordUsername: "frank", FullName: "Frank Fox", School: "Unionville", Grade: "12"},
	})

	queue := common.NewChannelQueue(256)
	notifier := common.NewNotifier(queue, nil)
	messenger := newMockMessenger()
	embeds := common.NewEmbedBuilder(config.EmbedConfig{InfoColor: 1, SuccessColor: 2, ErrorColor: 3})
	reg := NewRegistrationService(stores.Users, directory)
	cache := common.NewCacheService(time.Minute, time.Minute, nil)

	teams := NewTeamService(stores, reg, cache, notifier, messenger, embeds, nil, teamsCfg, time.Minute)
	return &testEnv{
		db:        gdb,
		stores:    stores,
		queue:     queue,
		messenger: messenger,
		embeds:    embeds,
		reg:       reg,
		teams:     teams,
		prompts:   NewInvitePromptService(stores.Invites, teams),
	}
}

// drain returns every queued notification.
func (e *testEnv) drain() []common.Notification {
	var out []common.Notification
	for {
		n, _, _ := e.queue.Dequeue(context.Background(), time.Millisecond)
		if n == nil {
			return out
		}
		out = append(out, *n)
	}
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	te, ok := AsTeamError(err)
	if !ok {
		t.Fatalf("Expected TeamError %s, got %v", code, err)
	}
	if te.Code != code {
		t.Fatalf("Expected code %s, got %s (%s)", code, te.Code, te.Message)
	}
}

func mustCreate(t *testing.T, e *testEnv, owner Actor, name string) uint {
	t.Helper()
	team, err := e.teams.Create(context.Background(), owner, name)
	if err != nil {
		t.Fatalf("Failed to create team %s: %v", name, err)
	}
	return team.ID
}

func mustJoin(t *testing.T, e *testEnv, owner, member Actor, teamID uint) {
	t.Helper()
	ctx := context.Background()
	if _, err := e.teams.Invite(ctx, owner, member); err != nil {
		t.Fatalf("Failed to invite %s: %v", member.Username, err)
	}
	if _, err := e.teams.Accept(ctx, member, teamID); err != nil {
		t.Fatalf("Failed to accept for %s: %v", member.Username, err)
	}
}
