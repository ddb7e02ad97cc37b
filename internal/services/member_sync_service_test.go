package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/config"
)

func newMemberSync(e *testEnv, bot config.BotConfig) *MemberSyncService {
	notifier := common.NewNotifier(e.queue, nil)
	return NewMemberSyncService(e.stores.Users, e.reg, e.messenger, notifier, e.embeds, nil, bot,
		config.EventConfig{Name: "YRHacks", ContactEmail: "team@yrhacks.ca"})
}

func TestHandleJoin_Registrant(t *testing.T) {
	e := newTestEnv(t, defaultTeams)
	ctx := context.Background()
	sync := newMemberSync(e, testBot)

	res, err := sync.HandleJoin(ctx, testBot.GuildID, Actor{DiscordID: "1", Username: "ALICE"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Result != JoinVerified || res.FullName != "Alice Adams" {
		t.Errorf("Unexpected result %+v", res)
	}

	if len(e.messenger.roles) != 1 || e.messenger.roles[0].RoleID != testBot.HackerRoleID {
		t.Errorf("Expected hacker role, got %+v", e.messenger.roles)
	}
	if e.messenger.nicknames["1"] != "Alice Adams" {
		t.Errorf("Expected nickname set, got %q", e.messenger.nicknames["1"])
	}

	user, _ := e.stores.Users.GetByDiscordID(ctx, "1")
	if user == nil || user.School != "Bayview SS" {
		t.Errorf("Expected stored registrant, got %+v", user)
	}
	if len(e.drain()) != 0 {
		t.Error("Expected no notifications for a verified join")
	}

	// a second join is idempotent
	if _, err := sync.HandleJoin(ctx, testBot.GuildID, Actor{DiscordID: "1", Username: "alice"}); err != nil {
		t.Errorf("Expected rejoin to succeed, got %v", err)
	}
}

func TestHandleJoin_NonRegistrant(t *testing.T) {
	e := newTestEnv(t, defaultTeams)
	sync := newMemberSync(e, testBot)

	res, err := sync.HandleJoin(context.Background(), testBot.GuildID, mal)
	if err != nil || res.Result != JoinUnverified {
		t.Fatalf("Unexpected result %+v %v", res, err)
	}
	if len(e.messenger.roles) != 1 || e.messenger.roles[0].RoleID != testBot.UnverifiedRoleID {
		t.Errorf("Expected unverified role, got %+v", e.messenger.roles)
	}

	notes := e.drain()
	if len(notes) != 2 {
		t.Fatalf("Expected audit and welcome DM, got %d", len(notes))
	}
	if notes[0].Kind != common.NotificationAudit || !strings.Contains(notes[0].Message, "not a registrant") {
		t.Errorf("Unexpected audit %+v", notes[0])
	}
	dm := notes[1]
	if dm.Kind != common.NotificationDM || dm.UserID != mal.DiscordID {
		t.Errorf("Unexpected DM %+v", dm)
	}
	if !strings.Contains(dm.Embed.Description, "team@yrhacks.ca") || !strings.Contains(dm.Embed.Description, "mallory") {
		t.Errorf("Expected contact email and username in welcome, got %q", dm.Embed.Description)
	}
	if !strings.Contains(dm.OnForbidden, "DMs disabled") {
		t.Errorf("Expected a forbidden fallback line, got %q", dm.OnForbidden)
	}
}

func TestHandleJoin_OtherGuildIgnored(t *testing.T) {
	e := newTestEnv(t, defaultTeams)
	sync := newMemberSync(e, testBot)

	res, err := sync.HandleJoin(context.Background(), "elsewhere", alice)
	if err != nil || res.Result != JoinIgnored {
		t.Errorf("Unexpected result %+v %v", res, err)
	}
	if len(e.messenger.roles) != 0 {
		t.Error("Expected no role changes")
	}
}

func TestHandleJoin_RoleProblems(t *testing.T) {
	e := newTestEnv(t, defaultTeams)
	ctx := context.Background()

	noRoles := testBot
	noRoles.HackerRoleID = ""
	noRoles.UnverifiedRoleID = ""
	res, _ := newMemberSync(e, noRoles).HandleJoin(ctx, testBot.GuildID, alice)
	if res.Result != JoinRoleMissing {
		t.Errorf("Expected role_missing, got %s", res.Result)
	}

	e.messenger.addRoleFunc = func(string) error { return errors.New("missing permissions") }
	res, err := newMemberSync(e, testBot).HandleJoin(ctx, testBot.GuildID, alice)
	if err != nil || res.Result != JoinRoleFailed {
		t.Errorf("Expected role_failed without error, got %+v %v", res, err)
	}
	if user, _ := e.stores.Users.GetByDiscordID(ctx, alice.DiscordID); user != nil {
		t.Error("Expected no user row when the role could not be applied")
	}
}
