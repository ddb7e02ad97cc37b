package services

import (
	"context"
	"strings"
	"testing"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/models/dtos"
)

func TestProfile_SetAndView(t *testing.T) {
	e := newTestEnv(t, defaultTeams)
	ctx := context.Background()
	profiles := NewProfileService(e.stores.Users, e.reg, common.NewNotifier(e.queue, nil))

	view, err := profiles.View(ctx, bob)
	if err != nil {
		t.Fatal(err)
	}
	if view.About != constants.MsgNoDescription || view.SHSMSector != "Not set" || view.Grade != "12" {
		t.Errorf("Unexpected default view %+v", view)
	}

	if err := profiles.SetAbout(ctx, bob, "I like Go"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	view, _ = profiles.View(ctx, bob)
	if view.About != "I like Go" || view.FullName != "Bob Brown" {
		t.Errorf("Unexpected view %+v", view)
	}

	err = profiles.SetAbout(ctx, bob, strings.Repeat("é", 151))
	expectCode(t, err, constants.ErrCodeInvalidAbout)
	if err := profiles.SetAbout(ctx, bob, strings.Repeat("é", 150)); err != nil {
		t.Errorf("Expected 150 characters to be accepted, got %v", err)
	}

	err = profiles.SetAbout(ctx, mal, "hi")
	expectCode(t, err, constants.ErrCodeNotRegistered)

	_, err = profiles.View(ctx, mal)
	expectCode(t, err, constants.ErrCodeProfileNotFound)
}

func TestAdmin_Verify(t *testing.T) {
	e := newTestEnv(t, defaultTeams)
	ctx := context.Background()
	admin := NewAdminService(e.stores.Users, e.messenger, common.NewNotifier(e.queue, nil), testBot)
	req := dtos.VerifyRequest{UserID: mal.DiscordID, Username: mal.Username, FullName: "Mallory Moss", Grade: "10", School: "Markville"}

	err := admin.Verify(ctx, alice, 0, req)
	expectCode(t, err, constants.ErrCodePermissionDenied)

	err = admin.Verify(ctx, alice, constants.PermissionAdministrator, dtos.VerifyRequest{UserID: mal.DiscordID})
	expectCode(t, err, constants.ErrCodeInvalidRequestBody)

	if err := admin.Verify(ctx, alice, constants.PermissionAdministrator|1, req); err != nil {
		t.Fatalf("Expected verify, got %v", err)
	}

	user, _ := e.stores.Users.GetByDiscordID(ctx, mal.DiscordID)
	if user == nil || user.FullName != "Mallory Moss" {
		t.Errorf("Expected stored user, got %+v", user)
	}
	if len(e.messenger.roles) != 2 || !e.messenger.roles[0].Add || e.messenger.roles[1].RoleID != testBot.UnverifiedRoleID {
		t.Errorf("Unexpected role calls %+v", e.messenger.roles)
	}

	// a hand-verified member can now use team commands
	if _, err := e.teams.Create(ctx, mal, "Moss"); err != nil {
		t.Errorf("Expected verified member to create a team, got %v", err)
	}
}

func TestIsAdministrator(t *testing.T) {
	if IsAdministrator(0x20) {
		t.Error("Expected MANAGE_GUILD alone to be rejected")
	}
	if !IsAdministrator(0x8) {
		t.Error("Expected ADMINISTRATOR to pass")
	}
}
