package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/db/dbtest"
	gormModels "yrhacks/hackbot/internal/models/gorm"
)

func TestUserRepository_CreateIfNotExists(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	repo := NewUserRepositoryGORM(gdb)
	ctx := context.Background()

	created, err := repo.CreateIfNotExists(ctx, &gormModels.User{DiscordID: "u1", FullName: "Ada"})
	if err != nil || !created {
		t.Fatalf("Expected first insert to create, got created=%v err=%v", created, err)
	}

	created, err = repo.CreateIfNotExists(ctx, &gormModels.User{DiscordID: "u1", FullName: "Other"})
	if err != nil {
		t.Fatalf("Expected duplicate to be ignored, got %v", err)
	}
	if created {
		t.Error("Expected duplicate insert to report false")
	}

	u, err := repo.GetByDiscordID(ctx, "u1")
	if err != nil || u == nil {
		t.Fatalf("Expected user, got %v %v", u, err)
	}
	if u.FullName != "Ada" {
		t.Errorf("Expected original row kept, got %s", u.FullName)
	}
}

func TestUserRepository_UpdateAbout(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	repo := NewUserRepositoryGORM(gdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "u1", "Ada")

	ok, err := repo.UpdateAbout(ctx, "u1", "I like compilers")
	if err != nil || !ok {
		t.Fatalf("Expected update, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.UpdateAbout(ctx, "ghost", "x")
	if err != nil || ok {
		t.Errorf("Expected no row for unknown user, got ok=%v err=%v", ok, err)
	}

	u, _ := repo.GetByDiscordID(ctx, "u1")
	if u.About == nil || *u.About != "I like compilers" {
		t.Errorf("Unexpected about %v", u.About)
	}
}

func TestTeamRepository_CreateAndDuplicateName(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	teams := NewTeamRepositoryGORM(gdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "a", "A")
	dbtest.SeedUser(t, gdb, "b", "B")

	team, ok, err := teams.Create(ctx, "Alpha", "a")
	if err != nil || !ok || team == nil {
		t.Fatalf("Expected team created, got %v %v %v", team, ok, err)
	}

	_, ok, err = teams.Create(ctx, "Alpha", "b")
	if err != nil {
		t.Fatalf("Expected duplicate name to be a false result, got %v", err)
	}
	if ok {
		t.Error("Expected duplicate name to report false")
	}

	mine, _ := teams.GetByMember(ctx, "b")
	if mine != nil {
		t.Error("Expected no membership change after duplicate name")
	}

	_, _, err = teams.Create(ctx, "Beta", "a")
	if !errors.Is(err, ErrAlreadyInTeam) {
		t.Errorf("Expected ErrAlreadyInTeam, got %v", err)
	}

	_, _, err = teams.Create(ctx, "Gamma", "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestTeamRepository_Rename(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	teams := NewTeamRepositoryGORM(gdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "a", "A")
	dbtest.SeedUser(t, gdb, "b", "B")
	teams.Create(ctx, "Alpha", "a")
	teams.Create(ctx, "Beta", "b")

	team, ok, err := teams.Rename(ctx, "a", "Delta")
	if err != nil || !ok || team == nil || team.Name != "Delta" {
		t.Fatalf("Expected rename to Delta, got %v %v %v", team, ok, err)
	}

	_, ok, err = teams.Rename(ctx, "b", "Delta")
	if err != nil || ok {
		t.Fatalf("Expected name taken, got ok=%v err=%v", ok, err)
	}
	beta, _ := teams.GetByOwner(ctx, "b")
	if beta.Name != "Beta" {
		t.Errorf("Expected original name kept, got %s", beta.Name)
	}

	team, ok, err = teams.Rename(ctx, "nobody", "Omega")
	if err != nil || !ok || team != nil {
		t.Errorf("Expected no team for non-owner, got %v %v %v", team, ok, err)
	}
}

func TestTeamRepository_DeleteClearsMembersAndInvites(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	teams := NewTeamRepositoryGORM(gdb)
	invites := NewInviteRepositoryGORM(gdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "a", "A")
	dbtest.SeedUser(t, gdb, "b", "B")
	dbtest.SeedUser(t, gdb, "c", "C")

	team, _, _ := teams.Create(ctx, "Alpha", "a")
	if _, err := invites.CreateOrReuse(ctx, team.ID, "a", "b", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := invites.Accept(ctx, team.ID, "b", 4); err != nil {
		t.Fatal(err)
	}
	if _, err := invites.CreateOrReuse(ctx, team.ID, "a", "c", nil); err != nil {
		t.Fatal(err)
	}

	deleted, members, err := teams.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("Expected delete, got %v", err)
	}
	if deleted.Name != "Alpha" || len(members) != 2 {
		t.Errorf("Unexpected delete result %v %v", deleted.Name, members)
	}

	var withTeam int64
	gdb.Model(&gormModels.User{}).Where("team_id IS NOT NULL").Count(&withTeam)
	if withTeam != 0 {
		t.Errorf("Expected all memberships cleared, %d remain", withTeam)
	}
	var inviteRows int64
	gdb.Model(&gormModels.TeamInvite{}).Count(&inviteRows)
	if inviteRows != 0 {
		t.Errorf("Expected invites removed, %d remain", inviteRows)
	}

	if _, _, err := teams.Delete(ctx, "a"); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("Expected ErrTeamNotFound on second delete, got %v", err)
	}
}

func TestInviteRepository_ReusePending(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	teams := NewTeamRepositoryGORM(gdb)
	invites := NewInviteRepositoryGORM(gdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "a", "A")
	dbtest.SeedUser(t, gdb, "b", "B")
	team, _, _ := teams.Create(ctx, "Alpha", "a")

	first, err := invites.CreateOrReuse(ctx, team.ID, "a", "b", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := invites.CreateOrReuse(ctx, team.ID, "a", "b", nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected pending invite reused, got %d and %d", first.ID, second.ID)
	}
}

func TestInviteRepository_AcceptRespectsCapacity(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	teams := NewTeamRepositoryGORM(gdb)
	invites := NewInviteRepositoryGORM(gdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "a", "A")
	dbtest.SeedUser(t, gdb, "b", "B")
	dbtest.SeedUser(t, gdb, "c", "C")
	team, _, _ := teams.Create(ctx, "Alpha", "a")

	invites.CreateOrReuse(ctx, team.ID, "a", "b", nil)
	invites.CreateOrReuse(ctx, team.ID, "a", "c", nil)

	if _, err := invites.Accept(ctx, team.ID, "b", 2); err != nil {
		t.Fatalf("Expected accept, got %v", err)
	}
	if _, err := invites.Accept(ctx, team.ID, "c", 2); !errors.Is(err, ErrTeamFull) {
		t.Fatalf("Expected ErrTeamFull, got %v", err)
	}

	pending, _ := invites.FindPending(ctx, team.ID, "c")
	if pending == nil || pending.Status != constants.InviteStatusPending {
		t.Error("Expected rejected invite to stay pending")
	}

	if _, err := invites.Accept(ctx, team.ID, "b", 4); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("Expected ErrInviteNotFound for resolved invite, got %v", err)
	}
}

func TestInviteRepository_AcceptRejectsMemberOfAnotherTeam(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	teams := NewTeamRepositoryGORM(gdb)
	invites := NewInviteRepositoryGORM(gdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "a", "A")
	dbtest.SeedUser(t, gdb, "b", "B")
	dbtest.SeedUser(t, gdb, "c", "C")
	alpha, _, _ := teams.Create(ctx, "Alpha", "a")
	beta, _, _ := teams.Create(ctx, "Beta", "b")

	invites.CreateOrReuse(ctx, alpha.ID, "a", "c", nil)
	invites.CreateOrReuse(ctx, beta.ID, "b", "c", nil)

	if _, err := invites.Accept(ctx, alpha.ID, "c", 4); err != nil {
		t.Fatal(err)
	}
	if _, err := invites.Accept(ctx, beta.ID, "c", 4); !errors.Is(err, ErrAlreadyInTeam) {
		t.Errorf("Expected ErrAlreadyInTeam, got %v", err)
	}
}

func TestInviteRepository_DeclineAndExpire(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	teams := NewTeamRepositoryGORM(gdb)
	invites := NewInviteRepositoryGORM(gdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "a", "A")
	dbtest.SeedUser(t, gdb, "b", "B")
	dbtest.SeedUser(t, gdb, "c", "C")
	team, _, _ := teams.Create(ctx, "Alpha", "a")

	invites.CreateOrReuse(ctx, team.ID, "a", "b", nil)
	declined, err := invites.Decline(ctx, team.ID, "b")
	if err != nil || declined.Status != constants.InviteStatusDeclined {
		t.Fatalf("Expected decline, got %v %v", declined, err)
	}
	if _, err := invites.Decline(ctx, team.ID, "b"); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("Expected ErrInviteNotFound after decline, got %v", err)
	}

	past := time.Now().UTC().Add(-time.Minute)
	stale, err := invites.CreateOrReuse(ctx, team.ID, "a", "c", &past)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := invites.Accept(ctx, team.ID, "c", 4); !errors.Is(err, ErrInviteExpired) {
		t.Errorf("Expected ErrInviteExpired, got %v", err)
	}

	n, err := invites.ExpireStale(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Expected one expired invite, got %d %v", n, err)
	}
	got, _ := invites.GetByID(ctx, stale.ID)
	if got.Status != constants.InviteStatusExpired {
		t.Errorf("Expected expired status, got %s", got.Status)
	}
}

func TestTeamViewRepository(t *testing.T) {
	gdb, sdb := dbtest.Open(t)
	teams := NewTeamRepositoryGORM(gdb)
	invites := NewInviteRepositoryGORM(gdb)
	views := NewTeamViewRepository(sdb)
	ctx := context.Background()
	dbtest.SeedUser(t, gdb, "a", "A")
	dbtest.SeedUser(t, gdb, "b", "B")
	dbtest.SeedUser(t, gdb, "c", "C")

	zulu, _, _ := teams.Create(ctx, "Zulu", "a")
	alpha, _, _ := teams.Create(ctx, "Alpha", "b")
	invites.CreateOrReuse(ctx, zulu.ID, "a", "c", nil)
	invites.CreateOrReuse(ctx, alpha.ID, "b", "c", nil)
	invites.Accept(ctx, alpha.ID, "c", 4)

	list, err := views.ListTeamsWithCounts(ctx)
	if err != nil {
		t.Fatalf("Expected list, got %v", err)
	}
	if len(list) != 2 || list[0].Name != "Alpha" || list[0].MemberCount != 2 || list[1].MemberCount != 1 {
		t.Errorf("Unexpected teams %+v", list)
	}

	dbtest.SeedUser(t, gdb, "d", "D")
	invites.CreateOrReuse(ctx, zulu.ID, "a", "d", nil)
	pending, err := views.PendingInvitesForMember(ctx, "d", time.Now())
	if err != nil {
		t.Fatalf("Expected pending invites, got %v", err)
	}
	if len(pending) != 1 || pending[0].Name != "Zulu" {
		t.Errorf("Unexpected pending invites %+v", pending)
	}

	// c's Zulu invite is still pending but c already joined Alpha
	pending, _ = views.PendingInvitesForMember(ctx, "c", time.Now())
	if len(pending) != 1 {
		t.Errorf("Expected one pending invite for c, got %d", len(pending))
	}
}

func TestKeysRepo(t *testing.T) {
	_, sdb := dbtest.Open(t)
	keys := NewApiKeysRepo(sdb)
	ctx := context.Background()

	key, err := keys.Create(ctx)
	if err != nil {
		t.Fatalf("Expected key, got %v", err)
	}
	got, err := keys.GetStatus(ctx, key)
	if err != nil || got == nil || !got.Status {
		t.Fatalf("Expected active key, got %v %v", got, err)
	}
	missing, err := keys.GetStatus(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Expected nil for unknown key, got %v %v", missing, err)
	}
}
