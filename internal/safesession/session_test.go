// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/internal/storage/memory"
)

const testSecret = "test-secret-test-secret-test-secret!"

type fixture struct {
	store       *memory.Store
	revocations *memory.Revocations
	signer      *sec.TokenService
	guard       *safesession.Guard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	var mu sync.Mutex
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}

	signer, err := sec.NewTokenService(testSecret, "wevote-test", 14*24*time.Hour)
	require.NoError(t, err)

	f := &fixture{
		store:       memory.New(memory.WithClock(clock)),
		revocations: memory.NewRevocations(),
		signer:      signer,
	}
	f.guard = f.newGuard(f.store)
	return f
}

func (f *fixture) newGuard(db safesession.Database) *safesession.Guard {
	return safesession.NewGuard(safesession.Dependencies{
		Database: db,
		Admin:    f.store,
		Signer:   f.signer,
		Hasher:   sec.NewBcryptHasher(sec.MinBcryptCost),
		Revoker:  f.revocations,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func valid(t *testing.T, name, email, password string) (safesession.ValidDisplayName, safesession.ValidEmail, safesession.ValidPassword) {
	t.Helper()

	validName, err := safesession.ValidateDisplayName(name)
	require.NoError(t, err)
	validEmail, err := safesession.ValidateEmail(email)
	require.NoError(t, err)
	validPassword, err := safesession.ValidatePassword(password)
	require.NoError(t, err)
	return validName, validEmail, validPassword
}

func (f *fixture) signUp(t *testing.T, name, email, password string) safesession.User {
	t.Helper()

	validName, validEmail, validPassword := valid(t, name, email, password)
	user, err := f.guard.Anonymous().CreateNewUser(context.Background(), validName, validEmail, validPassword)
	require.NoError(t, err)
	return user
}

func (f *fixture) signIn(t *testing.T, email, password string) *safesession.Session {
	t.Helper()

	_, validEmail, validPassword := valid(t, "x", email, password)
	token, err := f.guard.Anonymous().ConstructJWT(context.Background(), validEmail, validPassword)
	require.NoError(t, err)

	session, err := f.guard.FromJWT(context.Background(), token)
	require.NoError(t, err)
	return session
}

func content(t *testing.T, raw string) safesession.ValidContent {
	t.Helper()

	valid, err := safesession.ValidateContent(raw)
	require.NoError(t, err)
	return valid
}

// # Accounts

/*
TestSignUpSignIn_RoundTrip verifies that a new account can sign in and that
the session belongs to it.
*/
func TestSignUpSignIn_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user := f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	assert.Equal(t, user.ID(), session.CurrentUser().ID())
	assert.True(t, session.CurrentUser().Is(user.Possible()))

	info, err := user.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane", info.DisplayName)
	assert.Equal(t, safesession.DefaultBio, info.Bio)
	assert.Equal(t, "member", info.Role)

	narrowed, ok := safesession.Requester(session).Authenticated()
	assert.True(t, ok)
	assert.Same(t, session, narrowed)

	_, ok = safesession.Requester(f.guard.Anonymous()).Authenticated()
	assert.False(t, ok)
}

/*
TestConstructJWT_Failures verifies that unknown emails and wrong passwords fail the same way.
*/
func TestConstructJWT_Failures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong_password", "jane@uwo.ca", "hunter23"},
		{"unknown_email", "nobody@uwo.ca", "hunter22"},
	}

	messages := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, email, password := valid(t, "x", tt.email, tt.password)
			token, err := f.guard.Anonymous().ConstructJWT(ctx, email, password)

			assert.Empty(t, token)
			assert.True(t, safesession.IsFail(err, safesession.Unauthorized))
			messages[safesession.AsFail(err).Message] = true
		})
	}
	assert.Len(t, messages, 1)
}

/*
TestCreateNewUser_DuplicateEmail verifies the conflict and that nothing is inserted.
*/
func TestCreateNewUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")

	name, email, password := valid(t, "Janet", "JANE@uwo.ca", "other-pass")
	_, err := f.guard.Anonymous().CreateNewUser(ctx, name, email, password)
	assert.True(t, safesession.IsFail(err, safesession.Conflict))

	_, total, err := f.store.ListUsers(ctx, safesession.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

/*
TestSession_CreateNewUser verifies that a signed-in caller cannot register.
*/
func TestSession_CreateNewUser(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	name, email, password := valid(t, "Bob", "bob@uwo.ca", "hunter22")
	_, err := session.CreateNewUser(context.Background(), name, email, password)
	assert.True(t, safesession.IsFail(err, safesession.Unauthorized))
}

/*
TestCreateNewUser_ZeroValuesPanic verifies that unvalidated input never reaches the store.
*/
func TestCreateNewUser_ZeroValuesPanic(t *testing.T) {
	f := newFixture(t)

	assert.Panics(t, func() {
		_, _ = f.guard.Anonymous().CreateNewUser(context.Background(),
			safesession.ValidDisplayName{}, safesession.ValidEmail{}, safesession.ValidPassword{})
	})
	assert.Zero(t, f.store.Calls())
}

// # Tokens

/*
TestFromJWT_Rejects covers every token that must not yield a session.
*/
func TestFromJWT_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	deleted := f.signUp(t, "Gone", "gone@uwo.ca", "hunter22")
	goneToken, err := f.signer.Sign(deleted.ID())
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteUser(ctx, deleted.ID()))

	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")
	janeToken, err := f.signer.Sign(session.CurrentUser().ID())
	require.NoError(t, err)
	revokedSession, err := f.guard.FromJWT(ctx, janeToken)
	require.NoError(t, err)
	require.NoError(t, revokedSession.SignOut(ctx))

	other, err := sec.NewTokenService("another-secret-another-secret-1234", "wevote-test", time.Hour)
	require.NoError(t, err)
	forged, err := other.Sign(session.CurrentUser().ID())
	require.NoError(t, err)

	emptyID, err := f.signer.Sign("")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "abc.def.ghi"},
		{"wrong_key", forged},
		{"empty_user_id", emptyID},
		{"deleted_user", goneToken},
		{"signed_out", janeToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := f.guard.FromJWT(ctx, tt.token)
			assert.Nil(t, session)
			assert.True(t, safesession.IsFail(err, safesession.Unauthorized), "got %v", err)
		})
	}
}

type brokenRevoker struct{}

func (brokenRevoker) Revoke(context.Context, string, time.Time) error {
	return errors.New("redis down")
}

func (brokenRevoker) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

/*
TestFromJWT_RevokerFault verifies that an unreadable revocation list is a fault, not a rejection.
*/
func TestFromJWT_RevokerFault(t *testing.T) {
	f := newFixture(t)
	user := f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	token, err := f.signer.Sign(user.ID())
	require.NoError(t, err)

	guard := safesession.NewGuard(safesession.Dependencies{
		Database: f.store,
		Signer:   f.signer,
		Hasher:   sec.NewBcryptHasher(sec.MinBcryptCost),
		Revoker:  brokenRevoker{},
	})

	_, err = guard.FromJWT(context.Background(), token)
	assert.True(t, safesession.IsFail(err, safesession.DatabaseFault))
}

// # Identity

type brokenDatabase struct {
	safesession.Database
}

func (brokenDatabase) UserExists(context.Context, string) (bool, error) {
	return false, errors.New("connection reset")
}

/*
TestGetRealUser covers the three outcomes of an identity upgrade.
*/
func TestGetRealUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	anonymous := f.guard.Anonymous()

	found, err := anonymous.GetRealUser(ctx, user.ID())
	require.NoError(t, err)
	assert.Equal(t, user.ID(), found.ID())

	upgraded, err := anonymous.User(user.ID()).ToRealUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID(), upgraded.ID())

	_, err = anonymous.GetRealUser(ctx, "missing")
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))

	_, err = anonymous.GetRealUser(ctx, "")
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))

	broken := f.newGuard(brokenDatabase{Database: f.store})
	_, err = broken.Anonymous().GetRealUser(ctx, user.ID())
	assert.True(t, safesession.IsFail(err, safesession.DatabaseFault))
}

/*
TestUserInfo_DeletedAfterCheck verifies that a stale User reports Nonexistent.
*/
func TestUserInfo_DeletedAfterCheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")

	require.NoError(t, f.store.DeleteUser(ctx, user.ID()))

	_, err := user.Info(ctx)
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))
}

// # Polls

/*
TestSubmitVote covers the upsert, the closed poll and the bad IDs.
*/
func TestSubmitVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	open, err := f.store.InsertPoll(ctx, safesession.PollInput{Title: "open", ClosesAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	closed, err := f.store.InsertPoll(ctx, safesession.PollInput{Title: "closed", Closed: true})
	require.NoError(t, err)

	require.NoError(t, session.SubmitVote(ctx, open, true, false))
	require.NoError(t, session.SubmitVote(ctx, open, false, true))

	raw, err := f.store.GetPoll(ctx, open)
	require.NoError(t, err)
	assert.Equal(t, 1, raw.TotalSubmissions)

	info, err := session.GetPollInfo(ctx, open)
	require.NoError(t, err)
	require.NotNil(t, info.Submission)
	assert.False(t, info.Submission.VotedA)
	assert.True(t, info.Submission.PredictedA)
	assert.Equal(t, safesession.TallyOpen, info.Poll.Votes.State)
	assert.Equal(t, safesession.WinnerOpen, info.Poll.Winner)
	assert.True(t, info.Poll.Predictions.IsVisible())

	tests := []struct {
		name   string
		pollID int64
		kind   safesession.FailKind
	}{
		{"zero_id", 0, safesession.Unauthorized},
		{"missing_poll", 999, safesession.Nonexistent},
		{"closed_poll", closed, safesession.Conflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := session.SubmitVote(ctx, tt.pollID, true, true)
			assert.True(t, safesession.IsFail(err, tt.kind), "got %v", err)
		})
	}
}

/*
TestGetPollInfo_Missing verifies that an unknown poll is Nonexistent.
*/
func TestGetPollInfo_Missing(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	_, err := session.GetPollInfo(context.Background(), 42)
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))
}

/*
TestGetHomepagePollInfos verifies open polls come first, closed polls are
capped and every item is redacted.
*/
func TestGetHomepagePollInfos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := f.store.InsertPoll(ctx, safesession.PollInput{Title: "closed", Closed: true, ClosesAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}
	openID, err := f.store.InsertPoll(ctx, safesession.PollInput{Title: "open", ClosesAt: base.Add(240 * time.Hour)})
	require.NoError(t, err)

	polls, err := session.GetHomepagePollInfos(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 1+safesession.HomepageClosedPolls)

	assert.Equal(t, openID, polls[0].Poll.ID)
	assert.Equal(t, safesession.TallyInaccessible, polls[0].Poll.Votes.State)
	assert.Equal(t, safesession.TallyInaccessible, polls[0].Poll.Predictions.State)

	for _, closed := range polls[1:] {
		assert.True(t, closed.Poll.Closed)
		assert.True(t, closed.Poll.Votes.IsVisible())
	}
	assert.True(t, polls[1].Poll.EndDate.After(polls[2].Poll.EndDate))

	archive, err := session.GetClosedPollInfos(ctx)
	require.NoError(t, err)
	assert.Len(t, archive, 5)
}

// # Comments

/*
TestComments_OrderAndNesting verifies time ordering of comments and replies.
*/
func TestComments_OrderAndNesting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	pollID, err := f.store.InsertPoll(ctx, safesession.PollInput{Title: "p"})
	require.NoError(t, err)

	first, err := session.AddComment(ctx, pollID, "first")
	require.NoError(t, err)
	second, err := session.AddComment(ctx, pollID, "  second  ")
	require.NoError(t, err)
	_, err = session.AddReply(ctx, first, "reply one")
	require.NoError(t, err)
	_, err = session.AddReply(ctx, first, "reply two")
	require.NoError(t, err)

	comments, err := session.GetCommentsForPoll(ctx, pollID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, first, comments[0].ID)
	assert.Equal(t, second, comments[1].ID)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "Jane", comments[0].Author.DisplayName)

	require.Len(t, comments[0].Replies, 2)
	assert.Equal(t, "reply one", comments[0].Replies[0].Content)
	assert.Equal(t, "reply two", comments[0].Replies[1].Content)
	assert.Empty(t, comments[1].Replies)
}

/*
TestAddComment_BlankNeverReachesStore verifies that blank content fails before any store call.
*/
func TestAddComment_BlankNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	before := f.store.Calls()

	_, err := session.AddComment(ctx, 1, "   \n ")
	assert.True(t, safesession.IsFail(err, safesession.Unauthorized))

	_, err = session.AddReply(ctx, 1, "")
	assert.True(t, safesession.IsFail(err, safesession.Unauthorized))

	assert.Equal(t, before, f.store.Calls())
}

/*
TestAddComment_MissingPoll verifies that commenting on an unknown poll is Nonexistent.
*/
func TestAddComment_MissingPoll(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	_, err := session.AddComment(context.Background(), 404, "hello")
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))
}

// # Profile and community

/*
TestUpdateBio verifies the bio is written to the caller's own profile.
*/
func TestUpdateBio(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	require.NoError(t, session.UpdateBio(ctx, content(t, "I like polls")))

	info, err := session.CurrentUser().Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "I like polls", info.Bio)
}

/*
TestEquipCosmetic verifies that only owned cosmetics can be equipped.
*/
func TestEquipCosmetic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")
	userID := session.CurrentUser().ID()

	hat := f.store.SeedCosmetic(safesession.SlotFront, 10, "/cosmetics/hat.png")
	cape := f.store.SeedCosmetic(safesession.SlotBack, 20, "/cosmetics/cape.png")
	f.store.GrantCosmetic(userID, hat)

	cosmetics, err := session.Cosmetics(ctx)
	require.NoError(t, err)
	require.Len(t, cosmetics.Owned.Front, 1)
	assert.Equal(t, 1, cosmetics.Owned.Front[0].Purchases)
	require.Len(t, cosmetics.Available.Back, 1)

	require.NoError(t, session.EquipCosmetic(ctx, safesession.SlotFront, hat))

	info, err := session.CurrentUser().Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, hat, info.Displayed.Front)

	err = session.EquipCosmetic(ctx, safesession.SlotBack, cape)
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))

	err = session.EquipCosmetic(ctx, safesession.Slot("hat"), hat)
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))
}

/*
TestLeaderboards verifies ordering and size clamping.
*/
func TestLeaderboards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ann := f.store.SeedUser("Ann", "ann@uwo.ca", "h", sec.RoleMember)
	bob := f.store.SeedUser("Bob", "bob@uwo.ca", "h", sec.RoleMember)
	f.store.SetStats(ann, 5, 100, 2)
	f.store.SetStats(bob, 5, 50, 9)

	boards, err := f.guard.Anonymous().Leaderboards(ctx, 1)
	require.NoError(t, err)

	require.Len(t, boards.Streak, 1)
	assert.Equal(t, "Bob", boards.Streak[0].DisplayName)
	require.Len(t, boards.LifetimePoints, 1)
	assert.Equal(t, 100, boards.LifetimePoints[0].Score)

	boards, err = f.guard.Anonymous().Leaderboards(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, boards.Collectors, 2)
}

/*
TestSuggestPoll verifies suggestions are filed for the current user.
*/
func TestSuggestPoll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	session := f.signIn(t, "jane@uwo.ca", "hunter22")

	suggestion, err := session.SuggestPoll(ctx,
		content(t, "Tea or coffee?"), content(t, "Morning drink"), content(t, "Tea"), content(t, "Coffee"))
	require.NoError(t, err)
	assert.NotZero(t, suggestion.ID)

	stored, err := f.store.GetSuggestion(ctx, suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, session.CurrentUser().ID(), stored.SuggesterID)
	assert.Equal(t, "Coffee", stored.Options.B)
}

// # Administration

/*
TestAdmin_Elevation verifies that only admins elevate and that admins cannot delete themselves.
*/
func TestAdmin_Elevation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.signUp(t, "Member", "member@uwo.ca", "hunter22")
	member := f.signIn(t, "member@uwo.ca", "hunter22")

	_, err := member.Admin(ctx)
	assert.True(t, safesession.IsFail(err, safesession.Unauthorized))

	boss := f.signUp(t, "Boss", "boss@uwo.ca", "hunter22")
	f.store.SetRole(boss.ID(), safesession.RoleAdmin)
	session := f.signIn(t, "boss@uwo.ca", "hunter22")

	admin, err := session.Admin(ctx)
	require.NoError(t, err)

	err = admin.DeleteUser(ctx, boss.ID())
	assert.True(t, safesession.IsFail(err, safesession.Conflict))

	require.NoError(t, admin.DeleteUser(ctx, member.CurrentUser().ID()))
	_, err = f.guard.FromJWT(ctx, mustSign(t, f, member.CurrentUser().ID()))
	assert.True(t, safesession.IsFail(err, safesession.Unauthorized))

	err = admin.DeleteUser(ctx, member.CurrentUser().ID())
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))
}

type brokenAdminDatabase struct {
	safesession.AdminDatabase
}

func (brokenAdminDatabase) GetUserRole(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

/*
TestAdmin_RoleLookupFault verifies that an unreadable role is a fault, not a permission failure.
*/
func TestAdmin_RoleLookupFault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.signUp(t, "Boss", "boss@uwo.ca", "hunter22")

	guard := safesession.NewGuard(safesession.Dependencies{
		Database: f.store,
		Admin:    brokenAdminDatabase{},
		Signer:   f.signer,
		Hasher:   sec.NewBcryptHasher(sec.MinBcryptCost),
		Revoker:  f.revocations,
	})
	session, err := guard.FromJWT(ctx, mustSign(t, f, user.ID()))
	require.NoError(t, err)

	admin, err := session.Admin(ctx)
	assert.Nil(t, admin)
	assert.True(t, safesession.IsFail(err, safesession.DatabaseFault), "got %v", err)
}

/*
TestAdmin_ApproveSuggestion verifies the poll created from a suggestion.
*/
func TestAdmin_ApproveSuggestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.signUp(t, "Jane", "jane@uwo.ca", "hunter22")
	jane := f.signIn(t, "jane@uwo.ca", "hunter22")
	suggestion, err := jane.SuggestPoll(ctx, content(t, "Tea or coffee?"), content(t, "Morning drink"), content(t, "Tea"), content(t, "Coffee"))
	require.NoError(t, err)

	boss := f.signUp(t, "Boss", "boss@uwo.ca", "hunter22")
	f.store.SetRole(boss.ID(), safesession.RoleAdmin)
	admin, err := f.signIn(t, "boss@uwo.ca", "hunter22").Admin(ctx)
	require.NoError(t, err)

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	pollID, err := admin.ApproveSuggestion(ctx, suggestion.ID, now)
	require.NoError(t, err)

	poll, err := admin.GetPoll(ctx, pollID)
	require.NoError(t, err)
	assert.Equal(t, now.Add(safesession.SuggestionPollLifetime), poll.EndDate)
	require.NotNil(t, poll.SuggestedBy)
	assert.Equal(t, jane.CurrentUser().ID(), *poll.SuggestedBy)
	assert.False(t, poll.Closed)

	_, err = admin.ApproveSuggestion(ctx, suggestion.ID, now)
	assert.True(t, safesession.IsFail(err, safesession.Conflict))

	_, err = admin.ApproveSuggestion(ctx, 9999, now)
	assert.True(t, safesession.IsFail(err, safesession.Nonexistent))
}

func mustSign(t *testing.T, f *fixture, userID string) string {
	t.Helper()

	token, err := f.signer.Sign(userID)
	require.NoError(t, err)
	return token
}
