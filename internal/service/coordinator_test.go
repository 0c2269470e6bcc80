package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/chat"
	"github.com/spec-kit/ticket-bot/internal/chat/chattest"
	"github.com/spec-kit/ticket-bot/internal/clock"
	"github.com/spec-kit/ticket-bot/internal/config"
	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/observability"
	"github.com/spec-kit/ticket-bot/internal/registry"
)

const logChannel = chat.ChannelHandle("log-chan")

var (
	owner = domain.Actor{UserID: "u-1", Name: "alice"}
	admin = domain.Actor{UserID: "u-admin", Name: "mod", IsAdmin: true}
	other = domain.Actor{UserID: "u-2", Name: "bob"}
)

type fixture struct {
	coordinator *Coordinator
	chat        *chattest.Fake
	clock       *clock.Fake
	activity    *registry.ActivityRegistry
}

func newFixture(t *testing.T, mutate ...func(*config.TicketConfig)) *fixture {
	t.Helper()

	cfg := config.TicketConfig{
		CooldownHours:          24,
		InactivitySeconds:      7200,
		SweepMinutes:           10,
		FeedbackTimeoutSeconds: 5,
		DeletionPauseSeconds:   0,
		TranscriptMaxChars:     1900,
		LogChannelID:           string(logChannel),
	}
	for _, m := range mutate {
		m(&cfg)
	}

	fakeChat := chattest.New()
	fakeClock := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	activity := registry.NewActivityRegistry()

	coordinator := NewCoordinator(cfg, CoordinatorDependencies{
		Chat:      fakeChat,
		Clock:     fakeClock,
		Logger:    zap.NewNop(),
		Metrics:   observability.NewMetrics(prometheus.NewRegistry()),
		Cooldowns: registry.NewMemoryCooldowns(),
		Activity:  activity,
	})
	return &fixture{coordinator: coordinator, chat: fakeChat, clock: fakeClock, activity: activity}
}

func (f *fixture) open(t *testing.T, actor domain.Actor, tier domain.Tier) *domain.TicketSession {
	t.Helper()
	session, err := f.coordinator.OpenTicket(context.Background(), actor, tier)
	require.NoError(t, err)
	return session
}

func TestOpenTicketCreatesSession(t *testing.T) {
	f := newFixture(t)

	session := f.open(t, owner, domain.TierTwo)

	assert.Equal(t, domain.SessionStateOpen, session.State)
	assert.Equal(t, owner.UserID, session.OwnerUserID)
	assert.NotEmpty(t, session.TicketID)

	created := f.chat.Created()
	require.Len(t, created, 1)
	assert.Equal(t, domain.TierTwo.CategoryName(), created[0].Category)
	assert.Equal(t, "ticket-alice", created[0].Name)
	require.Len(t, created[0].Overwrites, 1)
	assert.Equal(t, owner.UserID, created[0].Overwrites[0].SubjectID)

	greetings := f.chat.MessagesTo(created[0].Handle)
	require.Len(t, greetings, 1)
	assert.Contains(t, greetings[0], owner.UserID)

	assert.Equal(t, 1, f.activity.Len())
}

func TestOpenTicketCooldownBlocksSecond(t *testing.T) {
	f := newFixture(t)
	f.open(t, owner, domain.TierOne)

	f.clock.Advance(20 * time.Hour)
	_, err := f.coordinator.OpenTicket(context.Background(), owner, domain.TierOne)

	var cooldownErr *domain.CooldownActiveError
	require.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, 4*time.Hour, cooldownErr.Remaining)
	assert.Len(t, f.chat.Created(), 1, "no second channel may be created")
}

func TestOpenTicketAfterCooldownExpires(t *testing.T) {
	f := newFixture(t)
	f.open(t, owner, domain.TierOne)

	f.clock.Advance(25 * time.Hour)
	f.open(t, owner, domain.TierOne)

	// The window restarts from the second open.
	f.clock.Advance(time.Hour)
	_, err := f.coordinator.OpenTicket(context.Background(), owner, domain.TierOne)
	var cooldownErr *domain.CooldownActiveError
	require.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, 23*time.Hour, cooldownErr.Remaining)
}

func TestOpenTicketChannelFailureReleasesCooldown(t *testing.T) {
	f := newFixture(t)
	f.chat.CreateErr = errors.New("platform down")

	_, err := f.coordinator.OpenTicket(context.Background(), owner, domain.TierOne)
	var extErr *domain.ExternalClientError
	require.ErrorAs(t, err, &extErr)

	f.chat.CreateErr = nil
	f.open(t, owner, domain.TierOne)
}

func TestRequestCloseGuards(t *testing.T) {
	f := newFixture(t)
	session := f.open(t, owner, domain.TierOne)
	handle := chat.ChannelHandle(session.ChannelID)

	err := f.coordinator.RequestClose(context.Background(), "no-such-channel", owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.coordinator.RequestClose(context.Background(), handle, other)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	got, ok := f.coordinator.session(handle)
	require.True(t, ok)
	assert.Equal(t, domain.SessionStateOpen, got.State, "denied close must not change state")
}

func TestDuplicateCloseIsAbsorbed(t *testing.T) {
	f := newFixture(t, func(cfg *config.TicketConfig) { cfg.FeedbackTimeoutSeconds = 0 })
	session := f.open(t, owner, domain.TierOne)
	handle := chat.ChannelHandle(session.ChannelID)

	require.NoError(t, f.coordinator.RequestClose(context.Background(), handle, owner))

	// The session is Closing (or already purged); both map to the same
	// idempotent rejection for a second trigger.
	err := f.coordinator.RequestClose(context.Background(), handle, admin)
	if !errors.Is(err, domain.ErrAlreadyClosing) {
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	require.Eventually(t, func() bool {
		return len(f.chat.Deleted()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	var transcripts int
	for _, content := range f.chat.MessagesTo(logChannel) {
		if strings.HasPrefix(content, "📜") {
			transcripts++
		}
	}
	assert.LessOrEqual(t, transcripts, 1, "duplicate close must not repost the transcript")
	assert.Len(t, f.chat.Deleted(), 1)
}

func TestAutoCloseRunsFullWorkflow(t *testing.T) {
	f := newFixture(t)
	session := f.open(t, owner, domain.TierOne)
	handle := chat.ChannelHandle(session.ChannelID)

	base := f.clock.Now()
	f.chat.SetHistory(handle, []chat.HistoryMessage{
		{Timestamp: base.Add(2 * time.Minute), Author: "alice", Content: "third"},
		{Timestamp: base.Add(time.Minute), Author: "staff", Content: "second"},
		{Timestamp: base, Author: "alice", Content: "first"},
	})

	require.NoError(t, f.coordinator.AutoClose(context.Background(), handle))

	// Courtesy notice in the ticket channel, after the greeting.
	ticketMsgs := f.chat.MessagesTo(handle)
	require.Len(t, ticketMsgs, 2)
	assert.Contains(t, ticketMsgs[1], "inactive")

	logMsgs := f.chat.MessagesTo(logChannel)
	require.Len(t, logMsgs, 1)
	assert.Regexp(t, `(?s)first.*second.*third`, logMsgs[0], "transcript must be chronological")

	assert.Equal(t, []chat.ChannelHandle{handle}, f.chat.Deleted())
	_, ok := f.coordinator.session(handle)
	assert.False(t, ok, "closed session must be purged")
	assert.Zero(t, f.activity.Len())
}

func TestAutoCloseSkipsClosingSession(t *testing.T) {
	f := newFixture(t)
	session := f.open(t, owner, domain.TierOne)
	handle := chat.ChannelHandle(session.ChannelID)

	// Simulate a manual close winning the race.
	f.chat.DeleteErr = errors.New("hold the session in closing")
	_ = f.coordinator.AutoClose(context.Background(), handle)

	err := f.coordinator.AutoClose(context.Background(), handle)
	assert.ErrorIs(t, err, domain.ErrAlreadyClosing)
}

func TestActivityDuringClosingDoesNotRevert(t *testing.T) {
	f := newFixture(t)
	session := f.open(t, owner, domain.TierOne)
	handle := chat.ChannelHandle(session.ChannelID)

	f.chat.DeleteErr = errors.New("deletion stalled")
	_ = f.coordinator.AutoClose(context.Background(), handle)

	f.coordinator.RecordActivity(handle, other, "still here?")

	got, ok := f.coordinator.session(handle)
	require.True(t, ok)
	assert.Equal(t, domain.SessionStateClosing, got.State)
}

func TestDeletionFailureLeavesSessionClosing(t *testing.T) {
	f := newFixture(t)
	session := f.open(t, owner, domain.TierOne)
	handle := chat.ChannelHandle(session.ChannelID)

	f.chat.DeleteErr = errors.New("platform down")
	err := f.coordinator.AutoClose(context.Background(), handle)
	var extErr *domain.ExternalClientError
	require.ErrorAs(t, err, &extErr)

	got, ok := f.coordinator.session(handle)
	require.True(t, ok, "failed deletion must not purge the session")
	assert.Equal(t, domain.SessionStateClosing, got.State)
}

func TestRecordActivityUnknownChannelIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.coordinator.RecordActivity("ghost-channel", owner, "hello")
	assert.Zero(t, f.activity.Len())
}

func TestRecordActivityRefreshesSession(t *testing.T) {
	f := newFixture(t)
	session := f.open(t, owner, domain.TierOne)
	handle := chat.ChannelHandle(session.ChannelID)

	f.clock.Advance(time.Hour)
	f.coordinator.RecordActivity(handle, owner, "any update?")

	got, ok := f.coordinator.session(handle)
	require.True(t, ok)
	assert.Equal(t, f.clock.Now(), got.LastActivityAt)
	assert.Empty(t, f.activity.IdleSince(f.clock.Now(), 30*time.Minute))
}

func TestAdminOpsRequireAdmin(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.coordinator.ResetCooldowns(owner), domain.ErrPermissionDenied)
	assert.ErrorIs(t, f.coordinator.ResetUserCooldown(owner, other.UserID), domain.ErrPermissionDenied)
	assert.ErrorIs(t, f.coordinator.PurgeAll(owner), domain.ErrPermissionDenied)
}

func TestResetCooldownsUnblocksUser(t *testing.T) {
	f := newFixture(t)
	f.open(t, owner, domain.TierOne)

	_, err := f.coordinator.OpenTicket(context.Background(), owner, domain.TierOne)
	require.Error(t, err)

	require.NoError(t, f.coordinator.ResetCooldowns(admin))
	f.open(t, owner, domain.TierOne)
}

func TestPurgeAllDropsSessions(t *testing.T) {
	f := newFixture(t)
	f.open(t, owner, domain.TierOne)
	f.open(t, other, domain.TierThree)
	require.Len(t, f.coordinator.ListOpenSessions(), 2)

	require.NoError(t, f.coordinator.PurgeAll(admin))

	assert.Empty(t, f.coordinator.ListOpenSessions())
	assert.Zero(t, f.activity.Len())
	assert.Empty(t, f.chat.Deleted(), "purge must not delete platform channels")
}

func TestListOpenSessionsSnapshot(t *testing.T) {
	f := newFixture(t)
	session := f.open(t, owner, domain.TierOne)

	sessions := f.coordinator.ListOpenSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, session.TicketID, sessions[0].TicketID)

	// Mutating the snapshot does not touch coordinator state.
	sessions[0].State = domain.SessionStateClosed
	got, ok := f.coordinator.session(chat.ChannelHandle(session.ChannelID))
	require.True(t, ok)
	assert.Equal(t, domain.SessionStateOpen, got.State)
}
